package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/playmatatu/poolroom/internal/admin"
)

func main() {
	key := flag.String("key", "", "admin key to hash (read from stdin when empty)")
	flag.Parse()

	plain := *key
	if plain == "" {
		plain = os.Getenv("ADMIN_KEY")
	}
	if plain == "" {
		fmt.Fprint(os.Stderr, "Admin key: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("Failed to read admin key: %v", err)
		}
		plain = strings.TrimSpace(line)
	}

	if plain == "change-me-in-production" {
		log.Printf("WARNING: hashing the default admin key. Pick your own in production!")
	}

	hash, err := admin.HashAdminKey(plain)
	if err != nil {
		log.Fatalf("Failed to hash admin key: %v", err)
	}

	fmt.Printf("ADMIN_KEY_HASH=%s\n", hash)
}
