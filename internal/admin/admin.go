package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/poolroom/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// ErrAdminDisabled is returned when no admin key hash is configured.
var ErrAdminDisabled = errors.New("admin key not configured")

// HashAdminKey returns the bcrypt hash to put in ADMIN_KEY_HASH.
func HashAdminKey(plainKey string) (string, error) {
	if plainKey == "" {
		return "", fmt.Errorf("admin key is empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainKey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash key: %w", err)
	}
	return string(hashed), nil
}

// VerifyAdminKey checks if the provided key matches the stored hash
func VerifyAdminKey(hashedKey, plainKey string) error {
	if hashedKey == "" {
		return ErrAdminDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashedKey), []byte(plainKey)); err != nil {
		log.Printf("[ADMIN] Key verification failed: %v", err)
		return fmt.Errorf("invalid admin key")
	}
	return nil
}

// LogAdminAction records an admin action in the audit log. A nil db is a no-op.
func LogAdminAction(db *sqlx.DB, actor, ip, route, action string, details map[string]interface{}, success bool) error {
	if db == nil {
		return nil
	}

	detailsJSON, err := json.Marshal(details)
	if err != nil {
		log.Printf("[ADMIN] Failed to marshal audit details: %v", err)
		detailsJSON = []byte("{}")
	}

	_, err = db.Exec(`
		INSERT INTO admin_audit (actor, ip, route, action, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, actor, ip, route, action, detailsJSON, success)

	if err != nil {
		log.Printf("[ADMIN] Failed to log admin action: %v", err)
	}

	return err
}

// GetAdminAuditLogs retrieves recent admin audit logs with pagination
func GetAdminAuditLogs(db *sqlx.DB, limit, offset int) ([]models.AdminAudit, error) {
	var logs []models.AdminAudit
	query := `
		SELECT id, actor, ip, route, action, details, success, created_at
		FROM admin_audit
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	err := db.Select(&logs, query, limit, offset)
	return logs, err
}
