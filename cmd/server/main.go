package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolroom/internal/api"
	"github.com/playmatatu/poolroom/internal/config"
	"github.com/playmatatu/poolroom/internal/database"
	"github.com/playmatatu/poolroom/internal/migrations"
	"github.com/playmatatu/poolroom/internal/redis"
	"github.com/playmatatu/poolroom/internal/scene"
	"github.com/playmatatu/poolroom/internal/store"
	"github.com/playmatatu/poolroom/internal/ws"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Initialize configuration (.env is loaded if present)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scene loop
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	room := scene.NewRoom(cfg.Physics, seed)
	driver := scene.NewDriver(room, scene.DriverConfig{
		SceneID:         cfg.SceneID,
		SimHz:           cfg.SimHz,
		RenderHz:        cfg.RenderHz,
		MaxCatchUpSteps: cfg.MaxCatchUpSteps,
		QueueSize:       cfg.CommandQueueSize,
	})
	hub := ws.NewHub(driver)
	driver.AddListener(hub.FrameListener())

	g, gctx := errgroup.WithContext(ctx)
	deps := api.Deps{Scene: driver, Hub: hub}

	// Shot log (optional)
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if os.Getenv("MIGRATE_ON_START") == "true" {
			log.Println("[MIGRATE] Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL, os.Getenv("MIGRATIONS_DIR")); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}

		shotLog := store.NewShotLog(db, cfg.CommandQueueSize)
		driver.AddListener(shotLog.Listener())
		g.Go(func() error { return shotLog.Run(gctx) })
		deps.Shots = shotLog
		deps.DB = db
		log.Printf("[DB] Shot log enabled")
	} else {
		log.Printf("[DB] DATABASE_URL not set - shot log disabled")
	}

	// Snapshot cache and event relay (optional)
	if cfg.RedisURL != "" {
		rdb, err := redis.Connect(cfg.RedisURL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()

		cache := store.NewSnapshotCache(rdb, cfg.SceneID,
			time.Duration(cfg.SnapshotIntervalMs)*time.Millisecond,
			time.Duration(cfg.SnapshotTTLSeconds)*time.Second)
		if prev, err := cache.Load(ctx); err == nil {
			log.Printf("[REDIS] Previous snapshot for scene %s stopped at frame %d; starting fresh", cfg.SceneID, prev.Frame)
		}
		driver.AddListener(cache.Listener())
		g.Go(func() error { return cache.Run(gctx) })
		g.Go(func() error { return hub.RunEventRelay(gctx, rdb, cfg.SceneID) })
	} else {
		log.Printf("[REDIS] REDIS_URL not set - snapshot cache disabled")
	}

	g.Go(func() error { return hub.Run(gctx) })
	g.Go(func() error { return driver.Run(gctx) })

	// Set up Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	api.SetupRoutes(router, deps, cfg)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	g.Go(func() error {
		log.Printf("Starting poolroom server on port %s (scene=%s)", cfg.Port, cfg.SceneID)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
	log.Println("Server stopped")
}
