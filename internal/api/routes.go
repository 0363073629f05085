package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/poolroom/internal/api/handlers"
	"github.com/playmatatu/poolroom/internal/config"
	"github.com/playmatatu/poolroom/internal/middleware"
	"github.com/playmatatu/poolroom/internal/ws"
)

// Deps are the services the routes are wired to. DB and Shots may be nil when
// PostgreSQL is not configured.
type Deps struct {
	Scene handlers.Scene
	Hub   *ws.Hub
	Shots handlers.ShotReader
	DB    *sqlx.DB
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, deps Deps, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Next()
		})
		log.Println("[DEV MODE] no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", handlers.HealthCheck(deps.Scene))
		v1.POST("/session", handlers.CreateSession(cfg))
		v1.GET("/shots", handlers.ListShots(deps.Shots))

		sc := v1.Group("/scene")
		{
			sc.GET("", handlers.GetScene(deps.Scene))
			sc.GET("/ws", middleware.WebSocketCORSCheck(cfg), middleware.ControlAuth(cfg), handlers.HandleSceneWebSocket(deps.Hub))

			control := sc.Group("", middleware.ControlAuth(cfg))
			control.POST("/shoot", handlers.Shoot(deps.Scene))
			control.POST("/aim", handlers.Aim(deps.Scene))
			control.POST("/lights/:index", handlers.ToggleLight(deps.Scene))
			control.POST("/dice", handlers.RollDice(deps.Scene))
			control.POST("/spotlight", handlers.ToggleSpotlight(deps.Scene))
		}

		adm := v1.Group("/admin", middleware.AdminAuth(cfg))
		{
			adm.POST("/reset", handlers.ResetScene(deps.Scene, deps.DB))
			adm.GET("/audit", handlers.GetAdminAuditLogs(deps.DB))
		}
	}
}
