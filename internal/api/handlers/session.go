package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/playmatatu/poolroom/internal/config"
	"github.com/playmatatu/poolroom/internal/middleware"
)

// CreateSession issues a control token for a fresh session id
func CreateSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := uuid.NewString()
		ttl := time.Duration(cfg.ControlTokenTTLMin) * time.Minute

		token, exp, err := middleware.IssueControlToken(cfg.JWTSecret, sessionID, ttl)
		if err != nil {
			log.Printf("[API] Failed to sign token: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[API] Session %s created from %s", sessionID, c.ClientIP())
		c.JSON(http.StatusCreated, gin.H{
			"session_id": sessionID,
			"token":      token,
			"expires_at": exp.UTC().Format(time.RFC3339),
		})
	}
}
