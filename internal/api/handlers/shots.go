package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolroom/internal/models"
	"github.com/playmatatu/poolroom/internal/store"
)

// ShotReader reads the shot log.
type ShotReader interface {
	Recent(ctx context.Context, limit int) ([]models.ShotRecord, error)
}

// ListShots returns the most recent shots, newest first
func ListShots(shots ShotReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		if shots == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "shot log disabled"})
			return
		}

		limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(store.DefaultShotLimit)))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		limit = store.ClampLimit(limit)

		rows, err := shots.Recent(c.Request.Context(), limit)
		if err != nil {
			log.Printf("[DB] Failed to fetch shots: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shots"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"shots": rows, "limit": limit})
	}
}
