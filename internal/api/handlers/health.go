package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthCheck returns server health status
func HealthCheck(s Scene) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := gin.H{
			"status":  "ok",
			"service": "poolroom",
			"version": version,
			"uptime":  time.Since(startTime).String(),
		}
		if snap := s.Snapshot(); snap != nil {
			resp["scene_id"] = snap.SceneID
			resp["frame"] = snap.Frame
		}
		c.JSON(http.StatusOK, resp)
	}
}
