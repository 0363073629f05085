package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/poolroom/internal/admin"
	"github.com/playmatatu/poolroom/internal/scene"
)

// ResetScene re-racks the table and records the action in the audit log
func ResetScene(s Scene, db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := s.Submit(scene.Command{Type: scene.CmdReset, SessionID: "admin"})
		details := map[string]interface{}{}
		if snap := s.Snapshot(); snap != nil {
			details["frame"] = snap.Frame
		}
		if err != nil {
			details["error"] = err.Error()
		}
		_ = admin.LogAdminAction(db, "admin", c.ClientIP(), c.FullPath(), "reset_scene", details, err == nil)

		if err != nil {
			log.Printf("[ADMIN] Reset rejected: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		log.Printf("[ADMIN] Scene reset requested from %s", c.ClientIP())
		c.JSON(http.StatusAccepted, gin.H{"status": "queued", "command": scene.CmdReset})
	}
}

// GetAdminAuditLogs returns paginated audit log entries
func GetAdminAuditLogs(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit log disabled"})
			return
		}

		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "25"))
		offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
		if limit <= 0 {
			limit = 25
		}
		if limit > 200 {
			limit = 200
		}
		if offset < 0 {
			offset = 0
		}

		logs, err := admin.GetAdminAuditLogs(db, limit, offset)
		if err != nil {
			log.Printf("[ADMIN] Failed to fetch audit logs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"logs": logs, "limit": limit, "offset": offset})
	}
}
