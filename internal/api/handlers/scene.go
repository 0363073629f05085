package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolroom/internal/middleware"
	"github.com/playmatatu/poolroom/internal/scene"
)

// Scene is the scene driver as the handlers see it.
type Scene interface {
	Submit(cmd scene.Command) error
	Snapshot() *scene.Snapshot
}

// GetScene returns the latest snapshot
func GetScene(s Scene) gin.HandlerFunc {
	return func(c *gin.Context) {
		snap := s.Snapshot()
		if snap == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "scene not ready"})
			return
		}
		c.Header("X-Scene-Frame", strconv.FormatUint(snap.Frame, 10))
		c.JSON(http.StatusOK, snap)
	}
}

// submit queues cmd and writes the response.
func submit(c *gin.Context, s Scene, cmd scene.Command) {
	if err := s.Submit(cmd); err != nil {
		switch {
		case errors.Is(err, scene.ErrQueueFull):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.Is(err, scene.ErrStopped):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		log.Printf("[API] Command %s rejected session=%s: %v", cmd.Type, cmd.SessionID, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "command": cmd.Type})
}

// Shoot sends the cue ball off at the requested angle
func Shoot(s Scene) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Angle *float64 `json:"angle" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "angle required"})
			return
		}
		submit(c, s, scene.Command{
			Type:      scene.CmdShoot,
			SessionID: middleware.SessionID(c),
			Angle:     *req.Angle,
		})
	}
}

// Aim drives shooting mode: exactly one of mode ("toggle"), delta or fire.
func Aim(s Scene) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Mode  string   `json:"mode"`
			Delta *float64 `json:"delta"`
			Fire  bool     `json:"fire"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		cmd := scene.Command{SessionID: middleware.SessionID(c)}
		set := 0
		if req.Mode != "" {
			if req.Mode != "toggle" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "mode must be \"toggle\""})
				return
			}
			cmd.Type = scene.CmdToggleMode
			set++
		}
		if req.Delta != nil {
			cmd.Type = scene.CmdAim
			cmd.Delta = *req.Delta
			set++
		}
		if req.Fire {
			cmd.Type = scene.CmdFire
			set++
		}
		if set != 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "exactly one of mode, delta or fire required"})
			return
		}
		submit(c, s, cmd)
	}
}

// ToggleLight flips the light at :index
func ToggleLight(s Scene) gin.HandlerFunc {
	return func(c *gin.Context) {
		index, err := strconv.Atoi(c.Param("index"))
		if err != nil || scene.LightName(index) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "light index must be 0-5"})
			return
		}
		submit(c, s, scene.Command{
			Type:      scene.CmdToggleLight,
			SessionID: middleware.SessionID(c),
			Light:     index,
		})
	}
}

// RollDice starts the dice animation
func RollDice(s Scene) gin.HandlerFunc {
	return func(c *gin.Context) {
		submit(c, s, scene.Command{Type: scene.CmdRollDice, SessionID: middleware.SessionID(c)})
	}
}

// ToggleSpotlight starts or stops the spotlight swing
func ToggleSpotlight(s Scene) gin.HandlerFunc {
	return func(c *gin.Context) {
		submit(c, s, scene.Command{Type: scene.CmdSpotlight, SessionID: middleware.SessionID(c)})
	}
}
