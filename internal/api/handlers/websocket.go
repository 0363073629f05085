package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/playmatatu/poolroom/internal/middleware"
	"github.com/playmatatu/poolroom/internal/ws"
)

// HandleSceneWebSocket streams frames and accepts commands over a WebSocket
func HandleSceneWebSocket(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		hub.ServeWS(c, middleware.SessionID(c))
	}
}
