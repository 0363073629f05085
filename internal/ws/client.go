package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/playmatatu/poolroom/internal/scene"
)

// Client message data types
type ShootData struct {
	Angle *float64 `json:"angle"`
}

type AimData struct {
	Delta float64 `json:"delta"`
}

type ToggleLightData struct {
	Index *int `json:"index"`
}

var errMissingField = errors.New("missing field")

// DecodeCommand turns a client message into a scene command.
func DecodeCommand(msg WSMessage, sessionID string) (scene.Command, error) {
	cmd := scene.Command{Type: scene.CommandType(msg.Type), SessionID: sessionID}

	switch cmd.Type {
	case scene.CmdShoot:
		var data ShootData
		if err := decodeData(msg.Data, &data); err != nil {
			return cmd, err
		}
		if data.Angle == nil {
			return cmd, fmt.Errorf("shoot: angle: %w", errMissingField)
		}
		cmd.Angle = *data.Angle

	case scene.CmdAim:
		var data AimData
		if err := decodeData(msg.Data, &data); err != nil {
			return cmd, err
		}
		cmd.Delta = data.Delta

	case scene.CmdToggleLight:
		var data ToggleLightData
		if err := decodeData(msg.Data, &data); err != nil {
			return cmd, err
		}
		if data.Index == nil {
			return cmd, fmt.Errorf("toggle_light: index: %w", errMissingField)
		}
		cmd.Light = *data.Index

	case scene.CmdToggleMode, scene.CmdFire, scene.CmdRollDice, scene.CmdSpotlight:
		// no payload

	default:
		// reset is admin-only and never accepted from the stream
		return cmd, scene.ErrUnknownCommand
	}

	return cmd, nil
}

func decodeData(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid data: %w", err)
	}
	return nil
}

// ServeWS upgrades the request and attaches a client to the hub.
func (h *Hub) ServeWS(c *gin.Context, sessionID string) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		hub:       h,
		conn:      conn,
		id:        uuid.NewString(),
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump reads client commands until the connection drops.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Unexpected close for client %s: %v", c.id, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("invalid message")
			continue
		}

		c.handleMessage(msg)
	}
}

// handleMessage processes incoming scene commands.
func (c *Client) handleMessage(msg WSMessage) {
	if msg.Type == "ping" {
		c.hub.sendTo(c, map[string]interface{}{"type": "pong"})
		return
	}

	cmd, err := DecodeCommand(msg, c.sessionID)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	if err := c.hub.scene.Submit(cmd); err != nil {
		log.Printf("[WS] Command %s from client %s rejected: %v", cmd.Type, c.id, err)
		c.sendError(err.Error())
		return
	}

	c.hub.sendTo(c, map[string]interface{}{"type": "ack", "command": msg.Type})
}
