package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ShotRecord is one entry in the shot log
type ShotRecord struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Angle     float64   `db:"angle" json:"angle"`
	Power     float64   `db:"power" json:"power"`
	Frame     int64     `db:"frame" json:"frame"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AdminAudit represents an admin audit log entry
type AdminAudit struct {
	ID        int             `db:"id" json:"id"`
	Actor     string          `db:"actor" json:"actor"`
	IP        string          `db:"ip" json:"ip"`
	Route     string          `db:"route" json:"route"`
	Action    string          `db:"action" json:"action"`
	Details   json.RawMessage `db:"details" json:"details"`
	Success   bool            `db:"success" json:"success"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
