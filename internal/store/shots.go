package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/playmatatu/poolroom/internal/models"
	"github.com/playmatatu/poolroom/internal/scene"
)

const (
	DefaultShotLimit = 20
	MaxShotLimit     = 100
)

// ShotLog writes fired shots to PostgreSQL. The scene driver hands shots over
// through Listener; Run does the inserts off the driver goroutine.
type ShotLog struct {
	db    *sqlx.DB
	queue chan models.ShotRecord
}

func NewShotLog(db *sqlx.DB, queueSize int) *ShotLog {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &ShotLog{db: db, queue: make(chan models.ShotRecord, queueSize)}
}

// NewShotRecord stamps a fired shot with a fresh id.
func NewShotRecord(shot scene.ShotFired, now time.Time) models.ShotRecord {
	return models.ShotRecord{
		ID:        uuid.New(),
		SessionID: shot.SessionID,
		Angle:     shot.Angle,
		Power:     shot.Power,
		Frame:     int64(shot.Frame),
		CreatedAt: now.UTC(),
	}
}

// ClampLimit maps a requested page size onto [1, MaxShotLimit].
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultShotLimit
	}
	if limit > MaxShotLimit {
		return MaxShotLimit
	}
	return limit
}

// Listener queues the snapshot's shots without blocking.
func (s *ShotLog) Listener() scene.Listener {
	return func(snap *scene.Snapshot) {
		for _, shot := range snap.Shots {
			rec := NewShotRecord(shot, time.Now())
			select {
			case s.queue <- rec:
			default:
				log.Printf("[DB] Shot log queue full, dropping shot session=%s frame=%d", shot.SessionID, shot.Frame)
			}
		}
	}
}

// Run inserts queued shots until ctx is cancelled.
func (s *ShotLog) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case rec := <-s.queue:
			insertCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := s.Record(insertCtx, rec); err != nil {
				log.Printf("[DB] Failed to record shot %s: %v", rec.ID, err)
			}
			cancel()
		}
	}
}

// Record inserts one shot.
func (s *ShotLog) Record(ctx context.Context, rec models.ShotRecord) error {
	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO shots (id, session_id, angle, power, frame, created_at)
		VALUES (:id, :session_id, :angle, :power, :frame, :created_at)
	`, rec)
	if err != nil {
		return fmt.Errorf("insert shot: %w", err)
	}
	return nil
}

// Recent returns the latest shots, newest first.
func (s *ShotLog) Recent(ctx context.Context, limit int) ([]models.ShotRecord, error) {
	shots := []models.ShotRecord{}
	err := s.db.SelectContext(ctx, &shots, `
		SELECT id, session_id, angle, power, frame, created_at
		FROM shots
		ORDER BY created_at DESC
		LIMIT $1
	`, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("select shots: %w", err)
	}
	return shots, nil
}
