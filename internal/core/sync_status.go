package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/halvard/cms/internal/model"
)

// SyncStatusService maintains the domain sync progress flag in the
// platform_config key-value table. The flag tells external readers whether
// the unlocked domain set is currently being rebuilt and therefore
// incomplete.
type SyncStatusService struct {
	db  DB
	ttl time.Duration
}

func NewSyncStatusService(db DB, ttl time.Duration) *SyncStatusService {
	return &SyncStatusService{db: db, ttl: ttl}
}

// Get returns the current flag. A missing row means no sync has ever run and
// reads as idle. A running flag older than the staleness TTL is reported as
// idle so a crashed run cannot block future syncs forever.
func (s *SyncStatusService) Get(ctx context.Context) (model.SyncStatus, error) {
	var value string
	err := s.db.QueryRow(ctx,
		"SELECT value FROM platform_config WHERE key = $1", model.SyncStatusKey,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.SyncStatus{Status: model.SyncIdle}, nil
		}
		return model.SyncStatus{}, fmt.Errorf("get sync status: %w", err)
	}

	var status model.SyncStatus
	if err := json.Unmarshal([]byte(value), &status); err != nil {
		return model.SyncStatus{}, fmt.Errorf("decode sync status: %w", err)
	}

	if status.Status == model.SyncRunning && !status.Running(time.Now(), s.ttl) {
		status.Status = model.SyncIdle
	}
	return status, nil
}

// SetRunning marks a full sync as in progress.
func (s *SyncStatusService) SetRunning(ctx context.Context) error {
	return s.set(ctx, model.SyncRunning)
}

// SetIdle marks the sync as finished. Called on success and on abort alike:
// the flag is a progress signal, not a success marker.
func (s *SyncStatusService) SetIdle(ctx context.Context) error {
	return s.set(ctx, model.SyncIdle)
}

func (s *SyncStatusService) set(ctx context.Context, status int) error {
	payload, err := json.Marshal(model.SyncStatus{
		Status:     status,
		TimeUpdate: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode sync status: %w", err)
	}

	_, err = s.db.Exec(ctx,
		`INSERT INTO platform_config (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		model.SyncStatusKey, string(payload),
	)
	if err != nil {
		return fmt.Errorf("set sync status: %w", err)
	}
	return nil
}
