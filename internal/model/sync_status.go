package model

import "time"

// SyncStatusKey is the platform_config key under which the domain sync
// progress flag is stored.
const SyncStatusKey = "status_sync_domains_cms"

// Sync status flag values as persisted in the JSON payload.
const (
	SyncIdle    = 0
	SyncRunning = 1
)

// SyncStatus is the JSON payload of the domain sync flag. External readers
// must see Status == SyncIdle before trusting the completeness of unlocked
// domain rows.
type SyncStatus struct {
	Status     int       `json:"status"`
	TimeUpdate time.Time `json:"time_update"`
}

// Running reports whether the flag marks a sync in progress. A running flag
// older than ttl is considered stale (a crashed run) and treated as idle.
func (s SyncStatus) Running(now time.Time, ttl time.Duration) bool {
	if s.Status != SyncRunning {
		return false
	}
	return now.Sub(s.TimeUpdate) < ttl
}
