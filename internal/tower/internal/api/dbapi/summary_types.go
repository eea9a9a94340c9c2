package dbapi

import (
	"time"
)

// Summary is the aggregate dashboard view over a workspace's connectors. It
// is derived on every read and never persisted.
type Summary struct {
	Total          int
	Connected      int
	ActionRequired int
	Byok           int
	ByokConfigured int
	OpenIncidents  int
	HealthScore    int
	Environments   map[string]int
	LastSyncedAt   *time.Time
}
