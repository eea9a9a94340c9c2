package dbapi

import (
	"github.com/hirewire/control-tower/pkg/api"
)

// AuditLogEntry is an append-only record of a single control action. No
// service exposes an update or delete path for these rows.
type AuditLogEntry struct {
	api.Meta

	WorkspaceID  string `gorm:"index"`
	ConnectorKey string `gorm:"index"`
	Action       string `gorm:"index"`

	ActorID   string
	ActorName string

	Details api.JSON `gorm:"type:jsonb"`
}

type AuditLogEntryList []*AuditLogEntry
