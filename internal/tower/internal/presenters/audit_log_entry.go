package presenters

import (
	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/api/public"
	"github.com/hirewire/control-tower/pkg/api"
)

func PresentAuditLogEntry(entry *dbapi.AuditLogEntry) public.AuditLogEntry {
	return public.AuditLogEntry{
		Id:           entry.ID,
		ConnectorKey: entry.ConnectorKey,
		Action:       entry.Action,
		ActorId:      entry.ActorID,
		ActorName:    entry.ActorName,
		Details:      presentStringMap(entry.Details),
		CreatedAt:    entry.CreatedAt,
	}
}

func PresentAuditLog(entries dbapi.AuditLogEntryList) []public.AuditLogEntry {
	items := make([]public.AuditLogEntry, 0, len(entries))
	for _, entry := range entries {
		items = append(items, PresentAuditLogEntry(entry))
	}
	return items
}

func presentStringMap(value api.JSON) map[string]string {
	if len(value) == 0 {
		return nil
	}
	m, err := value.StringMap()
	if err != nil {
		return nil
	}
	return m
}
