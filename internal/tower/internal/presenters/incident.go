package presenters

import (
	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/api/public"
)

func PresentIncident(incident *dbapi.Incident) public.Incident {
	resolvedBy := ""
	if incident.ResolvedBy != nil {
		resolvedBy = *incident.ResolvedBy
	}
	return public.Incident{
		Id:           incident.ID,
		ConnectorKey: incident.ConnectorKey,
		Severity:     string(incident.Severity),
		Summary:      incident.Summary,
		Description:  incident.Description,
		OpenedAt:     incident.CreatedAt,
		ResolvedAt:   incident.ResolvedAt,
		ResolvedBy:   resolvedBy,
	}
}
