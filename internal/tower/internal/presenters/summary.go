package presenters

import (
	"github.com/hirewire/control-tower/internal/tower/constants"
	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/api/public"
	"github.com/hirewire/control-tower/internal/tower/internal/services"
)

func PresentSummary(summary *dbapi.Summary) public.Summary {
	return public.Summary{
		Total:          summary.Total,
		Connected:      summary.Connected,
		ActionRequired: summary.ActionRequired,
		Byok:           summary.Byok,
		ByokConfigured: summary.ByokConfigured,
		OpenIncidents:  summary.OpenIncidents,
		HealthScore:    summary.HealthScore,
		Environments:   summary.Environments,
		LastSyncedAt:   summary.LastSyncedAt,
	}
}

// PresentDefaults lists the enum vocabularies clients need to render forms.
func PresentDefaults() public.Defaults {
	return public.Defaults{
		Categories: dbapi.AllConnectorCategories,
		Severities: dbapi.AllIncidentSeverities,
		Statuses:   dbapi.AllConnectorStatuses,
		Triggers:   constants.AllSyncTriggers,
	}
}

func PresentOverview(overview *services.Overview) public.Overview {
	return public.Overview{
		Connectors: PresentConnectorList(overview.Connectors),
		Summary:    PresentSummary(overview.Summary),
		AuditLog:   PresentAuditLog(overview.AuditLog),
		Defaults:   PresentDefaults(),
	}
}

// PresentCommandResult pairs the refreshed connector with the new summary.
func PresentCommandResult(connector *dbapi.Connector, summary *dbapi.Summary) public.CommandResult {
	return public.CommandResult{
		Connector: PresentConnector(connector),
		Summary:   PresentSummary(summary),
	}
}
