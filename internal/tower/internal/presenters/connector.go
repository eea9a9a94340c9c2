package presenters

import (
	"fmt"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/api/public"
)

const basePath = "/api/control_tower/v1"

// ConnectorHref is the canonical resource path of a connector.
func ConnectorHref(workspaceID string, key string) string {
	return fmt.Sprintf("%s/workspaces/%s/connectors/%s", basePath, workspaceID, key)
}

func PresentConnector(connector *dbapi.Connector) public.Connector {
	fingerprint := ""
	if connector.CredentialFingerprint != nil {
		fingerprint = *connector.CredentialFingerprint
	}

	incidents := make([]public.Incident, 0, len(connector.Incidents))
	for i := range connector.Incidents {
		incidents = append(incidents, PresentIncident(&connector.Incidents[i]))
	}

	return public.Connector{
		Id:                    connector.ID,
		Kind:                  "Connector",
		Href:                  ConnectorHref(connector.WorkspaceID, connector.Key),
		Key:                   connector.Key,
		Name:                  connector.Name,
		Category:              string(connector.Category),
		Description:           connector.Description,
		Owner:                 connector.Owner,
		Environment:           connector.Environment,
		Status:                string(connector.Status),
		RequiresApiKey:        connector.RequiresAPIKey,
		CredentialFingerprint: fingerprint,
		Scopes:                connector.Scopes,
		Regions:               connector.Regions,
		Compliance:            connector.Compliance,
		FieldMappings:         presentStringMap(connector.FieldMappings),
		RoleAssignments:       presentStringMap(connector.RoleAssignments),
		LastSyncedAt:          connector.LastSyncedAt,
		SyncFailing:           connector.SyncFailing,
		Incidents:             incidents,
	}
}

func PresentConnectorList(connectors dbapi.ConnectorList) []public.Connector {
	items := make([]public.Connector, 0, len(connectors))
	for _, connector := range connectors {
		items = append(items, PresentConnector(connector))
	}
	return items
}
