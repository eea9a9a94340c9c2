package dbapi

import (
	"time"

	"github.com/lib/pq"

	"github.com/hirewire/control-tower/pkg/api"
)

type ConnectorStatus string

const (
	ConnectorStatusNotConnected   ConnectorStatus = "not_connected"
	ConnectorStatusConnected      ConnectorStatus = "connected"
	ConnectorStatusActionRequired ConnectorStatus = "action_required"
	ConnectorStatusDegraded       ConnectorStatus = "degraded"
)

var AllConnectorStatuses = []string{
	string(ConnectorStatusNotConnected),
	string(ConnectorStatusConnected),
	string(ConnectorStatusActionRequired),
	string(ConnectorStatusDegraded),
}

type ConnectorCategory string

const (
	ConnectorCategoryCRM            ConnectorCategory = "crm"
	ConnectorCategoryWorkManagement ConnectorCategory = "work_management"
	ConnectorCategoryCommunication  ConnectorCategory = "communication"
	ConnectorCategoryContent        ConnectorCategory = "content"
	ConnectorCategoryAI             ConnectorCategory = "ai"
	ConnectorCategoryOther          ConnectorCategory = "other"
)

var AllConnectorCategories = []string{
	string(ConnectorCategoryCRM),
	string(ConnectorCategoryWorkManagement),
	string(ConnectorCategoryCommunication),
	string(ConnectorCategoryContent),
	string(ConnectorCategoryAI),
	string(ConnectorCategoryOther),
}

type Connector struct {
	api.Meta

	Key         string `gorm:"index:idx_connectors_workspace_id_key,unique"`
	WorkspaceID string `gorm:"index:idx_connectors_workspace_id_key,unique"`
	Name        string
	Category    ConnectorCategory
	Description string
	Owner       string
	Environment string

	Status ConnectorStatus `gorm:"index"`

	RequiresAPIKey        bool
	CredentialFingerprint *string

	Scopes     pq.StringArray `gorm:"type:text[]"`
	Regions    pq.StringArray `gorm:"type:text[]"`
	Compliance pq.StringArray `gorm:"type:text[]"`

	FieldMappings   api.JSON `gorm:"type:jsonb"`
	RoleAssignments api.JSON `gorm:"type:jsonb"`

	LastSyncedAt *time.Time
	SyncFailing  bool

	// open incidents, preloaded with a resolved_at IS NULL condition
	Incidents []Incident `gorm:"foreignKey:ConnectorID"`
}

type ConnectorList []*Connector

// HasOpenIncidents reports whether any of the loaded incidents is unresolved.
func (c *Connector) HasOpenIncidents() bool {
	for i := range c.Incidents {
		if c.Incidents[i].IsOpen() {
			return true
		}
	}
	return false
}

// OpenIncidentCount counts the loaded incidents that are unresolved.
func (c *Connector) OpenIncidentCount() int {
	n := 0
	for i := range c.Incidents {
		if c.Incidents[i].IsOpen() {
			n++
		}
	}
	return n
}
