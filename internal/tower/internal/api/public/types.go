package public

import (
	"time"
)

// Connector is the wire representation of a connector.
type Connector struct {
	Id                    string            `json:"id"`
	Kind                  string            `json:"kind"`
	Href                  string            `json:"href"`
	Key                   string            `json:"key"`
	Name                  string            `json:"name"`
	Category              string            `json:"category"`
	Description           string            `json:"description,omitempty"`
	Owner                 string            `json:"owner,omitempty"`
	Environment           string            `json:"environment,omitempty"`
	Status                string            `json:"status"`
	RequiresApiKey        bool              `json:"requires_api_key"`
	CredentialFingerprint string            `json:"credential_fingerprint,omitempty"`
	Scopes                []string          `json:"scopes,omitempty"`
	Regions               []string          `json:"regions,omitempty"`
	Compliance            []string          `json:"compliance,omitempty"`
	FieldMappings         map[string]string `json:"field_mappings,omitempty"`
	RoleAssignments       map[string]string `json:"role_assignments,omitempty"`
	LastSyncedAt          *time.Time        `json:"last_synced_at,omitempty"`
	SyncFailing           bool              `json:"sync_failing"`
	Incidents             []Incident        `json:"incidents"`
}

type AuditLogEntryList struct {
	Kind  string          `json:"kind"`
	Page  int             `json:"page"`
	Size  int             `json:"size"`
	Total int             `json:"total"`
	Items []AuditLogEntry `json:"items"`
}

type Incident struct {
	Id           string     `json:"id"`
	ConnectorKey string     `json:"connector_key"`
	Severity     string     `json:"severity"`
	Summary      string     `json:"summary"`
	Description  string     `json:"description,omitempty"`
	OpenedAt     time.Time  `json:"opened_at"`
	ResolvedAt   *time.Time `json:"resolved_at,omitempty"`
	ResolvedBy   string     `json:"resolved_by,omitempty"`
}

type AuditLogEntry struct {
	Id           string            `json:"id"`
	ConnectorKey string            `json:"connector_key"`
	Action       string            `json:"action"`
	ActorId      string            `json:"actor_id"`
	ActorName    string            `json:"actor_name"`
	Details      map[string]string `json:"details,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

type Summary struct {
	Total          int            `json:"total"`
	Connected      int            `json:"connected"`
	ActionRequired int            `json:"action_required"`
	Byok           int            `json:"byok"`
	ByokConfigured int            `json:"byok_configured"`
	OpenIncidents  int            `json:"open_incidents"`
	HealthScore    int            `json:"health_score"`
	Environments   map[string]int `json:"environments"`
	LastSyncedAt   *time.Time     `json:"last_synced_at,omitempty"`
}

// Defaults lists the enum vocabularies clients need to render forms.
type Defaults struct {
	Categories []string `json:"categories"`
	Severities []string `json:"severities"`
	Statuses   []string `json:"statuses"`
	Triggers   []string `json:"triggers"`
}

type Overview struct {
	Connectors []Connector     `json:"connectors"`
	Summary    Summary         `json:"summary"`
	AuditLog   []AuditLogEntry `json:"audit_log"`
	Defaults   Defaults        `json:"defaults"`
}

// CommandResult is returned by every mutating command: the refreshed
// connector plus a freshly computed summary.
type CommandResult struct {
	Connector Connector `json:"connector"`
	Summary   Summary   `json:"summary"`
}

type ToggleConnectionRequest struct {
	NextStatus string `json:"next_status"`
}

type RotateCredentialRequest struct {
	Secret string `json:"secret"`
}

type RotateCredentialResponse struct {
	Fingerprint   string    `json:"fingerprint"`
	DisplayPrefix string    `json:"display_prefix"`
	Connector     Connector `json:"connector"`
	Summary       Summary   `json:"summary"`
}

type CreateIncidentRequest struct {
	Severity    string `json:"severity"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
}

type UpdateFieldMappingsRequest struct {
	Mappings map[string]string `json:"mappings"`
}

type UpdateRoleAssignmentsRequest struct {
	Assignments map[string]string `json:"assignments"`
}

type TriggerSyncRequest struct {
	Trigger string `json:"trigger"`
	Notes   string `json:"notes,omitempty"`
}
