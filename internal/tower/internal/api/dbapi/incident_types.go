package dbapi

import (
	"time"

	"github.com/hirewire/control-tower/pkg/api"
)

type IncidentSeverity string

const (
	IncidentSeverityLow      IncidentSeverity = "low"
	IncidentSeverityMedium   IncidentSeverity = "medium"
	IncidentSeverityHigh     IncidentSeverity = "high"
	IncidentSeverityCritical IncidentSeverity = "critical"
)

var AllIncidentSeverities = []string{
	string(IncidentSeverityLow),
	string(IncidentSeverityMedium),
	string(IncidentSeverityHigh),
	string(IncidentSeverityCritical),
}

type Incident struct {
	api.Meta

	ConnectorID  string `gorm:"index"`
	ConnectorKey string `gorm:"index"`
	WorkspaceID  string `gorm:"index"`

	Severity    IncidentSeverity
	Summary     string
	Description string

	ResolvedAt *time.Time
	ResolvedBy *string
}

type IncidentList []*Incident

// IsOpen reports whether the incident has not been resolved yet.
func (i *Incident) IsOpen() bool {
	return i.ResolvedAt == nil
}
