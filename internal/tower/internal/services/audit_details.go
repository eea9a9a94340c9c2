package services

import (
	"strconv"

	"github.com/hirewire/control-tower/internal/tower/constants"
	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/secrets"
	"github.com/hirewire/control-tower/pkg/api"
)

// Audit details are bounded key/value sets, one fixed vocabulary per action,
// never free-form maps.

func toggleDetails(from dbapi.ConnectorStatus, to dbapi.ConnectorStatus) api.JSON {
	return mustDetails(map[string]string{
		"from": string(from),
		"to":   string(to),
	})
}

func rotateDetails(fingerprint string) api.JSON {
	// only the short recognition prefix is ever recorded
	return mustDetails(map[string]string{
		"fingerprint_prefix": secrets.DisplayPrefix(fingerprint),
	})
}

func createIncidentDetails(incident *dbapi.Incident) api.JSON {
	return mustDetails(map[string]string{
		"incident_id": incident.ID,
		"severity":    string(incident.Severity),
		"summary":     incident.Summary,
	})
}

func resolveIncidentDetails(incident *dbapi.Incident) api.JSON {
	return mustDetails(map[string]string{
		"incident_id": incident.ID,
		"severity":    string(incident.Severity),
	})
}

func mappingsDetails(count int) api.JSON {
	return mustDetails(map[string]string{
		"mappings": strconv.Itoa(count),
	})
}

func assignmentsDetails(count int) api.JSON {
	return mustDetails(map[string]string{
		"assignments": strconv.Itoa(count),
	})
}

func syncDetails(trigger constants.SyncTrigger, notes string) api.JSON {
	details := map[string]string{
		"trigger": string(trigger),
	}
	if notes != "" {
		details["notes"] = notes
	}
	return mustDetails(details)
}

func mustDetails(details map[string]string) api.JSON {
	value, err := api.MarshalStringMap(details)
	if err != nil {
		// string maps always marshal
		return api.JSON("{}")
	}
	return value
}
