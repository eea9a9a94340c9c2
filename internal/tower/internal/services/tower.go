package services

import (
	"context"
	"math"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/hirewire/control-tower/internal/tower/constants"
	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/config"
	"github.com/hirewire/control-tower/internal/tower/internal/services/phase"
	"github.com/hirewire/control-tower/pkg/api"
	"github.com/hirewire/control-tower/pkg/auth"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/logger"
	"github.com/hirewire/control-tower/pkg/metrics"
)

const summaryCacheTTL = 5 * time.Second

// Overview is everything the dashboard needs in one read.
type Overview struct {
	Connectors dbapi.ConnectorList
	Summary    *dbapi.Summary
	AuditLog   dbapi.AuditLogEntryList
}

// TowerService is the single entry point for control tower commands and
// queries. Every command resolves the actor first, serializes per connector
// key, mutates and audits in one unit of work and returns the refreshed
// connector with a freshly computed summary.
type TowerService interface {
	Overview(ctx context.Context, workspaceID string) (*Overview, *errors.ServiceError)
	Summary(ctx context.Context, workspaceID string) (*dbapi.Summary, *errors.ServiceError)
	SeedWorkspace(ctx context.Context, workspaceID string) *errors.ServiceError

	ToggleConnection(ctx context.Context, workspaceID string, key string, nextStatus dbapi.ConnectorStatus) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError)
	RotateCredential(ctx context.Context, workspaceID string, key string, rawSecret string) (string, *dbapi.Connector, *dbapi.Summary, *errors.ServiceError)
	CreateIncident(ctx context.Context, workspaceID string, key string, severity dbapi.IncidentSeverity, summary string, description string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError)
	ResolveIncident(ctx context.Context, workspaceID string, key string, incidentID string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError)
	UpdateFieldMappings(ctx context.Context, workspaceID string, key string, mappings map[string]string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError)
	UpdateRoleAssignments(ctx context.Context, workspaceID string, key string, assignments map[string]string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError)
	TriggerSync(ctx context.Context, workspaceID string, key string, trigger constants.SyncTrigger, notes string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError)
}

var _ TowerService = &towerService{}

type towerService struct {
	connectionFactory *db.ConnectionFactory
	connectors        ConnectorsService
	incidents         IncidentsService
	audit             AuditService
	sync              SyncOrchestrator
	catalog           *config.ConnectorCatalogConfig

	summaries *cache.Cache
	locks     *KeyLock
}

func NewTowerService(connectionFactory *db.ConnectionFactory, connectors ConnectorsService, incidents IncidentsService,
	audit AuditService, sync SyncOrchestrator, catalog *config.ConnectorCatalogConfig, locks *KeyLock) *towerService {
	return &towerService{
		connectionFactory: connectionFactory,
		connectors:        connectors,
		incidents:         incidents,
		audit:             audit,
		sync:              sync,
		catalog:           catalog,
		summaries:         cache.New(summaryCacheTTL, time.Minute),
		locks:             locks,
	}
}

func summaryKey(workspaceID string) string {
	return "summary:" + workspaceID
}

// inTransaction runs f inside the request transaction when one is present,
// otherwise opens and resolves its own.
func (s *towerService) inTransaction(ctx context.Context, f func(ctx context.Context) *errors.ServiceError) *errors.ServiceError {
	if _, err := db.FromContext(ctx); err == nil {
		serr := f(ctx)
		if serr != nil {
			db.MarkForRollback(ctx, serr)
		}
		return serr
	}

	txCtx, err := s.connectionFactory.NewContext(ctx)
	if err != nil {
		return errors.Persistence("Unable to open transaction: %s", err)
	}
	defer db.Resolve(txCtx)

	serr := f(txCtx)
	if serr != nil {
		db.MarkForRollback(txCtx, serr)
	}
	return serr
}

type commandFn func(ctx context.Context, connector *dbapi.Connector, actor auth.Actor) (api.JSON, *errors.ServiceError)

// runCommand is the shared envelope for every mutating command.
func (s *towerService) runCommand(ctx context.Context, workspaceID string, key string, action constants.AuditedAction, fn commandFn) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError) {
	actor, serr := auth.ResolveActor(ctx)
	if serr != nil {
		return nil, nil, serr
	}

	metrics.IncreaseOperationTotalCount(action.String())

	unlock := s.locks.Lock(workspaceID, key)
	defer unlock()

	var connector *dbapi.Connector
	var summary *dbapi.Summary
	serr = s.inTransaction(ctx, func(ctx context.Context) *errors.ServiceError {
		var err *errors.ServiceError
		connector, err = s.connectors.Get(ctx, workspaceID, key)
		if err != nil {
			return err
		}

		details, err := fn(ctx, connector, actor)
		if err != nil {
			return err
		}

		if err := s.audit.Append(ctx, &dbapi.AuditLogEntry{
			WorkspaceID:  workspaceID,
			ConnectorKey: key,
			Action:       action.String(),
			ActorID:      actor.ID,
			ActorName:    actor.DisplayName,
			Details:      details,
		}); err != nil {
			return err
		}

		summary, err = s.freshSummary(ctx, workspaceID)
		if err != nil {
			return err
		}

		invalidate := func() { s.summaries.Delete(summaryKey(workspaceID)) }
		if err := db.AddPostCommitAction(ctx, invalidate); err != nil {
			invalidate()
		}
		return nil
	})
	if serr != nil {
		return nil, nil, serr
	}

	metrics.IncreaseOperationSuccessCount(action.String())
	metrics.UpdateOpenIncidentsMetric(workspaceID, summary.OpenIncidents)
	metrics.UpdateHealthScoreMetric(workspaceID, summary.HealthScore)
	return connector, summary, nil
}

// Overview returns connectors, summary and the recent audit trail. A
// workspace seen for the first time is seeded from the catalog.
func (s *towerService) Overview(ctx context.Context, workspaceID string) (*Overview, *errors.ServiceError) {
	connectors, err := s.connectors.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if len(connectors) == 0 && len(s.catalog.Entries) > 0 {
		// two first reads can race the seed, the loser tolerates the
		// unique violation and just rereads
		if err := s.SeedWorkspace(ctx, workspaceID); err != nil && err.Code != errors.ErrorConflict {
			return nil, err
		}
		if connectors, err = s.connectors.List(ctx, workspaceID); err != nil {
			return nil, err
		}
	}

	summary := s.computeSummary(connectors)
	s.summaries.SetDefault(summaryKey(workspaceID), summary)

	auditLog, err := s.audit.Recent(ctx, workspaceID, DefaultAuditLimit)
	if err != nil {
		return nil, err
	}

	return &Overview{
		Connectors: connectors,
		Summary:    summary,
		AuditLog:   auditLog,
	}, nil
}

// Summary is recomputed on every read, memoized for a few seconds.
func (s *towerService) Summary(ctx context.Context, workspaceID string) (*dbapi.Summary, *errors.ServiceError) {
	if cached, ok := s.summaries.Get(summaryKey(workspaceID)); ok {
		return cached.(*dbapi.Summary), nil
	}
	summary, err := s.freshSummary(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	s.summaries.SetDefault(summaryKey(workspaceID), summary)
	return summary, nil
}

func (s *towerService) freshSummary(ctx context.Context, workspaceID string) (*dbapi.Summary, *errors.ServiceError) {
	connectors, err := s.connectors.List(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	return s.computeSummary(connectors), nil
}

func (s *towerService) computeSummary(connectors dbapi.ConnectorList) *dbapi.Summary {
	summary := &dbapi.Summary{
		Environments: map[string]int{},
	}
	for _, connector := range connectors {
		summary.Total++
		switch connector.Status {
		case dbapi.ConnectorStatusConnected:
			summary.Connected++
		case dbapi.ConnectorStatusActionRequired, dbapi.ConnectorStatusDegraded:
			summary.ActionRequired++
		}
		if connector.RequiresAPIKey {
			summary.Byok++
			if connector.CredentialFingerprint != nil {
				summary.ByokConfigured++
			}
		}
		summary.OpenIncidents += connector.OpenIncidentCount()
		if connector.Environment != "" {
			summary.Environments[connector.Environment]++
		}
		if connector.LastSyncedAt != nil {
			if summary.LastSyncedAt == nil || connector.LastSyncedAt.After(*summary.LastSyncedAt) {
				summary.LastSyncedAt = connector.LastSyncedAt
			}
		}
	}

	// an empty catalog is vacuously healthy
	summary.HealthScore = 100
	if summary.Total > 0 {
		summary.HealthScore = int(math.Round(100 * float64(summary.Connected) / float64(summary.Total)))
	}
	return summary
}

// SeedWorkspace creates the workspace's connector rows from the catalog.
// Existing rows are left untouched.
func (s *towerService) SeedWorkspace(ctx context.Context, workspaceID string) *errors.ServiceError {
	if workspaceID == "" {
		return errors.Validation("workspace id is undefined")
	}

	seeded := 0
	serr := s.inTransaction(ctx, func(ctx context.Context) *errors.ServiceError {
		for i := range s.catalog.Entries {
			entry := &s.catalog.Entries[i]
			if _, err := s.connectors.Get(ctx, workspaceID, entry.Key); err == nil {
				continue
			} else if err.Code != errors.ErrorConnectorNotFound {
				return err
			}

			connector := &dbapi.Connector{
				Meta:           api.Meta{ID: api.NewID()},
				Key:            entry.Key,
				WorkspaceID:    workspaceID,
				Name:           entry.Name,
				Category:       dbapi.ConnectorCategory(entry.Category),
				Description:    entry.Description,
				Owner:          entry.Owner,
				Environment:    entry.Environment,
				Status:         dbapi.ConnectorStatusNotConnected,
				RequiresAPIKey: entry.RequiresApiKey,
				Scopes:         entry.Scopes,
				Regions:        entry.Regions,
				Compliance:     entry.Compliance,
			}
			if err := s.connectors.Create(ctx, connector); err != nil {
				return err
			}
			seeded++
		}
		return nil
	})
	if serr != nil {
		return serr
	}

	if seeded > 0 {
		logger.NewUHCLogger(ctx).Infof("seeded workspace '%s' with %d connectors", workspaceID, seeded)
	}
	return nil
}

// ToggleConnection flips the connector between connected and not_connected.
// Disabling purges the stored fingerprint.
func (s *towerService) ToggleConnection(ctx context.Context, workspaceID string, key string, nextStatus dbapi.ConnectorStatus) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError) {
	if nextStatus != dbapi.ConnectorStatusConnected && nextStatus != dbapi.ConnectorStatusNotConnected {
		return nil, nil, errors.BadRequest("next_status must be one of: %s, %s",
			dbapi.ConnectorStatusConnected, dbapi.ConnectorStatusNotConnected)
	}

	return s.runCommand(ctx, workspaceID, key, constants.ActionToggleConnection,
		func(ctx context.Context, connector *dbapi.Connector, _ auth.Actor) (api.JSON, *errors.ServiceError) {
			from := connector.Status
			var err *errors.ServiceError
			if nextStatus == dbapi.ConnectorStatusConnected {
				_, err = s.connectors.Enable(ctx, connector)
			} else {
				_, err = s.connectors.Disable(ctx, connector)
			}
			if err != nil {
				return nil, err
			}
			return toggleDetails(from, connector.Status), nil
		})
}

// RotateCredential stores a fresh fingerprint for the raw secret. The raw
// value never leaves this call.
func (s *towerService) RotateCredential(ctx context.Context, workspaceID string, key string, rawSecret string) (string, *dbapi.Connector, *dbapi.Summary, *errors.ServiceError) {
	var fingerprint string
	connector, summary, serr := s.runCommand(ctx, workspaceID, key, constants.ActionRotateCredential,
		func(ctx context.Context, connector *dbapi.Connector, _ auth.Actor) (api.JSON, *errors.ServiceError) {
			var err *errors.ServiceError
			fingerprint, err = s.connectors.RotateCredential(ctx, connector, rawSecret)
			if err != nil {
				return nil, err
			}
			return rotateDetails(fingerprint), nil
		})
	if serr != nil {
		return "", nil, nil, serr
	}
	return fingerprint, connector, summary, nil
}

func (s *towerService) CreateIncident(ctx context.Context, workspaceID string, key string, severity dbapi.IncidentSeverity, summary string, description string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError) {
	return s.runCommand(ctx, workspaceID, key, constants.ActionCreateIncident,
		func(ctx context.Context, connector *dbapi.Connector, _ auth.Actor) (api.JSON, *errors.ServiceError) {
			incident, err := s.incidents.Open(ctx, connector, severity, summary, description)
			if err != nil {
				return nil, err
			}
			connector.Incidents = append(connector.Incidents, *incident)
			if _, err := s.connectors.RecordHealthChange(ctx, connector, phase.ReportIncident); err != nil {
				return nil, err
			}
			return createIncidentDetails(incident), nil
		})
}

// ResolveIncident is all-or-nothing: the incident and the connector's health
// re-evaluation commit together or not at all.
func (s *towerService) ResolveIncident(ctx context.Context, workspaceID string, key string, incidentID string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError) {
	return s.runCommand(ctx, workspaceID, key, constants.ActionResolveIncident,
		func(ctx context.Context, connector *dbapi.Connector, actor auth.Actor) (api.JSON, *errors.ServiceError) {
			incident, err := s.incidents.Resolve(ctx, connector, incidentID, actor)
			if err != nil {
				return nil, err
			}

			open := connector.Incidents[:0]
			for i := range connector.Incidents {
				if connector.Incidents[i].ID != incident.ID {
					open = append(open, connector.Incidents[i])
				}
			}
			connector.Incidents = open

			if _, err := s.connectors.RecordHealthChange(ctx, connector, phase.ResolveIncidents); err != nil {
				return nil, err
			}
			return resolveIncidentDetails(incident), nil
		})
}

func (s *towerService) UpdateFieldMappings(ctx context.Context, workspaceID string, key string, mappings map[string]string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError) {
	return s.runCommand(ctx, workspaceID, key, constants.ActionUpdateFieldMappings,
		func(ctx context.Context, connector *dbapi.Connector, _ auth.Actor) (api.JSON, *errors.ServiceError) {
			if err := s.connectors.UpdateFieldMappings(ctx, connector, mappings); err != nil {
				return nil, err
			}
			return mappingsDetails(len(mappings)), nil
		})
}

func (s *towerService) UpdateRoleAssignments(ctx context.Context, workspaceID string, key string, assignments map[string]string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError) {
	return s.runCommand(ctx, workspaceID, key, constants.ActionUpdateRoleAssignments,
		func(ctx context.Context, connector *dbapi.Connector, _ auth.Actor) (api.JSON, *errors.ServiceError) {
			if err := s.connectors.UpdateRoleAssignments(ctx, connector, assignments); err != nil {
				return nil, err
			}
			return assignmentsDetails(len(assignments)), nil
		})
}

// TriggerSync records the intent and timestamp of a sync run on a connected
// connector.
func (s *towerService) TriggerSync(ctx context.Context, workspaceID string, key string, trigger constants.SyncTrigger, notes string) (*dbapi.Connector, *dbapi.Summary, *errors.ServiceError) {
	return s.runCommand(ctx, workspaceID, key, constants.ActionTriggerSync,
		func(ctx context.Context, connector *dbapi.Connector, _ auth.Actor) (api.JSON, *errors.ServiceError) {
			if err := s.sync.TriggerSync(ctx, connector); err != nil {
				return nil, err
			}
			return syncDetails(trigger, notes), nil
		})
}
