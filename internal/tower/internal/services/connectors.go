package services

import (
	"context"
	goerrors "errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/secrets"
	"github.com/hirewire/control-tower/internal/tower/internal/services/phase"
	"github.com/hirewire/control-tower/pkg/api"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/services"
)

type ConnectorsService interface {
	Create(ctx context.Context, resource *dbapi.Connector) *errors.ServiceError
	Get(ctx context.Context, workspaceID string, key string) (*dbapi.Connector, *errors.ServiceError)
	List(ctx context.Context, workspaceID string) (dbapi.ConnectorList, *errors.ServiceError)
	ListConnected(ctx context.Context) (dbapi.ConnectorList, *errors.ServiceError)
	Update(ctx context.Context, resource *dbapi.Connector) *errors.ServiceError
	Enable(ctx context.Context, resource *dbapi.Connector) (bool, *errors.ServiceError)
	Disable(ctx context.Context, resource *dbapi.Connector) (bool, *errors.ServiceError)
	RotateCredential(ctx context.Context, resource *dbapi.Connector, rawSecret string) (string, *errors.ServiceError)
	UpdateFieldMappings(ctx context.Context, resource *dbapi.Connector, mappings map[string]string) *errors.ServiceError
	UpdateRoleAssignments(ctx context.Context, resource *dbapi.Connector, assignments map[string]string) *errors.ServiceError
	RecordHealthChange(ctx context.Context, resource *dbapi.Connector, operation phase.ConnectorOperation) (bool, *errors.ServiceError)
	MarkSynced(ctx context.Context, resource *dbapi.Connector, at time.Time) *errors.ServiceError
	SetSyncFailing(ctx context.Context, resource *dbapi.Connector, failing bool) (bool, *errors.ServiceError)
}

var _ ConnectorsService = &connectorsService{}

type connectorsService struct {
	connectionFactory *db.ConnectionFactory
}

func NewConnectorsService(connectionFactory *db.ConnectionFactory) *connectorsService {
	return &connectorsService{
		connectionFactory: connectionFactory,
	}
}

// dbConn prefers the transaction stored in the context so command mutations
// and their audit entries share a single unit of work.
func (s *connectorsService) dbConn(ctx context.Context) *gorm.DB {
	if tx, err := db.FromContext(ctx); err == nil {
		return tx
	}
	return s.connectionFactory.New()
}

// Create creates a connector in the database, used when seeding a workspace
// from the catalog
func (s *connectorsService) Create(ctx context.Context, resource *dbapi.Connector) *errors.ServiceError {
	if resource.ID == "" {
		resource.ID = api.NewID()
	}
	if resource.Status == "" {
		resource.Status = dbapi.ConnectorStatusNotConnected
	}
	dbConn := s.dbConn(ctx)
	if err := dbConn.Omit(clause.Associations).Create(resource).Error; err != nil {
		return services.HandleCreateError("Connector", err)
	}
	return nil
}

// Get gets a connector by workspace and key, with its open incidents loaded
func (s *connectorsService) Get(ctx context.Context, workspaceID string, key string) (*dbapi.Connector, *errors.ServiceError) {
	if key == "" {
		return nil, errors.Validation("connector key is undefined")
	}

	dbConn := s.dbConn(ctx)
	var resource dbapi.Connector
	if err := dbConn.
		Preload("Incidents", "resolved_at IS NULL").
		Where("workspace_id = ? AND key = ?", workspaceID, key).
		First(&resource).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ConnectorNotFound("Connector with key='%s' not found", key)
		}
		return nil, errors.Persistence("Unable to find connector with key='%s': %s", key, err)
	}
	return &resource, nil
}

// List returns all of a workspace's connectors ordered by name
func (s *connectorsService) List(ctx context.Context, workspaceID string) (dbapi.ConnectorList, *errors.ServiceError) {
	dbConn := s.dbConn(ctx)
	var resources dbapi.ConnectorList
	if err := dbConn.
		Preload("Incidents", "resolved_at IS NULL").
		Where("workspace_id = ?", workspaceID).
		Order("name").
		Find(&resources).Error; err != nil {
		return nil, errors.Persistence("Unable to list connectors: %s", err)
	}
	return resources, nil
}

// ListConnected returns the connected connectors across all workspaces,
// used by the scheduled sync worker.
func (s *connectorsService) ListConnected(ctx context.Context) (dbapi.ConnectorList, *errors.ServiceError) {
	dbConn := s.dbConn(ctx)
	var resources dbapi.ConnectorList
	if err := dbConn.
		Where("status = ?", dbapi.ConnectorStatusConnected).
		Order("workspace_id, name").
		Find(&resources).Error; err != nil {
		return nil, errors.Persistence("Unable to list connected connectors: %s", err)
	}
	return resources, nil
}

func (s *connectorsService) Update(ctx context.Context, resource *dbapi.Connector) *errors.ServiceError {
	dbConn := s.dbConn(ctx)
	if err := dbConn.Omit(clause.Associations).Save(resource).Error; err != nil {
		return services.HandleUpdateError("Connector", err)
	}
	return nil
}

// Enable transitions the connector toward connected. A connector requiring an
// API key cannot be enabled without a stored fingerprint.
func (s *connectorsService) Enable(ctx context.Context, resource *dbapi.Connector) (bool, *errors.ServiceError) {
	return phase.PerformConnectorOperation(resource, phase.EnableConnector,
		func(connector *dbapi.Connector) *errors.ServiceError {
			return s.Update(ctx, connector)
		})
}

// Disable always wins over health states and purges the stored fingerprint,
// dormant connectors hold no credential material.
func (s *connectorsService) Disable(ctx context.Context, resource *dbapi.Connector) (bool, *errors.ServiceError) {
	changed, err := phase.NewConnectorFSM(resource).Perform(phase.DisableConnector)
	if err != nil {
		return false, err
	}
	resource.CredentialFingerprint = nil
	resource.SyncFailing = false
	if err := s.Update(ctx, resource); err != nil {
		return false, err
	}
	return changed, nil
}

// RotateCredential replaces any prior fingerprint. It does not change the
// connector status, a disconnected connector stays disconnected until enabled.
func (s *connectorsService) RotateCredential(ctx context.Context, resource *dbapi.Connector, rawSecret string) (string, *errors.ServiceError) {
	fingerprint, err := secrets.Fingerprint(rawSecret)
	if err != nil {
		return "", err
	}
	resource.CredentialFingerprint = &fingerprint
	if err := s.Update(ctx, resource); err != nil {
		return "", err
	}
	return fingerprint, nil
}

func (s *connectorsService) UpdateFieldMappings(ctx context.Context, resource *dbapi.Connector, mappings map[string]string) *errors.ServiceError {
	value, err := api.MarshalStringMap(mappings)
	if err != nil {
		return errors.BadRequest("invalid field mappings: %s", err)
	}
	resource.FieldMappings = value
	return s.Update(ctx, resource)
}

func (s *connectorsService) UpdateRoleAssignments(ctx context.Context, resource *dbapi.Connector, assignments map[string]string) *errors.ServiceError {
	value, err := api.MarshalStringMap(assignments)
	if err != nil {
		return errors.BadRequest("invalid role assignments: %s", err)
	}
	resource.RoleAssignments = value
	return s.Update(ctx, resource)
}

// RecordHealthChange re-evaluates the connector status from its health inputs
// (open incidents, sync failures) through the given operation.
func (s *connectorsService) RecordHealthChange(ctx context.Context, resource *dbapi.Connector, operation phase.ConnectorOperation) (bool, *errors.ServiceError) {
	return phase.PerformConnectorOperation(resource, operation,
		func(connector *dbapi.Connector) *errors.ServiceError {
			return s.Update(ctx, connector)
		})
}

// MarkSynced stamps the sync timestamp with a targeted update guarded on the
// connected status, so a stale snapshot can never write other columns back
// over a concurrent commit.
func (s *connectorsService) MarkSynced(ctx context.Context, resource *dbapi.Connector, at time.Time) *errors.ServiceError {
	dbConn := s.dbConn(ctx)
	result := dbConn.Model(&dbapi.Connector{}).
		Where("id = ? AND status = ?", resource.ID, dbapi.ConnectorStatusConnected).
		Update("last_synced_at", at)
	if result.Error != nil {
		return services.HandleUpdateError("Connector", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ConnectorNotReady("Connector '%s' is no longer connected", resource.Key)
	}
	resource.LastSyncedAt = &at
	return nil
}

// SetSyncFailing records an externally reported sync failure (or its
// recovery) and re-evaluates the status.
func (s *connectorsService) SetSyncFailing(ctx context.Context, resource *dbapi.Connector, failing bool) (bool, *errors.ServiceError) {
	resource.SyncFailing = failing
	operation := phase.ClearSyncFailure
	if failing {
		operation = phase.ReportSyncFailure
	}
	changed, err := phase.NewConnectorFSM(resource).Perform(operation)
	if err != nil {
		return false, err
	}
	if err := s.Update(ctx, resource); err != nil {
		return false, err
	}
	return changed, nil
}
