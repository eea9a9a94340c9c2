package services

import (
	"context"
	goerrors "errors"
	"time"

	"gorm.io/gorm"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/pkg/api"
	"github.com/hirewire/control-tower/pkg/auth"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
	pkgservices "github.com/hirewire/control-tower/pkg/services"
)

type IncidentsService interface {
	Open(ctx context.Context, connector *dbapi.Connector, severity dbapi.IncidentSeverity, summary string, description string) (*dbapi.Incident, *errors.ServiceError)
	Resolve(ctx context.Context, connector *dbapi.Connector, incidentID string, actor auth.Actor) (*dbapi.Incident, *errors.ServiceError)
	CountOpen(ctx context.Context, workspaceID string) (int, *errors.ServiceError)
}

var _ IncidentsService = &incidentsService{}

type incidentsService struct {
	connectionFactory *db.ConnectionFactory
}

func NewIncidentsService(connectionFactory *db.ConnectionFactory) *incidentsService {
	return &incidentsService{
		connectionFactory: connectionFactory,
	}
}

func (s *incidentsService) dbConn(ctx context.Context) *gorm.DB {
	if tx, err := db.FromContext(ctx); err == nil {
		return tx
	}
	return s.connectionFactory.New()
}

// Open appends a new open incident for the connector. The caller re-evaluates
// the connector's health in the same unit of work.
func (s *incidentsService) Open(ctx context.Context, connector *dbapi.Connector, severity dbapi.IncidentSeverity, summary string, description string) (*dbapi.Incident, *errors.ServiceError) {
	incident := &dbapi.Incident{
		Meta:         api.Meta{ID: api.NewID()},
		ConnectorID:  connector.ID,
		ConnectorKey: connector.Key,
		WorkspaceID:  connector.WorkspaceID,
		Severity:     severity,
		Summary:      summary,
		Description:  description,
	}
	if err := s.dbConn(ctx).Create(incident).Error; err != nil {
		return nil, pkgservices.HandleCreateError("Incident", err)
	}
	return incident, nil
}

// Resolve marks the incident resolved. Resolving a missing or already
// resolved incident is rejected, not silently accepted.
func (s *incidentsService) Resolve(ctx context.Context, connector *dbapi.Connector, incidentID string, actor auth.Actor) (*dbapi.Incident, *errors.ServiceError) {
	if incidentID == "" {
		return nil, errors.Validation("incident id is undefined")
	}

	dbConn := s.dbConn(ctx)
	var incident dbapi.Incident
	if err := dbConn.
		Where("id = ? AND connector_id = ?", incidentID, connector.ID).
		First(&incident).Error; err != nil {
		if goerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.IncidentNotFound("Incident with id='%s' not found", incidentID)
		}
		return nil, errors.Persistence("Unable to find incident with id='%s': %s", incidentID, err)
	}
	if !incident.IsOpen() {
		return nil, errors.IncidentNotFound("Incident with id='%s' is already resolved", incidentID)
	}

	now := time.Now().UTC()
	incident.ResolvedAt = &now
	incident.ResolvedBy = &actor.ID
	if err := dbConn.Save(&incident).Error; err != nil {
		return nil, pkgservices.HandleUpdateError("Incident", err)
	}
	return &incident, nil
}

// CountOpen sums the open incidents across all of a workspace's connectors.
func (s *incidentsService) CountOpen(ctx context.Context, workspaceID string) (int, *errors.ServiceError) {
	var count int64
	if err := s.dbConn(ctx).
		Model(&dbapi.Incident{}).
		Where("workspace_id = ? AND resolved_at IS NULL", workspaceID).
		Count(&count).Error; err != nil {
		return 0, errors.Persistence("Unable to count open incidents: %s", err)
	}
	return int(count), nil
}
