package services

import (
	"context"

	"github.com/cenkalti/backoff/v4"
	"gorm.io/gorm"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/pkg/api"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
	coreServices "github.com/hirewire/control-tower/pkg/services"
)

// DefaultAuditLimit is the number of entries the dashboard shows by default.
const DefaultAuditLimit = 10

// appends racing a store outage after the domain mutation committed are
// retried a bounded number of times, the audit trail is the durable record
const maxAppendRetries = 4

type AuditService interface {
	Append(ctx context.Context, entry *dbapi.AuditLogEntry) *errors.ServiceError
	Recent(ctx context.Context, workspaceID string, limit int) (dbapi.AuditLogEntryList, *errors.ServiceError)
	List(ctx context.Context, workspaceID string, listArgs *coreServices.ListArguments) (dbapi.AuditLogEntryList, *api.PagingMeta, *errors.ServiceError)
}

var _ AuditService = &auditService{}

type auditService struct {
	connectionFactory *db.ConnectionFactory
}

func NewAuditService(connectionFactory *db.ConnectionFactory) *auditService {
	return &auditService{
		connectionFactory: connectionFactory,
	}
}

// Append writes one immutable audit entry. Inside a command transaction the
// entry commits or rolls back with the domain mutation it describes. Outside
// a transaction (the mutation already committed, e.g. scheduled runs) the
// append is retried with backoff before the command is reported failed.
func (s *auditService) Append(ctx context.Context, entry *dbapi.AuditLogEntry) *errors.ServiceError {
	if entry.ID == "" {
		entry.ID = api.NewID()
	}

	if tx, err := db.FromContext(ctx); err == nil {
		if err := tx.Create(entry).Error; err != nil {
			return errors.Persistence("Unable to append audit entry for action '%s': %s", entry.Action, err)
		}
		return nil
	}

	operation := func() error {
		return s.connectionFactory.New().Create(entry).Error
	}
	if err := backoff.Retry(operation, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxAppendRetries)); err != nil {
		return errors.Persistence("Unable to append audit entry for action '%s': %s", entry.Action, err)
	}
	return nil
}

// Recent returns the newest entries first, capped at limit (default 10).
func (s *auditService) Recent(ctx context.Context, workspaceID string, limit int) (dbapi.AuditLogEntryList, *errors.ServiceError) {
	if limit <= 0 {
		limit = DefaultAuditLimit
	}

	var dbConn *gorm.DB
	if tx, err := db.FromContext(ctx); err == nil {
		dbConn = tx
	} else {
		dbConn = s.connectionFactory.New()
	}

	var entries dbapi.AuditLogEntryList
	if err := dbConn.
		Where("workspace_id = ?", workspaceID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error; err != nil {
		return nil, errors.Persistence("Unable to list audit entries: %s", err)
	}
	return entries, nil
}

// List pages through the full trail, newest first.
func (s *auditService) List(ctx context.Context, workspaceID string, listArgs *coreServices.ListArguments) (dbapi.AuditLogEntryList, *api.PagingMeta, *errors.ServiceError) {
	if err := listArgs.Validate(); err != nil {
		return nil, nil, errors.Validation("Unable to list audit entries: %s", err)
	}

	var dbConn *gorm.DB
	if tx, err := db.FromContext(ctx); err == nil {
		dbConn = tx
	} else {
		dbConn = s.connectionFactory.New()
	}
	dbConn = dbConn.Model(&dbapi.AuditLogEntry{}).Where("workspace_id = ?", workspaceID)

	pagingMeta := &api.PagingMeta{
		Page: listArgs.Page,
		Size: listArgs.Size,
	}
	var total int64
	if err := dbConn.Count(&total).Error; err != nil {
		return nil, nil, errors.Persistence("Unable to count audit entries: %s", err)
	}
	pagingMeta.Total = int(total)

	var entries dbapi.AuditLogEntryList
	if err := dbConn.
		Order("created_at DESC").
		Offset((listArgs.Page - 1) * listArgs.Size).
		Limit(listArgs.Size).
		Find(&entries).Error; err != nil {
		return nil, nil, errors.Persistence("Unable to list audit entries: %s", err)
	}
	pagingMeta.Size = len(entries)
	return entries, pagingMeta, nil
}
