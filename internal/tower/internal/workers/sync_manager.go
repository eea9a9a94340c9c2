package workers

import (
	"context"
	"time"

	"github.com/hirewire/control-tower/internal/tower/constants"
	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/services"
	"github.com/hirewire/control-tower/pkg/api"
	"github.com/hirewire/control-tower/pkg/auth"
	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/services/signalbus"
	"github.com/hirewire/control-tower/pkg/workers"
)

const defaultSyncInterval = 5 * time.Minute

// SyncManager walks the connected connectors on an interval and records
// system-attributed scheduled sync runs. It only records intent and
// timestamps, the provider synchronization itself is external.
type SyncManager struct {
	workers.BaseWorker
	connectorsService services.ConnectorsService
	auditService      services.AuditService
	keyLock           *services.KeyLock
}

var _ workers.Worker = &SyncManager{}

func NewSyncManager(connectorsService services.ConnectorsService, auditService services.AuditService, bus signalbus.SignalBus, keyLock *services.KeyLock) *SyncManager {
	return &SyncManager{
		BaseWorker: workers.BaseWorker{
			ID:         api.NewID(),
			WorkerType: "sync",
			Reconciler: workers.Reconciler{
				SignalBus:       bus,
				ReconcilePeriod: defaultSyncInterval,
			},
		},
		connectorsService: connectorsService,
		auditService:      auditService,
		keyLock:           keyLock,
	}
}

func (m *SyncManager) Start() {
	m.StartWorker(m)
}

func (m *SyncManager) Stop() {
	m.StopWorker(m)
}

func (m *SyncManager) Reconcile() []error {
	ctx := context.Background()

	connectors, serr := m.connectorsService.ListConnected(ctx)
	if serr != nil {
		return []error{serr}
	}

	var errs []error
	for _, connector := range connectors {
		if err := m.syncConnector(ctx, connector); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// syncConnector serializes against operator commands through the shared
// connector lock. The listing snapshot is stale by the time the lock is held,
// so the connector is re-read and skipped when an operator toggled it away in
// the meantime.
func (m *SyncManager) syncConnector(ctx context.Context, listed *dbapi.Connector) error {
	unlock := m.keyLock.Lock(listed.WorkspaceID, listed.Key)
	defer unlock()

	connector, serr := m.connectorsService.Get(ctx, listed.WorkspaceID, listed.Key)
	if serr != nil {
		if serr.Code == errors.ErrorConnectorNotFound {
			return nil
		}
		return serr
	}
	if connector.Status != dbapi.ConnectorStatusConnected {
		return nil
	}

	if serr := m.connectorsService.MarkSynced(ctx, connector, time.Now().UTC()); serr != nil {
		// the run could not be recorded, flag the connector as degraded
		if _, ferr := m.connectorsService.SetSyncFailing(ctx, connector, true); ferr != nil {
			return ferr
		}
		return serr
	}

	if connector.SyncFailing {
		if _, serr := m.connectorsService.SetSyncFailing(ctx, connector, false); serr != nil {
			return serr
		}
	}

	// the mutation above already committed, the audit append retries on its
	// own and the run counts as failed until it lands
	entry := &dbapi.AuditLogEntry{
		WorkspaceID:  connector.WorkspaceID,
		ConnectorKey: connector.Key,
		Action:       constants.ActionTriggerSync.String(),
		ActorID:      auth.SystemActor.ID,
		ActorName:    auth.SystemActor.DisplayName,
		Details:      scheduledSyncDetails(),
	}
	if serr := m.auditService.Append(ctx, entry); serr != nil {
		return serr
	}
	return nil
}

func scheduledSyncDetails() api.JSON {
	details, err := api.MarshalStringMap(map[string]string{
		"trigger": constants.SyncTriggerScheduled.String(),
	})
	if err != nil {
		return api.JSON("{}")
	}
	return details
}
