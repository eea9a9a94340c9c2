package services

import (
	"context"
	"time"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/services/signalbus"
)

// SyncSignal wakes the scheduled sync worker.
const SyncSignal = "reconcile:sync"

// SyncOrchestrator records the intent and timestamp of a sync run. The actual
// provider synchronization is an external collaborator responsibility.
type SyncOrchestrator interface {
	TriggerSync(ctx context.Context, connector *dbapi.Connector) *errors.ServiceError
}

var _ SyncOrchestrator = &syncOrchestrator{}

type syncOrchestrator struct {
	connectorsService ConnectorsService
	bus               signalbus.SignalBus
}

func NewSyncOrchestrator(connectorsService ConnectorsService, bus signalbus.SignalBus) *syncOrchestrator {
	return &syncOrchestrator{
		connectorsService: connectorsService,
		bus:               bus,
	}
}

func (s *syncOrchestrator) TriggerSync(ctx context.Context, connector *dbapi.Connector) *errors.ServiceError {
	if connector.Status != dbapi.ConnectorStatusConnected {
		return errors.ConnectorNotReady("Connector '%s' is not connected, current status is '%s'", connector.Key, connector.Status)
	}

	if err := s.connectorsService.MarkSynced(ctx, connector, time.Now().UTC()); err != nil {
		return err
	}

	// wake up the reconcile loop once the run is durable
	if err := db.AddPostCommitAction(ctx, func() {
		s.bus.Notify(SyncSignal)
	}); err != nil {
		s.bus.Notify(SyncSignal)
	}
	return nil
}
