package services

import (
	"context"
	"testing"

	"github.com/onsi/gomega"
	mocket "github.com/selvatico/go-mocket"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
	"github.com/hirewire/control-tower/pkg/services/signalbus"
)

func Test_syncOrchestrator_TriggerSync(t *testing.T) {
	g := gomega.NewWithT(t)

	factory := db.NewMockConnectionFactory(nil)
	bus := signalbus.NewSignalBusMemory()
	sub := bus.Subscribe(SyncSignal)
	defer sub.Close()

	s := &syncOrchestrator{
		connectorsService: NewConnectorsService(factory),
		bus:               bus,
	}

	// anything short of connected is not ready for a sync run; the command
	// fails before any write, so no timestamp lands and the caller appends
	// no audit entry
	mocket.Catcher.Reset().NewMock().WithQuery("UPDATE").WithRowsNum(1)
	connector := buildConnector(func(c *dbapi.Connector) {
		c.Status = dbapi.ConnectorStatusActionRequired
	})
	err := s.TriggerSync(context.TODO(), connector)
	g.Expect(err).ToNot(gomega.BeNil())
	g.Expect(err.Code).To(gomega.Equal(errors.ErrorConnectorNotReady))
	g.Expect(connector.LastSyncedAt).To(gomega.BeNil())
	g.Expect(mocket.Catcher.Mocks[0].Triggered).To(gomega.Equal(false))
	g.Expect(sub.IsSignaled()).To(gomega.Equal(false))

	// a connected connector gets its run recorded and the worker is woken
	connector = buildConnector(func(c *dbapi.Connector) {
		c.Status = dbapi.ConnectorStatusConnected
	})
	err = s.TriggerSync(context.TODO(), connector)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(connector.LastSyncedAt).ToNot(gomega.BeNil())
	g.Expect(sub.IsSignaled()).To(gomega.Equal(true))
}
