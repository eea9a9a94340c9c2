package workers

import (
	"context"
	"testing"

	"github.com/onsi/gomega"
	mocket "github.com/selvatico/go-mocket"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/services"
	"github.com/hirewire/control-tower/pkg/api"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/services/signalbus"
)

func newTestSyncManager(factory *db.ConnectionFactory) *SyncManager {
	return NewSyncManager(
		services.NewConnectorsService(factory),
		services.NewAuditService(factory),
		signalbus.NewSignalBusMemory(),
		services.NewKeyLock(),
	)
}

func Test_SyncManager_SkipsToggledConnector(t *testing.T) {
	g := gomega.NewWithT(t)

	factory := db.NewMockConnectionFactory(nil)
	m := newTestSyncManager(factory)

	// the listing snapshot said connected, but an operator disabled the
	// connector before the run acquired its lock: the fresh read wins and
	// nothing is written
	mocket.Catcher.Reset()
	mocket.Catcher.NewMock().WithQuery(`"connectors"`).WithReply([]map[string]interface{}{
		{
			"id":           "test-connector-id",
			"key":          "salesforce",
			"workspace_id": "ws-acme",
			"status":       string(dbapi.ConnectorStatusNotConnected),
		},
	})
	updateMock := mocket.Catcher.NewMock().WithQuery("UPDATE").WithRowsNum(1)
	insertMock := mocket.Catcher.NewMock().WithQuery("INSERT").WithRowsNum(1)

	stale := &dbapi.Connector{
		Meta:        api.Meta{ID: "test-connector-id"},
		Key:         "salesforce",
		WorkspaceID: "ws-acme",
		Status:      dbapi.ConnectorStatusConnected,
	}
	err := m.syncConnector(context.Background(), stale)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(updateMock.Triggered).To(gomega.Equal(false))
	g.Expect(insertMock.Triggered).To(gomega.Equal(false))
}

func Test_SyncManager_RecordsScheduledRun(t *testing.T) {
	g := gomega.NewWithT(t)

	factory := db.NewMockConnectionFactory(nil)
	m := newTestSyncManager(factory)

	mocket.Catcher.Reset()
	mocket.Catcher.NewMock().WithQuery(`SELECT * FROM "connectors"`).WithReply([]map[string]interface{}{
		{
			"id":           "test-connector-id",
			"key":          "salesforce",
			"workspace_id": "ws-acme",
			"status":       string(dbapi.ConnectorStatusConnected),
		},
	})
	mocket.Catcher.NewMock().WithQuery(`"incidents"`).WithReply(nil)
	updateMock := mocket.Catcher.NewMock().WithQuery(`UPDATE "connectors" SET "last_synced_at"`).WithRowsNum(1)
	auditMock := mocket.Catcher.NewMock().WithQuery(`INSERT INTO "audit_log_entries"`).WithRowsNum(1)

	stale := &dbapi.Connector{
		Meta:        api.Meta{ID: "test-connector-id"},
		Key:         "salesforce",
		WorkspaceID: "ws-acme",
		Status:      dbapi.ConnectorStatusConnected,
	}
	err := m.syncConnector(context.Background(), stale)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(updateMock.Triggered).To(gomega.Equal(true))
	g.Expect(auditMock.Triggered).To(gomega.Equal(true))
}
