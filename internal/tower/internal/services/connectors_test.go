package services

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/gomega"
	mocket "github.com/selvatico/go-mocket"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/pkg/api"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
)

var (
	testWorkspaceID  = "ws-acme"
	testConnectorKey = "salesforce"
	testConnectorID  = "test-connector-id"
)

// build a test connector
func buildConnector(modifyFn func(connector *dbapi.Connector)) *dbapi.Connector {
	resource := &dbapi.Connector{
		Meta: api.Meta{
			ID: testConnectorID,
		},
		Key:         testConnectorKey,
		WorkspaceID: testWorkspaceID,
		Name:        "Salesforce",
		Category:    dbapi.ConnectorCategoryCRM,
		Status:      dbapi.ConnectorStatusNotConnected,
	}
	if modifyFn != nil {
		modifyFn(resource)
	}
	return resource
}

func connectorRow(connector *dbapi.Connector) []map[string]interface{} {
	row := map[string]interface{}{
		"id":               connector.ID,
		"key":              connector.Key,
		"workspace_id":     connector.WorkspaceID,
		"name":             connector.Name,
		"category":         string(connector.Category),
		"status":           string(connector.Status),
		"requires_api_key": connector.RequiresAPIKey,
		"sync_failing":     connector.SyncFailing,
	}
	if connector.CredentialFingerprint != nil {
		row["credential_fingerprint"] = *connector.CredentialFingerprint
	}
	return []map[string]interface{}{row}
}

func Test_connectorsService_Get(t *testing.T) {
	type args struct {
		ctx         context.Context
		workspaceID string
		key         string
	}
	tests := []struct {
		name     string
		args     args
		want     *dbapi.Connector
		wantCode errors.ServiceErrorCode
		setupFn  func()
	}{
		{
			name: "error when key is undefined",
			args: args{
				ctx:         context.TODO(),
				workspaceID: testWorkspaceID,
				key:         "",
			},
			wantCode: errors.ErrorValidation,
		},
		{
			name: "error when sql where query fails",
			args: args{
				ctx:         context.TODO(),
				workspaceID: testWorkspaceID,
				key:         testConnectorKey,
			},
			wantCode: errors.ErrorPersistence,
			setupFn: func() {
				mocket.Catcher.Reset().NewMock().WithQuery(`"connectors"`).WithQueryException()
			},
		},
		{
			name: "unknown key maps to connector not found",
			args: args{
				ctx:         context.TODO(),
				workspaceID: testWorkspaceID,
				key:         "unknown",
			},
			wantCode: errors.ErrorConnectorNotFound,
			setupFn: func() {
				mocket.Catcher.Reset().NewMock().WithQuery(`"connectors"`).WithReply(nil)
			},
		},
		{
			name: "successful output",
			args: args{
				ctx:         context.TODO(),
				workspaceID: testWorkspaceID,
				key:         testConnectorKey,
			},
			want: buildConnector(nil),
			setupFn: func() {
				mocket.Catcher.Reset()
				mocket.Catcher.NewMock().WithQuery(`"connectors"`).WithReply(connectorRow(buildConnector(nil)))
				mocket.Catcher.NewMock().WithQuery(`"incidents"`).WithReply(nil)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			if tt.setupFn != nil {
				tt.setupFn()
			}
			k := &connectorsService{
				connectionFactory: db.NewMockConnectionFactory(nil),
			}
			got, err := k.Get(tt.args.ctx, tt.args.workspaceID, tt.args.key)
			if tt.wantCode != 0 {
				g.Expect(err).ToNot(gomega.BeNil())
				g.Expect(err.Code).To(gomega.Equal(tt.wantCode))
				return
			}
			g.Expect(err).To(gomega.BeNil())
			g.Expect(got.ID).To(gomega.Equal(tt.want.ID))
			g.Expect(got.Key).To(gomega.Equal(tt.want.Key))
			g.Expect(got.Status).To(gomega.Equal(tt.want.Status))
			g.Expect(got.HasOpenIncidents()).To(gomega.Equal(false))
		})
	}
}

func Test_connectorsService_Enable(t *testing.T) {
	g := gomega.NewWithT(t)
	k := &connectorsService{
		connectionFactory: db.NewMockConnectionFactory(nil),
	}

	// a byok connector with no fingerprint on file cannot be enabled
	connector := buildConnector(func(c *dbapi.Connector) {
		c.RequiresAPIKey = true
	})
	_, err := k.Enable(context.TODO(), connector)
	g.Expect(err).ToNot(gomega.BeNil())
	g.Expect(err.Code).To(gomega.Equal(errors.ErrorMissingCredential))
	g.Expect(connector.Status).To(gomega.Equal(dbapi.ConnectorStatusNotConnected))

	// with a fingerprint the same connector connects
	mocket.Catcher.Reset().NewMock().WithQuery("UPDATE").WithReply(nil)
	connector = buildConnector(func(c *dbapi.Connector) {
		c.RequiresAPIKey = true
		fingerprint := "sha256:deadbeef"
		c.CredentialFingerprint = &fingerprint
	})
	changed, err := k.Enable(context.TODO(), connector)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(changed).To(gomega.Equal(true))
	g.Expect(connector.Status).To(gomega.Equal(dbapi.ConnectorStatusConnected))
}

func Test_connectorsService_Disable(t *testing.T) {
	g := gomega.NewWithT(t)
	k := &connectorsService{
		connectionFactory: db.NewMockConnectionFactory(nil),
	}

	mocket.Catcher.Reset().NewMock().WithQuery("UPDATE").WithReply(nil)

	connector := buildConnector(func(c *dbapi.Connector) {
		c.Status = dbapi.ConnectorStatusDegraded
		c.SyncFailing = true
		fingerprint := "sha256:deadbeef"
		c.CredentialFingerprint = &fingerprint
	})
	changed, err := k.Disable(context.TODO(), connector)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(changed).To(gomega.Equal(true))
	g.Expect(connector.Status).To(gomega.Equal(dbapi.ConnectorStatusNotConnected))

	// zero retention: disabling purges the fingerprint and the failure flag
	g.Expect(connector.CredentialFingerprint).To(gomega.BeNil())
	g.Expect(connector.SyncFailing).To(gomega.Equal(false))
}

func Test_connectorsService_RotateCredential(t *testing.T) {
	g := gomega.NewWithT(t)
	k := &connectorsService{
		connectionFactory: db.NewMockConnectionFactory(nil),
	}

	mocket.Catcher.Reset().NewMock().WithQuery("UPDATE").WithReply(nil)

	connector := buildConnector(nil)
	fingerprint, err := k.RotateCredential(context.TODO(), connector, "sk-live-4242424242424242")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(fingerprint).To(gomega.HavePrefix("sha256:"))
	g.Expect(connector.CredentialFingerprint).ToNot(gomega.BeNil())
	g.Expect(*connector.CredentialFingerprint).To(gomega.Equal(fingerprint))

	// the raw secret is rejected before any write when invalid
	_, err = k.RotateCredential(context.TODO(), connector, "")
	g.Expect(err).ToNot(gomega.BeNil())
	g.Expect(err.Code).To(gomega.Equal(errors.ErrorInvalidSecret))
}

func Test_connectorsService_MarkSynced(t *testing.T) {
	g := gomega.NewWithT(t)
	k := &connectorsService{
		connectionFactory: db.NewMockConnectionFactory(nil),
	}
	at := time.Now().UTC()

	// the stamp is a targeted update of the sync timestamp alone, guarded on
	// the connected status, so a stale in-memory snapshot can never write its
	// other columns (status, fingerprint) over a concurrent commit
	mocket.Catcher.Reset().NewMock().
		WithQuery(`UPDATE "connectors" SET "last_synced_at"`).
		WithRowsNum(1)
	connector := buildConnector(func(c *dbapi.Connector) {
		c.Status = dbapi.ConnectorStatusConnected
		fingerprint := "sha256:deadbeef"
		c.CredentialFingerprint = &fingerprint
	})
	err := k.MarkSynced(context.TODO(), connector, at)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(connector.LastSyncedAt).ToNot(gomega.BeNil())
	g.Expect(mocket.Catcher.Mocks[0].Triggered).To(gomega.Equal(true))

	// the row lost its connected status since the snapshot was loaded
	// (e.g. an operator disabled it), the stamp must not land
	mocket.Catcher.Reset().NewMock().
		WithQuery(`UPDATE "connectors" SET "last_synced_at"`).
		WithRowsNum(0)
	connector = buildConnector(func(c *dbapi.Connector) {
		c.Status = dbapi.ConnectorStatusConnected
	})
	err = k.MarkSynced(context.TODO(), connector, at)
	g.Expect(err).ToNot(gomega.BeNil())
	g.Expect(err.Code).To(gomega.Equal(errors.ErrorConnectorNotReady))
	g.Expect(connector.LastSyncedAt).To(gomega.BeNil())
}
