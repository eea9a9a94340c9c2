package services

import (
	"context"
	"testing"
	"time"

	goerrors "errors"

	"github.com/onsi/gomega"
	mocket "github.com/selvatico/go-mocket"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/internal/tower/internal/config"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
)

func Test_towerService_computeSummary(t *testing.T) {
	now := time.Now().UTC()
	earlier := now.Add(-time.Hour)
	fingerprint := "sha256:deadbeef"

	tests := []struct {
		name       string
		connectors dbapi.ConnectorList
		want       dbapi.Summary
	}{
		{
			name:       "empty workspace is vacuously healthy",
			connectors: dbapi.ConnectorList{},
			want: dbapi.Summary{
				HealthScore:  100,
				Environments: map[string]int{},
			},
		},
		{
			name: "two of three connected rounds to 67",
			connectors: dbapi.ConnectorList{
				{Status: dbapi.ConnectorStatusConnected, Environment: "production"},
				{Status: dbapi.ConnectorStatusConnected, Environment: "production"},
				{Status: dbapi.ConnectorStatusNotConnected, Environment: "staging"},
			},
			want: dbapi.Summary{
				Total:       3,
				Connected:   2,
				HealthScore: 67,
				Environments: map[string]int{
					"production": 2,
					"staging":    1,
				},
			},
		},
		{
			name: "one of three connected rounds to 33",
			connectors: dbapi.ConnectorList{
				{Status: dbapi.ConnectorStatusConnected},
				{Status: dbapi.ConnectorStatusActionRequired},
				{Status: dbapi.ConnectorStatusDegraded},
			},
			want: dbapi.Summary{
				Total:          3,
				Connected:      1,
				ActionRequired: 2,
				HealthScore:    33,
				Environments:   map[string]int{},
			},
		},
		{
			name: "byok counts and the newest sync timestamp win",
			connectors: dbapi.ConnectorList{
				{
					Status:                dbapi.ConnectorStatusConnected,
					RequiresAPIKey:        true,
					CredentialFingerprint: &fingerprint,
					LastSyncedAt:          &earlier,
				},
				{
					Status:         dbapi.ConnectorStatusActionRequired,
					RequiresAPIKey: true,
					LastSyncedAt:   &now,
					Incidents: []dbapi.Incident{
						{Severity: dbapi.IncidentSeverityHigh, Summary: "sync backlog"},
					},
				},
			},
			want: dbapi.Summary{
				Total:          2,
				Connected:      1,
				ActionRequired: 1,
				Byok:           2,
				ByokConfigured: 1,
				OpenIncidents:  1,
				HealthScore:    50,
				Environments:   map[string]int{},
				LastSyncedAt:   &now,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			s := &towerService{}
			got := s.computeSummary(tt.connectors)
			g.Expect(*got).To(gomega.Equal(tt.want))
		})
	}
}

func Test_towerService_ToggleConnection_Validation(t *testing.T) {
	g := gomega.NewWithT(t)
	s := &towerService{}

	// only the two explicit statuses are toggle targets
	_, _, err := s.ToggleConnection(context.TODO(), testWorkspaceID, testConnectorKey, dbapi.ConnectorStatusDegraded)
	g.Expect(err).ToNot(gomega.BeNil())
	g.Expect(err.Code).To(gomega.Equal(errors.ErrorBadRequest))
}

func Test_towerService_CommandsRequireActor(t *testing.T) {
	g := gomega.NewWithT(t)
	s := &towerService{}

	// a context without resolved claims must never fall back to the system actor
	_, _, err := s.ToggleConnection(context.TODO(), testWorkspaceID, testConnectorKey, dbapi.ConnectorStatusConnected)
	g.Expect(err).ToNot(gomega.BeNil())
	g.Expect(err.Code).To(gomega.Equal(errors.ErrorUnauthorizedActor))

	_, _, _, err = s.RotateCredential(context.TODO(), testWorkspaceID, testConnectorKey, "sk-live-4242424242424242")
	g.Expect(err).ToNot(gomega.BeNil())
	g.Expect(err.Code).To(gomega.Equal(errors.ErrorUnauthorizedActor))

	_, _, err = s.ResolveIncident(context.TODO(), testWorkspaceID, testConnectorKey, "incident-1")
	g.Expect(err).ToNot(gomega.BeNil())
	g.Expect(err.Code).To(gomega.Equal(errors.ErrorUnauthorizedActor))
}

func Test_towerService_Overview_SeedRace(t *testing.T) {
	g := gomega.NewWithT(t)

	factory := db.NewMockConnectionFactory(nil)
	catalog := &config.ConnectorCatalogConfig{
		Entries: []config.CatalogEntry{
			{Key: testConnectorKey, Name: "Salesforce", Category: "crm"},
		},
	}
	s := NewTowerService(factory, NewConnectorsService(factory), nil, NewAuditService(factory), nil, catalog, NewKeyLock())

	// two first reads of the same workspace can race the seed: this reader
	// sees an empty list, then loses the insert to the concurrent seeder.
	// The unique violation is tolerated and the list is reread.
	mocket.Catcher.Reset()
	mocket.Catcher.NewMock().WithQuery(`ORDER BY name`).WithReply(nil).OneTime()
	mocket.Catcher.NewMock().WithQuery(`AND key`).WithReply(nil)
	seedMock := mocket.Catcher.NewMock().WithQuery(`INSERT INTO "connectors"`).
		WithError(goerrors.New(`pq: duplicate key value violates unique constraint "idx_connectors_workspace_id_key"`))
	mocket.Catcher.NewMock().WithQuery(`ORDER BY name`).WithReply(connectorRow(buildConnector(nil)))
	mocket.Catcher.NewMock().WithQuery(`"incidents"`).WithReply(nil)
	mocket.Catcher.NewMock().WithQuery(`"audit_log_entries"`).WithReply(nil)

	overview, err := s.Overview(context.TODO(), testWorkspaceID)
	g.Expect(err).To(gomega.BeNil())
	g.Expect(seedMock.Triggered).To(gomega.Equal(true))
	g.Expect(overview.Connectors).To(gomega.HaveLen(1))
	g.Expect(overview.Summary.Total).To(gomega.Equal(1))
}
