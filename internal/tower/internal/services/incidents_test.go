package services

import (
	"context"
	"testing"
	"time"

	"github.com/onsi/gomega"
	mocket "github.com/selvatico/go-mocket"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/pkg/auth"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/errors"
)

var testActor = auth.Actor{ID: "user-1", DisplayName: "sam"}

func incidentRow(resolvedAt *time.Time) []map[string]interface{} {
	row := map[string]interface{}{
		"id":            "incident-1",
		"connector_id":  testConnectorID,
		"connector_key": testConnectorKey,
		"workspace_id":  testWorkspaceID,
		"severity":      "high",
		"summary":       "sync backlog",
	}
	if resolvedAt != nil {
		row["resolved_at"] = *resolvedAt
	}
	return []map[string]interface{}{row}
}

func Test_incidentsService_Resolve(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name       string
		incidentID string
		wantCode   errors.ServiceErrorCode
		setupFn    func()
	}{
		{
			name:       "error when incident id is undefined",
			incidentID: "",
			wantCode:   errors.ErrorValidation,
		},
		{
			name:       "unknown incident maps to incident not found",
			incidentID: "missing",
			wantCode:   errors.ErrorIncidentNotFound,
			setupFn: func() {
				mocket.Catcher.Reset().NewMock().WithQuery(`"incidents"`).WithReply(nil)
			},
		},
		{
			name:       "already resolved incident is rejected, not silently accepted",
			incidentID: "incident-1",
			wantCode:   errors.ErrorIncidentNotFound,
			setupFn: func() {
				mocket.Catcher.Reset().NewMock().WithQuery(`"incidents"`).WithReply(incidentRow(&now))
			},
		},
		{
			name:       "successful resolution stamps time and actor",
			incidentID: "incident-1",
			setupFn: func() {
				mocket.Catcher.Reset()
				mocket.Catcher.NewMock().WithQuery(`"incidents"`).WithReply(incidentRow(nil))
				mocket.Catcher.NewMock().WithQuery("UPDATE").WithReply(nil)
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			if tt.setupFn != nil {
				tt.setupFn()
			}
			k := &incidentsService{
				connectionFactory: db.NewMockConnectionFactory(nil),
			}
			connector := buildConnector(nil)
			incident, err := k.Resolve(context.TODO(), connector, tt.incidentID, testActor)
			if tt.wantCode != 0 {
				g.Expect(err).ToNot(gomega.BeNil())
				g.Expect(err.Code).To(gomega.Equal(tt.wantCode))
				return
			}
			g.Expect(err).To(gomega.BeNil())
			g.Expect(incident.ResolvedAt).ToNot(gomega.BeNil())
			g.Expect(incident.ResolvedBy).ToNot(gomega.BeNil())
			g.Expect(*incident.ResolvedBy).To(gomega.Equal(testActor.ID))
			g.Expect(incident.IsOpen()).To(gomega.Equal(false))
		})
	}
}

func Test_incidentsService_Open(t *testing.T) {
	g := gomega.NewWithT(t)

	mocket.Catcher.Reset().NewMock().WithQuery("INSERT").WithReply(nil)

	k := &incidentsService{
		connectionFactory: db.NewMockConnectionFactory(nil),
	}
	connector := buildConnector(nil)
	incident, err := k.Open(context.TODO(), connector, dbapi.IncidentSeverityHigh, "sync backlog", "provider returning 429s")
	g.Expect(err).To(gomega.BeNil())
	g.Expect(incident.ID).ToNot(gomega.BeEmpty())
	g.Expect(incident.ConnectorID).To(gomega.Equal(connector.ID))
	g.Expect(incident.WorkspaceID).To(gomega.Equal(connector.WorkspaceID))
	g.Expect(incident.IsOpen()).To(gomega.Equal(true))
}
