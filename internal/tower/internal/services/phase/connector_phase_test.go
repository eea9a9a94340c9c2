package phase

import (
	"testing"

	"github.com/onsi/gomega"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/pkg/errors"
)

func fingerprint() *string {
	f := "sha256:deadbeef"
	return &f
}

func openIncident() dbapi.Incident {
	return dbapi.Incident{Severity: dbapi.IncidentSeverityMedium, Summary: "sync backlog"}
}

func Test_ConnectorFSM_Perform(t *testing.T) {
	tests := []struct {
		name       string
		connector  *dbapi.Connector
		operation  ConnectorOperation
		wantStatus dbapi.ConnectorStatus
		wantChange bool
		wantCode   errors.ServiceErrorCode
	}{
		{
			name: "enable without credential on a byok connector is rejected",
			connector: &dbapi.Connector{
				Status:         dbapi.ConnectorStatusNotConnected,
				RequiresAPIKey: true,
			},
			operation: EnableConnector,
			wantCode:  errors.ErrorMissingCredential,
		},
		{
			name: "enable with credential connects",
			connector: &dbapi.Connector{
				Status:                dbapi.ConnectorStatusNotConnected,
				RequiresAPIKey:        true,
				CredentialFingerprint: fingerprint(),
			},
			operation:  EnableConnector,
			wantStatus: dbapi.ConnectorStatusConnected,
			wantChange: true,
		},
		{
			name: "enable without byok requirement needs no credential",
			connector: &dbapi.Connector{
				Status: dbapi.ConnectorStatusNotConnected,
			},
			operation:  EnableConnector,
			wantStatus: dbapi.ConnectorStatusConnected,
			wantChange: true,
		},
		{
			name: "enable lands on action_required when incidents are open",
			connector: &dbapi.Connector{
				Status:    dbapi.ConnectorStatusNotConnected,
				Incidents: []dbapi.Incident{openIncident()},
			},
			operation:  EnableConnector,
			wantStatus: dbapi.ConnectorStatusActionRequired,
			wantChange: true,
		},
		{
			name: "disable wins over degraded and skips re-evaluation",
			connector: &dbapi.Connector{
				Status:      dbapi.ConnectorStatusDegraded,
				SyncFailing: true,
				Incidents:   []dbapi.Incident{openIncident()},
			},
			operation:  DisableConnector,
			wantStatus: dbapi.ConnectorStatusNotConnected,
			wantChange: true,
		},
		{
			name: "disable on a dormant connector is a no-op",
			connector: &dbapi.Connector{
				Status: dbapi.ConnectorStatusNotConnected,
			},
			operation:  DisableConnector,
			wantStatus: dbapi.ConnectorStatusNotConnected,
			wantChange: false,
		},
		{
			name: "incident cannot be reported on a dormant connector",
			connector: &dbapi.Connector{
				Status: dbapi.ConnectorStatusNotConnected,
			},
			operation: ReportIncident,
			wantCode:  errors.ErrorBadRequest,
		},
		{
			name: "incident flips connected to action_required",
			connector: &dbapi.Connector{
				Status:    dbapi.ConnectorStatusConnected,
				Incidents: []dbapi.Incident{openIncident()},
			},
			operation:  ReportIncident,
			wantStatus: dbapi.ConnectorStatusActionRequired,
			wantChange: true,
		},
		{
			name: "sync failure takes display precedence over open incidents",
			connector: &dbapi.Connector{
				Status:      dbapi.ConnectorStatusActionRequired,
				SyncFailing: true,
				Incidents:   []dbapi.Incident{openIncident()},
			},
			operation:  ReportSyncFailure,
			wantStatus: dbapi.ConnectorStatusDegraded,
			wantChange: true,
		},
		{
			name: "clearing a sync failure falls back to action_required while incidents remain",
			connector: &dbapi.Connector{
				Status:    dbapi.ConnectorStatusDegraded,
				Incidents: []dbapi.Incident{openIncident()},
			},
			operation:  ClearSyncFailure,
			wantStatus: dbapi.ConnectorStatusActionRequired,
			wantChange: true,
		},
		{
			name: "resolving the last incident restores connected",
			connector: &dbapi.Connector{
				Status: dbapi.ConnectorStatusActionRequired,
			},
			operation:  ResolveIncidents,
			wantStatus: dbapi.ConnectorStatusConnected,
			wantChange: true,
		},
		{
			name: "resolving incidents keeps degraded while sync is failing",
			connector: &dbapi.Connector{
				Status:      dbapi.ConnectorStatusActionRequired,
				SyncFailing: true,
			},
			operation:  ResolveIncidents,
			wantStatus: dbapi.ConnectorStatusDegraded,
			wantChange: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			previous := tt.connector.Status
			changed, err := NewConnectorFSM(tt.connector).Perform(tt.operation)
			if tt.wantCode != 0 {
				g.Expect(err).ToNot(gomega.BeNil())
				g.Expect(err.Code).To(gomega.Equal(tt.wantCode))
				g.Expect(tt.connector.Status).To(gomega.Equal(previous))
				return
			}
			g.Expect(err).To(gomega.BeNil())
			g.Expect(tt.connector.Status).To(gomega.Equal(tt.wantStatus))
			g.Expect(changed).To(gomega.Equal(tt.wantChange))
		})
	}
}

func Test_PerformConnectorOperation_UpdateCallback(t *testing.T) {
	g := gomega.NewWithT(t)

	connector := &dbapi.Connector{Status: dbapi.ConnectorStatusConnected, SyncFailing: true}
	saved := false
	changed, err := PerformConnectorOperation(connector, ReportSyncFailure,
		func(c *dbapi.Connector) *errors.ServiceError {
			saved = true
			return nil
		})
	g.Expect(err).To(gomega.BeNil())
	g.Expect(changed).To(gomega.Equal(true))
	g.Expect(saved).To(gomega.Equal(true))

	// callbacks only fire when the status actually changed
	saved = false
	changed, err = PerformConnectorOperation(connector, ReportSyncFailure,
		func(c *dbapi.Connector) *errors.ServiceError {
			saved = true
			return nil
		})
	g.Expect(err).To(gomega.BeNil())
	g.Expect(changed).To(gomega.Equal(false))
	g.Expect(saved).To(gomega.Equal(false))
}
