package phase

import (
	"context"

	"github.com/looplab/fsm"

	"github.com/hirewire/control-tower/internal/tower/internal/api/dbapi"
	"github.com/hirewire/control-tower/pkg/errors"
)

type ConnectorOperation string

const (
	EnableConnector   ConnectorOperation = "enable"
	DisableConnector  ConnectorOperation = "disable"
	ReportIncident    ConnectorOperation = "report_incident"
	ResolveIncidents  ConnectorOperation = "resolve_incidents"
	ReportSyncFailure ConnectorOperation = "report_sync_failure"
	ClearSyncFailure  ConnectorOperation = "clear_sync_failure"
)

var healthStates = []string{
	string(dbapi.ConnectorStatusConnected),
	string(dbapi.ConnectorStatusActionRequired),
	string(dbapi.ConnectorStatusDegraded),
}

var allStates = append([]string{string(dbapi.ConnectorStatusNotConnected)}, healthStates...)

var connectorEvents = []fsm.EventDesc{
	{Name: string(EnableConnector), Src: allStates, Dst: string(dbapi.ConnectorStatusConnected)},
	// disabling always wins, explicit operator intent overrides health classification
	{Name: string(DisableConnector), Src: allStates, Dst: string(dbapi.ConnectorStatusNotConnected)},
	{Name: string(ReportIncident), Src: healthStates, Dst: string(dbapi.ConnectorStatusActionRequired)},
	{Name: string(ResolveIncidents), Src: healthStates, Dst: string(dbapi.ConnectorStatusConnected)},
	{Name: string(ReportSyncFailure), Src: healthStates, Dst: string(dbapi.ConnectorStatusDegraded)},
	{Name: string(ClearSyncFailure), Src: healthStates, Dst: string(dbapi.ConnectorStatusConnected)},
}

// ConnectorFSM handles status changes for a single connector
type ConnectorFSM struct {
	Connector *dbapi.Connector
	fsm       *fsm.FSM
}

func NewConnectorFSM(connector *dbapi.Connector) *ConnectorFSM {
	return &ConnectorFSM{
		Connector: connector,
		fsm:       fsm.NewFSM(string(connector.Status), connectorEvents, nil),
	}
}

// Perform tries to perform the given operation and updates the connector status,
// first return value is true if the status was changed and
// second value is an error if the operation is not permitted in the connector's present status
func (c *ConnectorFSM) Perform(operation ConnectorOperation) (bool, *errors.ServiceError) {
	if operation == EnableConnector && c.Connector.RequiresAPIKey && c.Connector.CredentialFingerprint == nil {
		return false, errors.MissingCredential("no credential on file - rotate a key before enabling this connector")
	}

	previous := c.Connector.Status
	if err := c.fsm.Event(context.TODO(), string(operation)); err != nil {
		switch err.(type) {
		case fsm.NoTransitionError:
			// fall through to re-evaluation, the health inputs may still
			// demand a different state
		default:
			return false, errors.BadRequest("Cannot perform connector operation [%s] in status [%s] because %s",
				operation, c.Connector.Status, err)
		}
	}

	c.Connector.Status = dbapi.ConnectorStatus(c.fsm.Current())
	if operation != DisableConnector {
		c.reevaluate()
	}
	return c.Connector.Status != previous, nil
}

// reevaluate settles the health state from the connector's current inputs:
// a reported sync failure takes display precedence over open incidents.
func (c *ConnectorFSM) reevaluate() {
	if c.Connector.Status == dbapi.ConnectorStatusNotConnected {
		return
	}
	switch {
	case c.Connector.SyncFailing:
		c.Connector.Status = dbapi.ConnectorStatusDegraded
	case c.Connector.HasOpenIncidents():
		c.Connector.Status = dbapi.ConnectorStatusActionRequired
	default:
		c.Connector.Status = dbapi.ConnectorStatusConnected
	}
}

// PerformConnectorOperation is a utility method to change a connector's status,
// first return value is true if the status was changed and
// second value is an error if the operation is not permitted in the connector's present status
func PerformConnectorOperation(connector *dbapi.Connector, operation ConnectorOperation,
	updateStatus ...func(connector *dbapi.Connector) *errors.ServiceError) (updated bool, err *errors.ServiceError) {

	if updated, err = NewConnectorFSM(connector).Perform(operation); len(updateStatus) > 0 && err == nil && updated {
		for _, f := range updateStatus {
			err = f(connector)
			if err != nil {
				break
			}
		}
	}
	return updated, err
}
