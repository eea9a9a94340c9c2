package constants

// AuditedAction is the set of control actions recorded in the audit trail.
type AuditedAction string

const (
	ActionToggleConnection      AuditedAction = "toggle_connection"
	ActionRotateCredential      AuditedAction = "rotate_credential"
	ActionCreateIncident        AuditedAction = "create_incident"
	ActionResolveIncident       AuditedAction = "resolve_incident"
	ActionUpdateFieldMappings   AuditedAction = "update_field_mappings"
	ActionUpdateRoleAssignments AuditedAction = "update_role_assignments"
	ActionTriggerSync           AuditedAction = "trigger_sync"
)

func (a AuditedAction) String() string {
	return string(a)
}

// SyncTrigger identifies what initiated a sync run.
type SyncTrigger string

const (
	SyncTriggerManual    SyncTrigger = "manual"
	SyncTriggerScheduled SyncTrigger = "scheduled"
)

func (t SyncTrigger) String() string {
	return string(t)
}

var AllSyncTriggers = []string{
	string(SyncTriggerManual),
	string(SyncTriggerScheduled),
}
