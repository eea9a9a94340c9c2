package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"

	"github.com/hirewire/control-tower/pkg/db"
)

func addAuditCreatedAtIndex(migrationId string) *gormigrate.Migration {
	// the audit trail is always read newest first
	return db.CreateMigrationFromActions(migrationId,
		db.ExecAction(`CREATE INDEX idx_audit_log_entries_created_at ON audit_log_entries(created_at DESC)`,
			`DROP INDEX IF EXISTS idx_audit_log_entries_created_at`),
		db.ExecAction(`CREATE INDEX idx_incidents_resolved_at ON incidents(resolved_at)`,
			`DROP INDEX IF EXISTS idx_incidents_resolved_at`),
	)
}
