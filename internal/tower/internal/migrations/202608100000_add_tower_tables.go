package migrations

// Migrations should NEVER use types from other packages. Types can change
// and then migrations run on a _new_ database will fail or behave unexpectedly.
// Instead of importing types, always re-create the type in the migration, as
// is done here, even though the same type is defined in dbapi

import (
	"time"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/lib/pq"

	"github.com/hirewire/control-tower/pkg/db"
)

func addTowerTables(migrationId string) *gormigrate.Migration {
	type Connector struct {
		db.Model

		Key         string `gorm:"index:idx_connectors_workspace_id_key,unique"`
		WorkspaceID string `gorm:"index:idx_connectors_workspace_id_key,unique"`
		Name        string
		Category    string
		Description string
		Owner       string
		Environment string

		Status string `gorm:"index"`

		RequiresAPIKey        bool
		CredentialFingerprint *string

		Scopes     pq.StringArray `gorm:"type:text[]"`
		Regions    pq.StringArray `gorm:"type:text[]"`
		Compliance pq.StringArray `gorm:"type:text[]"`

		FieldMappings   string `gorm:"type:jsonb"`
		RoleAssignments string `gorm:"type:jsonb"`

		LastSyncedAt *time.Time
		SyncFailing  bool
	}

	type Incident struct {
		db.Model

		ConnectorID  string `gorm:"index"`
		ConnectorKey string `gorm:"index"`
		WorkspaceID  string `gorm:"index"`

		Severity    string
		Summary     string
		Description string

		ResolvedAt *time.Time
		ResolvedBy *string
	}

	type AuditLogEntry struct {
		db.Model

		WorkspaceID  string `gorm:"index"`
		ConnectorKey string `gorm:"index"`
		Action       string `gorm:"index"`

		ActorID   string
		ActorName string

		Details string `gorm:"type:jsonb"`
	}

	return db.CreateMigrationFromActions(migrationId,
		db.CreateTableAction(&Connector{}),
		db.CreateTableAction(&Incident{}),
		db.CreateTableAction(&AuditLogEntry{}),
	)
}
