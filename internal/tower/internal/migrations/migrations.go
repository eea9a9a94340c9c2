package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
)

// All returns the tower schema migrations in order.
func All() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		addTowerTables("202608100000"),
		addAuditCreatedAtIndex("202608170000"),
	}
}
