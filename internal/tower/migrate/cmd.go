package migrate

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/hirewire/control-tower/internal/tower/internal/migrations"
	"github.com/hirewire/control-tower/pkg/db"
	"github.com/hirewire/control-tower/pkg/environments"
)

// migrate sub-command handles running migrations
func NewMigrateCommand(env *environments.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run control-tower data migrations",
		Long:  "Run control-tower data migrations",
		Run: func(cmd *cobra.Command, args []string) {
			// we dont do a env.CreateServices()
			// to avoid requiring all other env settings to be provided.
			env.MustInvoke(func(dbConfig *db.DatabaseConfig) {
				migration, cleanup, err := db.NewMigration(dbConfig, &gormigrate.Options{
					TableName:      "migrations",
					IDColumnName:   "id",
					IDColumnSize:   255,
					UseTransaction: false,
				}, migrations.All())
				if err != nil {
					glog.Fatal(err)
				}
				defer cleanup()
				migration.Migrate()
			})
		},
	}
	return cmd
}
