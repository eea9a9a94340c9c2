package main

import (
	"flag"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/hirewire/control-tower/cmd/control-tower/errors"
	"github.com/hirewire/control-tower/cmd/control-tower/servecmd"
	"github.com/hirewire/control-tower/internal/tower"
	"github.com/hirewire/control-tower/internal/tower/migrate"
	"github.com/hirewire/control-tower/pkg/environments"
)

func main() {
	// This is needed to make `glog` believe that the flags have already been parsed, otherwise
	// every log messages is prefixed by an error message stating the the flags haven't been
	// parsed.
	_ = flag.CommandLine.Parse([]string{})

	// Always log to stderr by default
	if err := flag.Set("logtostderr", "true"); err != nil {
		glog.Infof("Unable to set logtostderr to true")
	}

	env, err := environments.New(environments.GetEnvironmentStrFromEnv(),
		environments.ConfigProviders(),
		tower.ConfigProviders(),
	)
	if err != nil {
		glog.Fatalf("error initializing environment: %v", err)
	}
	defer env.Cleanup()

	rootCmd := &cobra.Command{
		Use:  "control-tower",
		Long: "control-tower manages workspace integration connectors, their credentials, incidents and sync state",
	}

	if err := env.AddFlags(rootCmd.PersistentFlags()); err != nil {
		glog.Fatalf("Unable to add global flags: %s", err.Error())
	}

	// All subcommands under root
	rootCmd.AddCommand(
		servecmd.NewServeCommand(env),
		migrate.NewMigrateCommand(env),
		errors.NewErrorsCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		glog.Fatalf("error running command: %v", err)
	}
}
