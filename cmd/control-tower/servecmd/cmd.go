package servecmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/hirewire/control-tower/pkg/environments"
)

func NewServeCommand(env *environments.Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the control tower",
		Long:  "Serve the integration control tower API, metrics and health check servers.",
		Run: func(cmd *cobra.Command, args []string) {
			runServe(env)
		},
	}
	return cmd
}

func runServe(env *environments.Env) {
	if err := env.CreateServices(); err != nil {
		glog.Fatalf("Unable to initialize environment: %s", err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
		<-signals
		glog.Infoln("shutting down")
		cancel()
	}()

	// Starts all the BootService instances and blocks until the context
	// is canceled by a shutdown signal.
	env.Run(ctx)
}
