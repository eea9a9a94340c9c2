package sentry

import (
	"os"

	"github.com/getsentry/sentry-go"
	"github.com/golang/glog"

	"github.com/hirewire/control-tower/pkg/config"
)

func Initialize(envName config.EnvName, c *config.SentryConfig) error {
	options := sentry.ClientOptions{}

	if c.Enabled {
		glog.Infof("Sentry error reporting enabled to %s on project %s", c.URL, c.Project)
		options.Dsn = c.DSN()
	} else {
		// Setting the DSN to an empty string effectively disables sentry
		// See https://godoc.org/github.com/getsentry/sentry-go#ClientOptions Dsn
		glog.Infof("Disabling Sentry error reporting")
		options.Dsn = ""
	}

	options.Transport = &sentry.HTTPTransport{
		Timeout: c.Timeout,
	}
	options.Debug = c.Debug
	options.AttachStacktrace = c.EnableStacktraces
	options.Environment = string(envName)

	hostname, err := os.Hostname()
	if err != nil && hostname != "" {
		options.ServerName = hostname
	}

	err = sentry.Init(options)
	if err != nil {
		glog.Errorf("Unable to initialize sentry integration: %s", err.Error())
		return err
	}
	return nil
}
