package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/hirewire/control-tower/pkg/shared"
)

type SentryConfig struct {
	Enabled           bool          `json:"enabled"`
	Key               string        `json:"key"`
	URL               string        `json:"url"`
	Project           string        `json:"project"`
	Debug             bool          `json:"debug"`
	EnableStacktraces bool          `json:"enable_stacktraces"`
	Timeout           time.Duration `json:"timeout"`

	KeyFile string `json:"key_file"`
}

func NewSentryConfig() *SentryConfig {
	return &SentryConfig{
		Enabled:           false,
		Debug:             false,
		EnableStacktraces: true,
		Timeout:           5 * time.Second,
		KeyFile:           "secrets/sentry.key",
	}
}

func (c *SentryConfig) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&c.Enabled, "enable-sentry", c.Enabled, "Enable sentry error monitoring")
	fs.StringVar(&c.KeyFile, "sentry-key-file", c.KeyFile, "File containing the sentry key")
	fs.StringVar(&c.URL, "sentry-url", c.URL, "Base URL of the sentry server")
	fs.StringVar(&c.Project, "sentry-project", c.Project, "Sentry project id")
	fs.BoolVar(&c.Debug, "enable-sentry-debug", c.Debug, "Enable sentry debug logging")
	fs.DurationVar(&c.Timeout, "sentry-timeout", c.Timeout, "Timeout for all requests made to sentry")
}

func (c *SentryConfig) ReadFiles() error {
	if !c.Enabled {
		return nil
	}
	return shared.ReadFileValueString(c.KeyFile, &c.Key)
}

// DSN returns the sentry connection string assembled from the key, url and
// project settings.
func (c *SentryConfig) DSN() string {
	return fmt.Sprintf("https://%s@%s/%s", c.Key, c.URL, c.Project)
}
