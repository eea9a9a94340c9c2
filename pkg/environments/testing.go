package environments

// The testing environment is intended for use by integration tests, everything
// runs against a throwaway database without sentry.
func newTestingEnvLoader() EnvLoader {
	return SimpleEnvLoader{
		"v":                    "0",
		"logtostderr":          "true",
		"enable-https":         "false",
		"enable-metrics-https": "false",
		"enable-sentry":        "false",
		"enable-auth":          "false",
	}
}
