package environments

// The development environment is intended for use while developing features, requiring manual verification
func newDevelopmentEnvLoader() EnvLoader {
	return SimpleEnvLoader{
		"v":                      "10",
		"enable-https":           "false",
		"enable-metrics-https":   "false",
		"api-server-bindaddress": "localhost:8000",
		"enable-sentry":          "false",
		"enable-auth":            "true",
		"enable-db-debug":        "true",
	}
}
