package environments

// The production environment is the profile deployed clusters run with.
func newProductionEnvLoader() EnvLoader {
	return SimpleEnvLoader{
		"v":                      "1",
		"enable-https":           "true",
		"enable-metrics-https":   "false",
		"api-server-bindaddress": "0.0.0.0:8000",
		"enable-sentry":          "true",
		"enable-auth":            "true",
	}
}
