package config

// EnvName is the name of the environment the application was started with.
type EnvName string
