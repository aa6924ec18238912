// Package config loads httpkit configuration with Viper.
//
// Values come from a YAML file and are overridden by environment variables,
// optionally seeded from a .env file (godotenv). Nested keys are matched by
// underscore-separated upper-case names, e.g. HTTPCLIENT_TIMEOUT overrides
// httpclient.timeout.
//
// # Usage
//
//	var cfg config.ServiceConfig
//	err := config.LoadConfig("github-client", &cfg)
package config
