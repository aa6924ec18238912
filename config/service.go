package config

import (
	"fmt"

	"github.com/kbukum/httpkit/errors"
	"github.com/kbukum/httpkit/httpclient"
	"github.com/kbukum/httpkit/logger"
)

// ServiceConfig is the configuration of a program that issues HTTP calls
// through httpkit. Projects extend it by embedding it in their own structs.
//
//	type MyConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    GitHubToken string  `yaml:"github_token" mapstructure:"github_token"`
//	}
type ServiceConfig struct {
	Name        string            `yaml:"name" mapstructure:"name"`
	Environment string            `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config     `yaml:"logging" mapstructure:"logging"`
	HTTPClient  httpclient.Config `yaml:"httpclient" mapstructure:"httpclient"`
}

// GetServiceConfig returns the base ServiceConfig.
func (c *ServiceConfig) GetServiceConfig() *ServiceConfig {
	return c
}

// ApplyDefaults applies default values to every section.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.HTTPClient.Name == "" && c.Name != "" {
		c.HTTPClient.Name = c.Name
	}
	c.Logging.ApplyDefaults()
	c.HTTPClient.ApplyDefaults()
}

// Validate validates every section.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return errors.MissingField("name")
	}
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return errors.InvalidConfig("environment", fmt.Sprintf("must be one of %v (got: %s)", validEnvs, c.Environment))
	}
	if err := c.Logging.Validate(); err != nil {
		return errors.InvalidConfig("logging", err.Error()).WithCause(err)
	}
	if err := c.HTTPClient.Validate(); err != nil {
		return fmt.Errorf("config.httpclient: %w", err)
	}
	return nil
}

// Load reads the configuration for serviceName, applies defaults and
// validates it.
func Load(serviceName string, opts ...LoaderOption) (*ServiceConfig, error) {
	var cfg ServiceConfig
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
