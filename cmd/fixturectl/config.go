package main

import (
	"github.com/kbukum/dbfixture/config"
	"github.com/kbukum/dbfixture/database"
	apperrors "github.com/kbukum/dbfixture/errors"
	"github.com/kbukum/dbfixture/observability"
	"github.com/kbukum/dbfixture/validation"
)

const serviceName = "fixturectl"

// Config is the fixturectl.yml layout.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
	Database             database.Config      `yaml:"database" mapstructure:"database"`
	Fixtures             FixturesConfig       `yaml:"fixtures" mapstructure:"fixtures"`
	Observability        observability.Config `yaml:"observability" mapstructure:"observability"`
}

// FixturesConfig locates the fixture files.
type FixturesConfig struct {
	// Dir holds N_name.up.sql and N_name.down.sql files.
	Dir string `yaml:"dir" mapstructure:"dir" validate:"required,dir"`
	// Split executes every statement of a file separately.
	Split bool `yaml:"split" mapstructure:"split"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Database.ApplyDefaults()
	if c.Fixtures.Dir == "" {
		c.Fixtures.Dir = "./fixtures"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = c.Name
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if c.Database.DSN == "" {
		return apperrors.MissingField("database.dsn")
	}
	if err := validation.Validate(&c.Fixtures); err != nil {
		return err
	}
	return validation.Validate(&c.Observability)
}
