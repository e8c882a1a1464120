package database

import (
	"fmt"
	"time"

	"github.com/kbukum/dbfixture/validation"
)

// Config configures statement execution.
type Config struct {
	// Driver names the database driver, e.g. "sqlite". It is used for
	// driver selection and error messages.
	Driver string `mapstructure:"driver" validate:"required"`

	// DSN is the default connection string.
	DSN string `mapstructure:"dsn"`

	// LogLevel is the GORM log level: silent, error, warn or info.
	LogLevel string `mapstructure:"log_level" validate:"omitempty,oneof=silent error warn info"`

	// SlowQueryThreshold is the duration above which statements are logged as slow (e.g. "200ms").
	SlowQueryThreshold string `mapstructure:"slow_query_threshold"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Driver == "" {
		c.Driver = "sqlite"
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.SlowQueryThreshold == "" {
		c.SlowQueryThreshold = "200ms"
	}
}

// Validate checks that required fields are present and parseable.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.SlowQueryThreshold != "" {
		if _, err := time.ParseDuration(c.SlowQueryThreshold); err != nil {
			return fmt.Errorf("invalid slow_query_threshold %q: %w", c.SlowQueryThreshold, err)
		}
	}
	return nil
}

func (c *Config) slowThreshold() time.Duration {
	d, err := time.ParseDuration(c.SlowQueryThreshold)
	if err != nil {
		return 200 * time.Millisecond
	}
	return d
}
