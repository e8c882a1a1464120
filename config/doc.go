// Package config loads command configuration with Viper.
//
// LoadConfig reads a YAML file (found in standard locations or given
// with WithConfigFile), loads a .env file into the environment, and lets
// environment variables override file values. UPPER_SNAKE variable names
// are bound to every nested key they could mean, so DATABASE_DSN sets
// database.dsn:
//
//	var cfg Config
//	err := config.LoadConfig("fixturectl", &cfg, config.WithEnvPrefix("FIXTURECTL"))
package config
