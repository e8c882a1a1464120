// Package validation checks configuration structs against their
// `validate` struct tags using go-playground/validator.
//
//	type Config struct {
//	    Driver string `mapstructure:"driver" validate:"required,oneof=sqlite sqlite3"`
//	}
//	err := validation.Validate(cfg)
//
// Field names in errors follow the mapstructure key path, so a failure
// reads the way the value is written in the config file ("database.dsn").
package validation
