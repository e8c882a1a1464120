// Package logger provides structured logging for dbfixture using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Loggers enriched with a
// context pick up the OpenTelemetry trace and span IDs of the active span.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("fixture")
//	log.Info("Fixtures inserted", logger.Fields("batch", "setup", "statements", 2))
package logger
