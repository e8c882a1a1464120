package database

import (
	"context"

	"gorm.io/gorm"

	apperrors "github.com/kbukum/dbfixture/errors"
	"github.com/kbukum/dbfixture/logger"
)

// DriverFunc builds the GORM dialector for a connection string.
type DriverFunc func(dsn string) gorm.Dialector

// Executor runs statement batches through GORM on a fresh connection per
// call.
type Executor struct {
	driver DriverFunc
	cfg    Config
	log    *logger.Logger
}

// NewExecutor creates an Executor. A nil log uses the global logger.
func NewExecutor(driver DriverFunc, cfg Config, log *logger.Logger) *Executor {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Executor{
		driver: driver,
		cfg:    cfg,
		log:    log.WithComponent("database"),
	}
}

// Execute opens connString, runs statements in one transaction and closes
// the connection.
func (e *Executor) Execute(ctx context.Context, connString string, statements []string) error {
	log := e.log.WithContext(ctx)
	target := e.cfg.Driver

	db, err := gorm.Open(e.driver(connString), &gorm.Config{
		Logger:                 newGormLogger(e.log, e.cfg.slowThreshold(), parseLogLevel(e.cfg.LogLevel)),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return apperrors.ConnectionFailed(target, "open").WithCause(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return apperrors.ConnectionFailed(target, "open").WithCause(err)
	}
	defer func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			log.Warn("Failed to close connection", logger.ErrorFields("close", closeErr))
		}
	}()

	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.ConnectionFailed(target, "ping").WithCause(err)
	}

	tx := db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.ConnectionFailed(target, "begin").WithCause(tx.Error)
	}

	log.Debug("Executing batch", logger.Fields(
		"dsn", RedactDSN(connString),
		logger.FieldStatements, len(statements),
	))
	return runBatch(ctx, gormTx{tx}, statements, log)
}

type gormTx struct {
	tx *gorm.DB
}

func (g gormTx) Exec(_ context.Context, statement string) error {
	return g.tx.Exec(statement).Error
}

func (g gormTx) Commit() error   { return g.tx.Commit().Error }
func (g gormTx) Rollback() error { return g.tx.Rollback().Error }
