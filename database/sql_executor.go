package database

import (
	"context"
	"database/sql"

	apperrors "github.com/kbukum/dbfixture/errors"
	"github.com/kbukum/dbfixture/logger"
)

// SQLExecutor runs statement batches through database/sql with a
// registered driver, without GORM.
type SQLExecutor struct {
	driverName string
	log        *logger.Logger
}

// NewSQLExecutor creates an SQLExecutor for driverName, e.g. "sqlite3".
// A nil log uses the global logger.
func NewSQLExecutor(driverName string, log *logger.Logger) *SQLExecutor {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &SQLExecutor{
		driverName: driverName,
		log:        log.WithComponent("database"),
	}
}

// Execute opens connString, runs statements in one transaction and closes
// the connection.
func (e *SQLExecutor) Execute(ctx context.Context, connString string, statements []string) error {
	log := e.log.WithContext(ctx)

	db, err := sql.Open(e.driverName, connString)
	if err != nil {
		return apperrors.ConnectionFailed(e.driverName, "open").WithCause(err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn("Failed to close connection", logger.ErrorFields("close", closeErr))
		}
	}()

	if err := db.PingContext(ctx); err != nil {
		return apperrors.ConnectionFailed(e.driverName, "ping").WithCause(err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.ConnectionFailed(e.driverName, "begin").WithCause(err)
	}

	log.Debug("Executing batch", logger.Fields(
		"dsn", RedactDSN(connString),
		logger.FieldStatements, len(statements),
	))
	return runBatch(ctx, sqlTx{tx}, statements, log)
}

type sqlTx struct {
	tx *sql.Tx
}

func (s sqlTx) Exec(ctx context.Context, statement string) error {
	_, err := s.tx.ExecContext(ctx, statement)
	return err
}

func (s sqlTx) Commit() error   { return s.tx.Commit() }
func (s sqlTx) Rollback() error { return s.tx.Rollback() }
