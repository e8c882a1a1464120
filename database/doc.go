// Package database runs fixture statement batches against a database.
//
// Both executors follow the same algorithm: open a fresh connection from
// the connection string, ping it, begin a transaction, execute each
// statement in order, commit, and close the connection on every exit
// path. A failing statement aborts the batch and rolls the transaction
// back. Failures are reported as *errors.AppError with the
// CONNECTION_FAILED, STATEMENT_FAILED or COMMIT_FAILED code.
//
// Executor goes through GORM and takes the dialector as a DriverFunc, so
// the package stays driver-agnostic:
//
//	exec := database.NewExecutor(func(dsn string) gorm.Dialector {
//	    return sqlite.Open(dsn)
//	}, database.Config{Driver: "sqlite"}, log)
//
// SQLExecutor uses database/sql with any registered driver name.
//
// # Subpackages
//
//   - sqlite: SQLite connection strings, file-backed fixture sources
//   - testutil: assertions for database-dependent tests
package database
