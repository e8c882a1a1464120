package database

import (
	"context"
	"fmt"

	apperrors "github.com/kbukum/dbfixture/errors"
	"github.com/kbukum/dbfixture/logger"
)

// batchTx is the part of a transaction a batch needs.
type batchTx interface {
	Exec(ctx context.Context, statement string) error
	Commit() error
	Rollback() error
}

// runBatch executes statements in order inside tx and commits. A failing
// statement rolls back and aborts the rest; a panic rolls back and is
// re-raised.
func runBatch(ctx context.Context, tx batchTx, statements []string, log *logger.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			log.Error("Transaction rolled back due to panic", logger.Fields(
				"panic", fmt.Sprintf("%v", r),
			))
			panic(r)
		}
	}()

	for i, stmt := range statements {
		if execErr := tx.Exec(ctx, stmt); execErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Warn("Rollback failed", logger.ErrorFields("rollback", rbErr))
			}
			return apperrors.StatementFailed(i, stmt).WithCause(execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return apperrors.CommitFailed().WithCause(commitErr)
	}
	return nil
}
