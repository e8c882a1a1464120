package fixture

import (
	apperrors "github.com/kbukum/dbfixture/errors"
)

// Sentinels for errors.Is. Errors returned by a Fixture match exactly one
// of them.
var (
	// ErrConnection means the connection could not be opened, pinged or
	// used to begin a transaction.
	ErrConnection = apperrors.New(apperrors.ErrCodeConnectionFailed, "connection failed")
	// ErrStatement means a statement in the batch failed. The error
	// details carry statement_index and statement.
	ErrStatement = apperrors.New(apperrors.ErrCodeStatementFailed, "statement failed")
	// ErrCommit means every statement succeeded but the commit did not.
	ErrCommit = apperrors.New(apperrors.ErrCodeCommitFailed, "commit failed")
	// ErrExecution covers any other executor failure.
	ErrExecution = apperrors.New(apperrors.ErrCodeExecutionFailed, "execution failed")
)

// IsExecutionError reports whether err is one of the batch execution
// errors.
func IsExecutionError(err error) bool {
	return apperrors.IsExecutionCode(apperrors.Code(err))
}

// classify makes sure err carries an execution code and tags a copy of it
// with the batch and fixture it came from. The executor's error is never
// modified; it may be a sentinel shared by every fixture.
func classify(err error, batch Batch, name string) *apperrors.AppError {
	appErr, ok := apperrors.AsAppError(err)
	if !ok || !apperrors.IsExecutionCode(appErr.Code) {
		appErr = apperrors.ExecutionFailed(err)
	} else {
		appErr = appErr.Clone()
	}
	return appErr.WithDetail("batch", string(batch)).WithDetail("fixture", name)
}
