package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Execution errors raised while running a statement batch.
const (
	// ErrCodeConnectionFailed indicates the connection could not be opened,
	// verified or could not start a transaction.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeStatementFailed indicates a statement of a batch failed.
	ErrCodeStatementFailed ErrorCode = "STATEMENT_FAILED"
	// ErrCodeCommitFailed indicates the batch transaction could not be committed.
	ErrCodeCommitFailed ErrorCode = "COMMIT_FAILED"
	// ErrCodeExecutionFailed indicates a batch failed for any other reason.
	ErrCodeExecutionFailed ErrorCode = "EXECUTION_FAILED"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var executionCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeStatementFailed:  true,
	ErrCodeCommitFailed:     true,
	ErrCodeExecutionFailed:  true,
}

// IsExecutionCode returns true if the code belongs to the batch execution family.
func IsExecutionCode(code ErrorCode) bool {
	return executionCodes[code]
}
