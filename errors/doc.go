// Package errors provides the structured error type used across dbfixture.
//
// Every failure that crosses a package boundary is an *AppError carrying a
// machine-readable ErrorCode, a human-readable message, optional details and
// the underlying cause. Two AppErrors match under errors.Is when their codes
// are equal, which lets callers compare against sentinel values:
//
//	if errors.Is(err, fixture.ErrStatement) {
//	    // a setup or teardown statement failed
//	}
package errors
