package updater

import "fmt"

// Code classifies updater failures. API handlers map codes to status codes.
type Code string

// Failure codes.
const (
	CodeInvalidState   Code = "INVALID_STATE"
	CodeCheckFailed    Code = "CHECK_FAILED"
	CodeNotFound       Code = "NOT_FOUND"
	CodeNoUpdate       Code = "NO_UPDATE"
	CodeApplyFailed    Code = "APPLY_FAILED"
	CodeBackupFailed   Code = "BACKUP_FAILED"
	CodeRollbackFailed Code = "ROLLBACK_FAILED"
	CodeNoBackup       Code = "NO_BACKUP"
	CodeDisabled       Code = "DISABLED"
)

// Sentinels for errors.Is. Any *Error with the same code matches.
var (
	ErrInvalidState = &Error{Code: CodeInvalidState}
	ErrNotFound     = &Error{Code: CodeNotFound}
	ErrNoUpdate     = &Error{Code: CodeNoUpdate}
	ErrNoBackup     = &Error{Code: CodeNoBackup}
	ErrDisabled     = &Error{Code: CodeDisabled}
)

// Error is an updater failure with its code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

func fail(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}
