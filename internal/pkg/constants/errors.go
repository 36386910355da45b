package constants

import (
	"errors"
	"net/http"
)

// CodedError is an error that knows which HTTP status it maps to.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound = NewCodedError("not found in db", http.StatusNotFound)
	ErrNotFound   = NewCodedError("not found", http.StatusNotFound)
	ErrBadRequest = NewCodedError("bad request", http.StatusBadRequest)

	ErrUnauthorized      = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrMissingAuthCookie = NewCodedError("missing auth token", http.StatusUnauthorized)

	// ErrMissingDataSource means a file, sheet or table of the dataset is absent.
	ErrMissingDataSource = NewCodedError("missing data source", http.StatusServiceUnavailable)
	// ErrSchemaMismatch means a table exists but does not match the configured schema.
	ErrSchemaMismatch = NewCodedError("schema mismatch", http.StatusServiceUnavailable)

	ErrVersionConflict = NewCodedError("version conflict", http.StatusConflict)
	ErrRemoteWrite     = NewCodedError("remote write failed", http.StatusBadGateway)
	ErrRemoteRead      = NewCodedError("remote read failed", http.StatusBadGateway)

	ErrPayloadTooLarge = NewCodedError("payload too large", http.StatusRequestEntityTooLarge)
)

// IsFatalLoad reports whether a dataset load failed on the source or its schema,
// which needs an operator to fix the file before a reload can succeed.
func IsFatalLoad(err error) bool {
	return errors.Is(err, ErrMissingDataSource) || errors.Is(err, ErrSchemaMismatch)
}
