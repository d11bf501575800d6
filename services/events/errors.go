package events

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter marks malformed query input (coordinates, radius, count, window).
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrQueryExecution marks a failure reading the backing store.
	ErrQueryExecution = errors.New("query execution failure")
)

// QueryExecutionError wraps the store error that aborted a query.
type QueryExecutionError struct {
	Err error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("%s: %v", ErrQueryExecution, e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

func (e *QueryExecutionError) Is(target error) bool { return target == ErrQueryExecution }

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}
