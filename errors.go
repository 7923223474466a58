package qtempo

import (
	"errors"
	"fmt"
)

// ErrFieldNotFound is returned by FieldSet lookups when no field matches.
var ErrFieldNotFound = errors.New("field not found")

// ParseError reports a value that does not match the SIRUTA
// "<code> <name>" format.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("cannot parse SIRUTA code from %q", e.Input)
}

// MalformedResponseError reports a tabular or JSON API payload whose shape
// does not match what the endpoint documents. It is fatal for the whole
// response; partial matrices are not meaningful.
type MalformedResponseError struct {
	// Line is the 1-based line number within a delimited payload,
	// or 0 when the error is not tied to a specific line.
	Line   int
	Reason string
}

func (e *MalformedResponseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed response: line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed response: %s", e.Reason)
}

// PreconditionError reports an operation invoked on a value that does not
// satisfy the operation's contract, e.g. a pivot on a matrix without a
// geography column. It signals a caller defect, not bad input data.
type PreconditionError struct {
	Op     string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// ServiceError reports a boundary provider failure: an empty payload, a
// payload missing the join field, or a transport error. It is recoverable
// at the caller level by retrying later.
type ServiceError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to fetch data from %s: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("failed to fetch data from %s: %s", e.Provider, e.Reason)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}
