package domain_dax

import (
	"errors"
	"fmt"
)

var (
	// ErrParseFailure: malformed XML or a document without profiles/presets.
	// Recovered by falling back to DefaultModel.
	ErrParseFailure = errors.New("parse failure")
	// ErrIoFailure: a host file operation returned non-zero.
	ErrIoFailure = errors.New("io failure")
	// ErrNotFound: backup key absent.
	ErrNotFound = errors.New("not found")
	// ErrCorrupt: backup payload undecodable or without content.
	ErrCorrupt = errors.New("corrupt")
	// ErrSaveAmbiguous: the write went through but the confirming reload failed.
	ErrSaveAmbiguous = errors.New("save ambiguous")
	// ErrInvalidArgument: caller passed an out-of-contract value.
	ErrInvalidArgument = errors.New("invalid argument")
)

// OperationError is what the service reports to its caller: a label naming
// the failed operation, the raw detail text and the taxonomy error.
type OperationError struct {
	Label  string
	Detail string
	Err    error
}

func (e *OperationError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Label, e.Err)
	}
	return fmt.Sprintf("%s: %v: %s", e.Label, e.Err, e.Detail)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

func NewOperationError(label string, kind error, detail string) *OperationError {
	return &OperationError{Label: label, Detail: detail, Err: kind}
}

// ParseError carries the parser's own message for a ParseFailure.
type ParseError struct {
	Detail string
	Cause  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s", ErrParseFailure, e.Detail)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParseFailure
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
