package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy shared across packages. Callers
// classify with errors.Is; the original cause stays reachable through the
// wrap chain.
var (
	// ErrAuthRequired is returned when an operation needs an owner id and
	// none is present.
	ErrAuthRequired = errors.New("authentication required")

	// ErrInvalidRecord marks malformed or out-of-domain input.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrNotFound is returned when a referenced record does not exist.
	// An empty result set is not ErrNotFound.
	ErrNotFound = errors.New("not found")

	// ErrExternalService marks failures of the generative reasoning service,
	// including timeouts and empty streams.
	ErrExternalService = errors.New("external service failure")

	// ErrStore marks read/write failures of the record store.
	ErrStore = errors.New("record store failure")
)

// InvalidRecordError reports which field of a record failed validation.
// It unwraps to ErrInvalidRecord.
type InvalidRecordError struct {
	Field  string
	Reason string
}

func (e *InvalidRecordError) Error() string {
	return fmt.Sprintf("invalid record: %s: %s", e.Field, e.Reason)
}

func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidRecord
}
