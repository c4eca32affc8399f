package model

import (
	"errors"
	"fmt"
)

// Sentinel error kinds shared by the tasting domain. These allow errors.Is/As from callers.
var (
	// ErrValidation marks input rejected before any state changed.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks a failed read or write of the key/value store.
	ErrPersistence = errors.New("persistence failed")
	// ErrCorrupt marks a stored payload that could not be decoded.
	ErrCorrupt = errors.New("stored payload is corrupt")

	ErrIndexOutOfRange    = fmt.Errorf("%w: question index out of range", ErrValidation)
	ErrInvalidAnswer      = fmt.Errorf("%w: answer not accepted by question", ErrValidation)
	ErrInvalidRecord      = fmt.Errorf("%w: invalid tasting record", ErrValidation)
	ErrInvalidBottleCount = fmt.Errorf("%w: bottle count out of range", ErrValidation)
)

// PersistenceError describes a failed store operation. In-memory state
// may already reflect the change that could not be persisted.
type PersistenceError struct {
	Op  string // "get", "put" or "decode"
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is reports ErrPersistence for every PersistenceError.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }
