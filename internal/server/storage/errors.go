package storage

import "errors"

// Common storage errors
var (
	// ErrRecordNotFound indicates that record was not found in storage
	ErrRecordNotFound = errors.New("record not found")

	// ErrVersionConflict indicates that record was changed concurrently
	// and the expected version no longer matches
	ErrVersionConflict = errors.New("record version conflict")

	// ErrOperationNotFound indicates that operation status was not found
	ErrOperationNotFound = errors.New("operation not found")
)
