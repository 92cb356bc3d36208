package storage

import "errors"

// Common client storage errors
var (
	// ErrTokenNotFound indicates that no bearer token is stored
	ErrTokenNotFound = errors.New("token not found")

	// ErrRecordNotFound indicates that local record was not found
	ErrRecordNotFound = errors.New("record not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrPassphraseRequired indicates that the queue is encrypted and no passphrase was given
	ErrPassphraseRequired = errors.New("queue is encrypted, passphrase required")

	// ErrWrongPassphrase indicates that the passphrase does not match the encrypted queue
	ErrWrongPassphrase = errors.New("wrong queue passphrase")
)
