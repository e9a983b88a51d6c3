package interfaces

import "errors"

// Errors returned by store implementations.
var (
	ErrNotFound          = errors.New("storage: record not found")
	ErrAlreadyExists     = errors.New("storage: record already exists")
	ErrConflict          = errors.New("storage: version conflict")
	ErrInsufficientFunds = errors.New("storage: insufficient funds")
)
