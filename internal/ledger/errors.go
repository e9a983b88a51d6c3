package ledger

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrInvalidAmount          = errors.New("ledger: amount must be a positive number of whole cents")
	ErrSameAccount            = errors.New("ledger: source and destination accounts must differ")
	ErrAccountNotFound        = errors.New("ledger: account not found")
	ErrDestinationMismatch    = errors.New("ledger: destination details do not match the account record")
	ErrInsufficientFunds      = errors.New("ledger: insufficient funds")
	ErrConcurrentModification = errors.New("ledger: account was modified concurrently")
	ErrStorageUnavailable     = errors.New("ledger: storage unavailable")

	// ErrContactRegistrationFailed is only ever reported through
	// TransferResult.Warning; the transfer itself has been committed.
	ErrContactRegistrationFailed = errors.New("ledger: contact registration failed")
)

// Side names one account of a transfer.
type Side string

const (
	SideSource      Side = "source"
	SideDestination Side = "destination"
)

// AccountNotFoundError reports which account of a transfer is unknown.
// It matches ErrAccountNotFound with errors.Is.
type AccountNotFoundError struct {
	Which  Side
	Number string
}

func (e *AccountNotFoundError) Error() string {
	return fmt.Sprintf("ledger: %s account %q not found", e.Which, e.Number)
}

func (e *AccountNotFoundError) Is(target error) bool {
	return target == ErrAccountNotFound
}

// IsRetryable reports whether the caller may retry the whole operation with a
// fresh read.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentModification) || errors.Is(err, ErrStorageUnavailable)
}

// storageError wraps an infrastructure failure. Context errors pass through
// untouched so callers can tell cancellation from an outage.
func storageError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", ErrStorageUnavailable, op, err)
}
