package interfaces

import (
	"context"

	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
)

// AccountStore is the durable account state. ApplyTransferAtomic is the only
// path that mutates a balance.
type AccountStore interface {
	LookupByNumber(ctx context.Context, number string) (models.Account, error)
	// ApplyTransferAtomic commits both legs or neither. It returns ErrNotFound,
	// ErrConflict when a presented version is stale, or ErrInsufficientFunds.
	ApplyTransferAtomic(ctx context.Context, legs models.TransferLegs) (models.AppliedTransfer, error)
}
