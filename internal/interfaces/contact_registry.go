package interfaces

import (
	"context"

	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
)

type ContactRegistry interface {
	Exists(ctx context.Context, accountNumber string) (bool, error)
	Get(ctx context.Context, accountNumber string) (models.ContactRecord, error)
	// Add returns ErrAlreadyExists if the account number is already registered.
	Add(ctx context.Context, record models.ContactRecord) error
}
