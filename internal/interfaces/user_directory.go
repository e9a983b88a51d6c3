package interfaces

import "context"

type UserDirectory interface {
	OwnsAccount(ctx context.Context, userID, accountNumber string) (bool, error)
	AccountsOf(ctx context.Context, userID string) ([]string, error)
}
