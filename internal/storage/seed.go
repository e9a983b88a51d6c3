package storage

import (
	"context"
	"errors"
	"fmt"

	interfaces "github.com/sheikh-saqib/funds-transfer-core/internal/interfaces"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
	"github.com/shopspring/decimal"
)

// DemoUserID owns the demo source accounts created by SeedDemo.
const DemoUserID = "demo-user"

// SeedDemo creates a small set of accounts for local development. Accounts
// that already exist are left untouched.
func SeedDemo(ctx context.Context, o Onboarding) error {
	accounts := []models.Account{
		{Number: "1000-0001", OwnerID: "0101010101", BankCode: "PICHINCHA", AccountType: "savings", OwnerName: "Ana Torres", Balance: decimal.RequireFromString("200.00")},
		{Number: "1000-0002", OwnerID: "0101010101", BankCode: "PICHINCHA", AccountType: "checking", OwnerName: "Ana Torres", Balance: decimal.RequireFromString("10.00")},
		{Number: "2000-0001", OwnerID: "0202020202", BankCode: "GUAYAQUIL", AccountType: "savings", OwnerName: "Luis Mora", Balance: decimal.RequireFromString("50.00")},
	}
	for _, acct := range accounts {
		err := o.CreateAccount(ctx, acct)
		if err != nil && !errors.Is(err, interfaces.ErrAlreadyExists) {
			return fmt.Errorf("seed account %s: %w", acct.Number, err)
		}
	}
	for _, n := range []string{"1000-0001", "1000-0002"} {
		if err := o.AssignAccount(ctx, DemoUserID, n); err != nil {
			return fmt.Errorf("seed ownership %s: %w", n, err)
		}
	}
	return nil
}
