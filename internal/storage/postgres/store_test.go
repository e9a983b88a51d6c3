package postgres

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"

	interfaces "github.com/sheikh-saqib/funds-transfer-core/internal/interfaces"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// openTestStore connects to TEST_DATABASE_URL and empties the tables.
// Tests are skipped when no database is configured.
func openTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	store, err := Open(context.Background(), url)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if _, err := store.db.Exec(`TRUNCATE accounts, contacts, user_accounts`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return store
}

func seedAccount(t *testing.T, store *PostgresStore, number, balance string) {
	t.Helper()
	err := store.CreateAccount(context.Background(), models.Account{
		Number:      number,
		OwnerID:     "id-" + number,
		BankCode:    "BANK",
		AccountType: "checking",
		OwnerName:   "Owner " + number,
		Balance:     dec(balance),
	})
	if err != nil {
		t.Fatalf("create account %s: %v", number, err)
	}
}

func TestApplyTransferAtomic(t *testing.T) {
	store := openTestStore(t)
	seedAccount(t, store, "A", "200.00")
	seedAccount(t, store, "B", "50.00")

	applied, err := store.ApplyTransferAtomic(context.Background(), models.TransferLegs{
		SourceNumber:      "A",
		DestinationNumber: "B",
		Debit:             dec("100.50"),
		Credit:            dec("100.00"),
	})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if !applied.NewSourceBalance.Equal(dec("99.50")) || !applied.NewDestinationBalance.Equal(dec("150.00")) {
		t.Fatalf("applied = %+v", applied)
	}

	a, err := store.LookupByNumber(context.Background(), "A")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if a.Version != 1 || !a.Balance.Equal(dec("99.50")) {
		t.Fatalf("source = %+v", a)
	}
}

func TestApplyTransferAtomicErrors(t *testing.T) {
	store := openTestStore(t)
	seedAccount(t, store, "A", "10.00")
	seedAccount(t, store, "B", "0")

	tests := []struct {
		name string
		legs models.TransferLegs
		want error
	}{
		{
			name: "unknown destination",
			legs: models.TransferLegs{SourceNumber: "A", DestinationNumber: "Z", Debit: dec("1"), Credit: dec("1")},
			want: interfaces.ErrNotFound,
		},
		{
			name: "stale version",
			legs: models.TransferLegs{SourceNumber: "A", SourceVersion: 9, DestinationNumber: "B", Debit: dec("1"), Credit: dec("1")},
			want: interfaces.ErrConflict,
		},
		{
			name: "overdraft",
			legs: models.TransferLegs{SourceNumber: "A", DestinationNumber: "B", Debit: dec("20.50"), Credit: dec("20")},
			want: interfaces.ErrInsufficientFunds,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.ApplyTransferAtomic(context.Background(), tt.legs)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	a, _ := store.LookupByNumber(context.Background(), "A")
	if !a.Balance.Equal(dec("10")) || a.Version != 0 {
		t.Fatalf("source mutated: %+v", a)
	}
}

func TestApplyTransferAtomicRace(t *testing.T) {
	store := openTestStore(t)
	seedAccount(t, store, "A", "100")
	seedAccount(t, store, "B", "0")
	seedAccount(t, store, "C", "0")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, dest := range []string{"B", "C"} {
		wg.Add(1)
		go func(i int, dest string) {
			defer wg.Done()
			_, errs[i] = store.ApplyTransferAtomic(context.Background(), models.TransferLegs{
				SourceNumber:      "A",
				DestinationNumber: dest,
				Debit:             dec("80"),
				Credit:            dec("79.50"),
			})
		}(i, dest)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, interfaces.ErrConflict) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Fatalf("successes = %d, want 1", succeeded)
	}
}

func TestContactsAndDirectory(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	rec := models.ContactRecord{AccountNumber: "B", BankCode: "BANK", AccountType: "checking", OwnerID: "id-B", OwnerName: "Owner B", BalanceSnapshot: dec("150")}
	if err := store.Add(ctx, rec); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Add(ctx, rec); !errors.Is(err, interfaces.ErrAlreadyExists) {
		t.Fatalf("duplicate err = %v, want ErrAlreadyExists", err)
	}
	if exists, err := store.Exists(ctx, "B"); err != nil || !exists {
		t.Fatalf("exists = %v, %v", exists, err)
	}

	if err := store.AssignAccount(ctx, "user-1", "A"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if owns, err := store.OwnsAccount(ctx, "user-1", "A"); err != nil || !owns {
		t.Fatalf("owns = %v, %v", owns, err)
	}
}

func TestRejectsEmptyAccountNumber(t *testing.T) {
	// validation runs before the database is touched
	store := NewPostgresStore(nil)
	ctx := context.Background()

	if err := store.CreateAccount(ctx, models.Account{Number: "  ", Balance: dec("1")}); err == nil {
		t.Fatal("expected error for empty account number")
	}
	if err := store.Add(ctx, models.ContactRecord{}); err == nil {
		t.Fatal("expected error for empty contact account number")
	}
}
