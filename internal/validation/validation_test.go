package validation

import (
	"reflect"
	"testing"

	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
	"github.com/shopspring/decimal"
)

func testAccount() models.Account {
	return models.Account{
		Number:      "2200-01",
		OwnerID:     "0912345678",
		BankCode:    "PICHINCHA",
		AccountType: "savings",
		OwnerName:   "Maria Lopez",
		Balance:     decimal.RequireFromString("50.00"),
		Version:     4,
	}
}

func TestMatches(t *testing.T) {
	acct := testAccount()

	tests := []struct {
		name    string
		claimed models.Identity
		want    bool
		fields  []string
	}{
		{
			name:    "exact match",
			claimed: acct.Identity(),
			want:    true,
		},
		{
			name: "owner name differs",
			claimed: models.Identity{
				OwnerID:     acct.OwnerID,
				BankCode:    acct.BankCode,
				AccountType: acct.AccountType,
				OwnerName:   "Maria L.",
			},
			fields: []string{"owner_name"},
		},
		{
			name: "comparison is case sensitive",
			claimed: models.Identity{
				OwnerID:     acct.OwnerID,
				BankCode:    "pichincha",
				AccountType: acct.AccountType,
				OwnerName:   acct.OwnerName,
			},
			fields: []string{"bank_code"},
		},
		{
			name:    "empty claim",
			claimed: models.Identity{},
			fields:  []string{"owner_id", "bank_code", "account_type", "owner_name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Matches(tt.claimed, acct); got != tt.want {
				t.Fatalf("Matches() = %v, want %v", got, tt.want)
			}
			if got := Mismatches(tt.claimed, acct); !reflect.DeepEqual(got, tt.fields) {
				t.Fatalf("Mismatches() = %v, want %v", got, tt.fields)
			}
		})
	}
}

func TestMatchesIgnoresBalanceAndVersion(t *testing.T) {
	acct := testAccount()
	claimed := acct.Identity()

	acct.Balance = decimal.RequireFromString("999.99")
	acct.Version = 42

	if !Matches(claimed, acct) {
		t.Fatal("expected balance and version to be ignored")
	}
}
