package models

import "github.com/shopspring/decimal"

// Account is the persisted state of a bank account.
// Version is the optimistic concurrency token; it is incremented on every
// balance mutation and must be presented back on write.
type Account struct {
	Number      string          `json:"number"`
	OwnerID     string          `json:"owner_id"`
	BankCode    string          `json:"bank_code"`
	AccountType string          `json:"account_type"`
	OwnerName   string          `json:"owner_name"`
	Balance     decimal.Decimal `json:"balance"`
	Version     int64           `json:"version"`
}

// Identity returns the identity attributes a transfer claim is checked against.
func (a Account) Identity() Identity {
	return Identity{
		OwnerID:     a.OwnerID,
		BankCode:    a.BankCode,
		AccountType: a.AccountType,
		OwnerName:   a.OwnerName,
	}
}

// Identity is the set of attributes that identify the holder of an account.
type Identity struct {
	OwnerID     string `json:"owner_id"`
	BankCode    string `json:"bank_code"`
	AccountType string `json:"account_type"`
	OwnerName   string `json:"owner_name"`
}
