package models

import "github.com/shopspring/decimal"

// ContactRecord is a cached snapshot of a previously validated destination.
// It is not a live mirror of the account balance.
type ContactRecord struct {
	AccountNumber   string          `json:"account_number"`
	BankCode        string          `json:"bank_code"`
	AccountType     string          `json:"account_type"`
	OwnerID         string          `json:"owner_id"`
	OwnerName       string          `json:"owner_name"`
	BalanceSnapshot decimal.Decimal `json:"balance_snapshot"`
}

// ContactFromAccount snapshots an account as a contact record.
func ContactFromAccount(a Account) ContactRecord {
	return ContactRecord{
		AccountNumber:   a.Number,
		BankCode:        a.BankCode,
		AccountType:     a.AccountType,
		OwnerID:         a.OwnerID,
		OwnerName:       a.OwnerName,
		BalanceSnapshot: a.Balance,
	}
}

func (c ContactRecord) Identity() Identity {
	return Identity{
		OwnerID:     c.OwnerID,
		BankCode:    c.BankCode,
		AccountType: c.AccountType,
		OwnerName:   c.OwnerName,
	}
}
