package models

import "github.com/shopspring/decimal"

// TransferRequest represents an intent to move money between two accounts.
// It is built per call and never persisted.
type TransferRequest struct {
	SourceAccountNumber      string          `json:"source_account_number"`
	DestinationAccountNumber string          `json:"destination_account_number"`
	Amount                   decimal.Decimal `json:"amount"`
	ClaimedDestination       *Identity       `json:"claimed_destination,omitempty"`
	RegisterContact          bool            `json:"register_contact"`
}

// TransferResult is the outcome of a committed transfer.
// Warning carries a non-fatal problem that happened after the funds moved.
type TransferResult struct {
	TransferID            string          `json:"transfer_id"`
	NewSourceBalance      decimal.Decimal `json:"new_source_balance"`
	NewDestinationBalance decimal.Decimal `json:"new_destination_balance"`
	Fee                   decimal.Decimal `json:"fee"`
	ContactRegistered     bool            `json:"contact_registered"`
	Warning               error           `json:"-"`
}

// TransferLegs is the input of an atomic two-account apply.
type TransferLegs struct {
	SourceNumber       string
	SourceVersion      int64
	DestinationNumber  string
	DestinationVersion int64
	Debit              decimal.Decimal
	Credit             decimal.Decimal
}

// AppliedTransfer holds the balances committed by an atomic apply.
type AppliedTransfer struct {
	NewSourceBalance      decimal.Decimal
	NewDestinationBalance decimal.Decimal
}

// DestinationProfile is what a caller sees after validating a destination.
// Contact is set when the destination is already a known contact.
type DestinationProfile struct {
	AccountNumber string         `json:"account_number"`
	Identity      Identity       `json:"identity"`
	IsContact     bool           `json:"is_contact"`
	IsOwnAccount  bool           `json:"is_own_account"`
	CanAddContact bool           `json:"can_add_contact"`
	Contact       *ContactRecord `json:"contact,omitempty"`
}
