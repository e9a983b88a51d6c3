package events

import (
	"time"

	"github.com/shopspring/decimal"
)

const TopicTransferCompleted = "transfer_completed"

type TransferCompleted struct {
	TransferID         string          `json:"transfer_id"`
	SourceAccount      string          `json:"source_account"`
	DestinationAccount string          `json:"destination_account"`
	Amount             decimal.Decimal `json:"amount"`
	Fee                decimal.Decimal `json:"fee"`
	ContactRegistered  bool            `json:"contact_registered"`
	OccurredAt         time.Time       `json:"occurred_at"`
}

// Key orders events per source account on partitioned transports.
func (e TransferCompleted) Key() string {
	return e.SourceAccount
}
