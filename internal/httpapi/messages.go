package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sheikh-saqib/funds-transfer-core/internal/ledger"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
)

const contactWarningMessage = "The transfer was completed, but the destination could not be saved as a contact."

// view is how one failure kind is shown to the caller.
type view struct {
	status    int
	code      string
	message   string
	retryable bool
}

func describe(err error) view {
	var notFound *ledger.AccountNotFoundError
	switch {
	case errors.Is(err, ledger.ErrInvalidAmount):
		return view{http.StatusUnprocessableEntity, "invalid_amount", "Enter an amount greater than zero, in whole cents.", false}
	case errors.Is(err, ledger.ErrSameAccount):
		return view{http.StatusUnprocessableEntity, "same_account", "Source and destination accounts must be different.", false}
	case errors.As(err, &notFound):
		if notFound.Which == ledger.SideSource {
			return view{http.StatusNotFound, "source_not_found", "The selected account was not found.", false}
		}
		return view{http.StatusNotFound, "destination_not_found", "The destination account was not found.", false}
	case errors.Is(err, ledger.ErrDestinationMismatch):
		return view{http.StatusUnprocessableEntity, "destination_mismatch", "The details entered do not match our records.", false}
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return view{http.StatusUnprocessableEntity, "insufficient_funds", "Insufficient funds in the selected account.", false}
	case errors.Is(err, ledger.ErrConcurrentModification):
		return view{http.StatusConflict, "concurrent_modification", "The account changed while the transfer was processed. Try again.", true}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return view{http.StatusServiceUnavailable, "cancelled", "The request was cancelled before the transfer was made.", true}
	case errors.Is(err, ledger.ErrStorageUnavailable):
		return view{http.StatusServiceUnavailable, "storage_unavailable", "The service is temporarily unavailable. Try again later.", true}
	default:
		return view{http.StatusInternalServerError, "internal", "Something went wrong.", false}
	}
}

func destinationMessage(p models.DestinationProfile) string {
	switch {
	case p.IsOwnAccount:
		return fmt.Sprintf("Account holder: %s (one of your accounts)", p.Identity.OwnerName)
	case p.IsContact:
		return fmt.Sprintf("Account holder: %s (saved contact)", p.Identity.OwnerName)
	default:
		return fmt.Sprintf("Account holder: %s", p.Identity.OwnerName)
	}
}

func transferMessage(res models.TransferResult) string {
	msg := fmt.Sprintf("Transfer completed. Source balance: %s, destination balance: %s.",
		res.NewSourceBalance.StringFixed(2), res.NewDestinationBalance.StringFixed(2))
	if res.ContactRegistered {
		msg += " Contact saved."
	}
	return msg
}
