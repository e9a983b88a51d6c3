package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sheikh-saqib/funds-transfer-core/internal/ledger"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.MemoryStore) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store := memory.NewMemoryStore()
	if err := storage.SeedDemo(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	l := ledger.NewLedger(store, store, store, ledger.WithLogger(logger))

	srv := httptest.NewServer(NewRouter(l, logger))
	t.Cleanup(srv.Close)
	return srv, store
}

func userURL(srv *httptest.Server, path string) string {
	return fmt.Sprintf("%s/users/%s%s", srv.URL, storage.DemoUserID, path)
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func postTransfer(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(userURL(srv, "/transfers"), "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	decodeBody(t, resp, &body)
	if body["status"] != "ok" {
		t.Fatalf("body = %v", body)
	}
}

func TestListAccounts(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(userURL(srv, "/accounts"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var body struct {
		Accounts []models.Account `json:"accounts"`
	}
	decodeBody(t, resp, &body)
	if len(body.Accounts) != 2 || body.Accounts[0].Number != "1000-0001" {
		t.Fatalf("accounts = %+v", body.Accounts)
	}
}

func TestValidateDestination(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(userURL(srv, "/destinations/2000-0001"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body destinationResponse
	decodeBody(t, resp, &body)
	if body.Profile.Identity.OwnerName != "Luis Mora" || !body.Profile.CanAddContact {
		t.Fatalf("profile = %+v", body.Profile)
	}
	if body.Message != "Account holder: Luis Mora" {
		t.Fatalf("message = %q", body.Message)
	}

	resp, err = http.Get(userURL(srv, "/destinations/9999"))
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var failure errorResponse
	decodeBody(t, resp, &failure)
	if failure.Error.Code != "destination_not_found" {
		t.Fatalf("code = %q", failure.Error.Code)
	}
}

func TestTransfer(t *testing.T) {
	srv, store := newTestServer(t)

	resp := postTransfer(t, srv, `{
		"source_account_number": "1000-0001",
		"destination_account_number": "2000-0001",
		"amount": "100.00",
		"claimed_destination": {"owner_id": "0202020202", "bank_code": "GUAYAQUIL", "account_type": "savings", "owner_name": "Luis Mora"},
		"register_contact": true
	}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	var body transferResponse
	decodeBody(t, resp, &body)

	if body.Transfer.NewSourceBalance.StringFixed(2) != "99.50" || !body.Transfer.ContactRegistered {
		t.Fatalf("transfer = %+v", body.Transfer)
	}
	want := "Transfer completed. Source balance: 99.50, destination balance: 150.00. Contact saved."
	if body.Message != want {
		t.Fatalf("message = %q, want %q", body.Message, want)
	}
	if body.Warning != "" {
		t.Fatalf("warning = %q", body.Warning)
	}
	if n := len(store.Contacts()); n != 1 {
		t.Fatalf("contacts = %d, want 1", n)
	}
}

func TestTransferFailures(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{
			name:   "malformed body",
			body:   `{"amount": "abc"`,
			status: http.StatusBadRequest,
			code:   "invalid_body",
		},
		{
			name:   "unknown field",
			body:   `{"source_account_number": "1000-0001", "colour": "red"}`,
			status: http.StatusBadRequest,
			code:   "invalid_body",
		},
		{
			name:   "zero amount",
			body:   `{"source_account_number": "1000-0001", "destination_account_number": "2000-0001", "amount": "0"}`,
			status: http.StatusUnprocessableEntity,
			code:   "invalid_amount",
		},
		{
			name:   "huge exponent",
			body:   `{"source_account_number": "1000-0001", "destination_account_number": "2000-0001", "amount": "1e20000000"}`,
			status: http.StatusUnprocessableEntity,
			code:   "invalid_amount",
		},
		{
			name:   "fraction of a cent",
			body:   `{"source_account_number": "1000-0001", "destination_account_number": "2000-0001", "amount": "0.001"}`,
			status: http.StatusUnprocessableEntity,
			code:   "invalid_amount",
		},
		{
			name:   "insufficient funds",
			body:   `{"source_account_number": "1000-0002", "destination_account_number": "2000-0001", "amount": "20"}`,
			status: http.StatusUnprocessableEntity,
			code:   "insufficient_funds",
		},
		{
			name:   "mismatch",
			body:   `{"source_account_number": "1000-0001", "destination_account_number": "2000-0001", "amount": "1", "claimed_destination": {"owner_id": "0202020202", "bank_code": "GUAYAQUIL", "account_type": "savings", "owner_name": "Luis"}}`,
			status: http.StatusUnprocessableEntity,
			code:   "destination_mismatch",
		},
		{
			name:   "unknown source",
			body:   `{"source_account_number": "0000", "destination_account_number": "2000-0001", "amount": "1"}`,
			status: http.StatusNotFound,
			code:   "source_not_found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postTransfer(t, srv, tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var body errorResponse
			decodeBody(t, resp, &body)
			if body.Error.Code != tt.code || body.Error.Message == "" {
				t.Fatalf("error = %+v, want code %s", body.Error, tt.code)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		err       error
		status    int
		retryable bool
	}{
		{ledger.ErrConcurrentModification, http.StatusConflict, true},
		{fmt.Errorf("%w: apply: boom", ledger.ErrStorageUnavailable), http.StatusServiceUnavailable, true},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, true},
		{ledger.ErrSameAccount, http.StatusUnprocessableEntity, false},
		{&ledger.AccountNotFoundError{Which: ledger.SideDestination, Number: "x"}, http.StatusNotFound, false},
		{errors.New("unexpected"), http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		v := describe(tt.err)
		if v.status != tt.status || v.retryable != tt.retryable {
			t.Errorf("describe(%v) = %d/%v, want %d/%v", tt.err, v.status, v.retryable, tt.status, tt.retryable)
		}
	}
}

func TestDestinationMessage(t *testing.T) {
	p := models.DestinationProfile{Identity: models.Identity{OwnerName: "Ana Torres"}, IsOwnAccount: true}
	if got := destinationMessage(p); got != "Account holder: Ana Torres (one of your accounts)" {
		t.Fatalf("message = %q", got)
	}
	p = models.DestinationProfile{Identity: models.Identity{OwnerName: "Luis Mora"}, IsContact: true}
	if got := destinationMessage(p); got != "Account holder: Luis Mora (saved contact)" {
		t.Fatalf("message = %q", got)
	}
}
