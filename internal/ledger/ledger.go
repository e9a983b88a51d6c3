package ledger

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	interfaces "github.com/sheikh-saqib/funds-transfer-core/internal/interfaces"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models/events"
	"github.com/sheikh-saqib/funds-transfer-core/internal/validation"
)

// Fee is charged to the source account on every transfer. It is debited but
// not credited to any account.
var Fee = decimal.New(50, -2)

const (
	DefaultMaxAttempts   = 3
	DefaultRetryInterval = 20 * time.Millisecond

	// amounts are whole cents below 10^maxAmountDigits
	amountScale     = 2
	maxAmountDigits = 15

	publishTimeout = 5 * time.Second
	tracerName     = "github.com/sheikh-saqib/funds-transfer-core/internal/ledger"
)

// Ledger orchestrates destination validation and funds transfers.
// It keeps no state between calls; all shared state lives in the stores.
type Ledger struct {
	accounts interfaces.AccountStore
	contacts interfaces.ContactRegistry
	users    interfaces.UserDirectory
	events   interfaces.EventPublisher

	logger *slog.Logger
	tracer trace.Tracer

	maxAttempts   uint
	retryInterval time.Duration
	now           func() time.Time
}

type Option func(*Ledger)

// WithPublisher sets where TransferCompleted events go. Without it no events
// are published.
func WithPublisher(p interfaces.EventPublisher) Option {
	return func(l *Ledger) { l.events = p }
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) { l.logger = logger }
}

// WithMaxAttempts bounds how many read-validate-apply rounds a transfer gets
// when the store keeps reporting version conflicts.
func WithMaxAttempts(n uint) Option {
	return func(l *Ledger) {
		if n > 0 {
			l.maxAttempts = n
		}
	}
}

func WithRetryInterval(d time.Duration) Option {
	return func(l *Ledger) { l.retryInterval = d }
}

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// NewLedger creates a Ledger on top of the given stores.
func NewLedger(accounts interfaces.AccountStore, contacts interfaces.ContactRegistry, users interfaces.UserDirectory, opts ...Option) *Ledger {
	l := &Ledger{
		accounts:      accounts,
		contacts:      contacts,
		users:         users,
		logger:        slog.Default(),
		tracer:        otel.Tracer(tracerName),
		maxAttempts:   DefaultMaxAttempts,
		retryInterval: DefaultRetryInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ValidateDestination looks up the destination account and reports whether it
// is already a contact or one of the caller's own accounts. It never mutates
// anything.
func (l *Ledger) ValidateDestination(ctx context.Context, destinationNumber, userID string) (models.DestinationProfile, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.ValidateDestination",
		trace.WithAttributes(attribute.String("destination", destinationNumber)))
	defer span.End()

	acct, err := l.accounts.LookupByNumber(ctx, destinationNumber)
	if err != nil {
		err = lookupError(SideDestination, destinationNumber, err)
		recordError(span, err)
		return models.DestinationProfile{}, err
	}

	var isContact, isOwn bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		isContact, err = l.contacts.Exists(gctx, destinationNumber)
		if err != nil {
			return storageError("contact exists", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		isOwn, err = l.users.OwnsAccount(gctx, userID, destinationNumber)
		if err != nil {
			return storageError("owns account", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		recordError(span, err)
		return models.DestinationProfile{}, err
	}

	profile := models.DestinationProfile{
		AccountNumber: acct.Number,
		Identity:      acct.Identity(),
		IsContact:     isContact,
		IsOwnAccount:  isOwn,
		CanAddContact: !isContact && !isOwn,
	}
	if isContact {
		contact, err := l.contacts.Get(ctx, destinationNumber)
		switch {
		case err == nil:
			profile.Contact = &contact
		case errors.Is(err, interfaces.ErrNotFound):
			// removed between Exists and Get
			profile.IsContact = false
			profile.CanAddContact = !isOwn
		default:
			err = storageError("get contact", err)
			recordError(span, err)
			return models.DestinationProfile{}, err
		}
	}
	return profile, nil
}

// ListAccounts returns the accounts owned by userID with their current
// balances. Numbers the directory knows but the account store does not are
// skipped.
func (l *Ledger) ListAccounts(ctx context.Context, userID string) ([]models.Account, error) {
	ctx, span := l.tracer.Start(ctx, "ledger.ListAccounts")
	defer span.End()

	numbers, err := l.users.AccountsOf(ctx, userID)
	if err != nil {
		err = storageError("accounts of user", err)
		recordError(span, err)
		return nil, err
	}

	accounts := make([]models.Account, 0, len(numbers))
	for _, n := range numbers {
		acct, err := l.accounts.LookupByNumber(ctx, n)
		if errors.Is(err, interfaces.ErrNotFound) {
			l.logger.Warn("directory references unknown account", "user_id", userID, "account", n)
			continue
		}
		if err != nil {
			err = storageError("lookup account", err)
			recordError(span, err)
			return nil, err
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// Transfer moves req.Amount from the source to the destination and charges
// Fee to the source. Either both balances change or neither does.
//
// Version conflicts are retried from a fresh read up to the configured number
// of attempts. Cancelling ctx has no effect once the atomic apply has been
// issued. A failed contact registration is reported in the result's Warning
// and does not undo the transfer.
func (l *Ledger) Transfer(ctx context.Context, req models.TransferRequest, userID string) (models.TransferResult, error) {
	r := &run{
		id:     uuid.NewString(),
		state:  StateIdle,
		logger: l.logger,
	}
	ctx, span := l.tracer.Start(ctx, "ledger.Transfer", trace.WithAttributes(
		attribute.String("transfer_id", r.id),
		attribute.String("source", req.SourceAccountNumber),
		attribute.String("destination", req.DestinationAccountNumber),
	))
	defer span.End()

	fail := func(err error) (models.TransferResult, error) {
		r.moveTo(StateFailed)
		recordError(span, err)
		l.logger.Info("transfer rejected",
			"transfer_id", r.id,
			"source", req.SourceAccountNumber,
			"destination", req.DestinationAccountNumber,
			"error", err,
		)
		return models.TransferResult{}, err
	}

	if !validAmount(req.Amount) {
		return fail(ErrInvalidAmount)
	}
	if req.SourceAccountNumber == req.DestinationAccountNumber {
		return fail(ErrSameAccount)
	}
	totalDebit := req.Amount.Add(Fee)

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = l.retryInterval

	out, err := backoff.Retry(ctx, func() (attemptOutcome, error) {
		out, err := l.attempt(ctx, r, req, totalDebit)
		if err == nil || errors.Is(err, interfaces.ErrConflict) {
			return out, err
		}
		return out, backoff.Permanent(err)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(l.maxAttempts))
	if err != nil {
		var permanent *backoff.PermanentError
		if errors.As(err, &permanent) {
			err = permanent.Err
		}
		if errors.Is(err, interfaces.ErrConflict) {
			err = ErrConcurrentModification
		}
		return fail(err)
	}
	r.moveTo(StateCompleted)

	result := models.TransferResult{
		TransferID:            r.id,
		NewSourceBalance:      out.applied.NewSourceBalance,
		NewDestinationBalance: out.applied.NewDestinationBalance,
		Fee:                   Fee,
	}
	l.logger.Info("transfer completed",
		"transfer_id", r.id,
		"source", req.SourceAccountNumber,
		"destination", req.DestinationAccountNumber,
		"amount", req.Amount.String(),
		"fee", Fee.String(),
	)

	if req.RegisterContact {
		snapshot := models.ContactFromAccount(out.destination)
		snapshot.BalanceSnapshot = out.applied.NewDestinationBalance
		result.ContactRegistered, result.Warning = l.registerContact(ctx, userID, snapshot)
		if result.Warning != nil {
			span.AddEvent("contact registration failed")
			l.logger.Warn("contact registration failed",
				"transfer_id", r.id,
				"destination", req.DestinationAccountNumber,
				"error", result.Warning,
			)
		}
	}

	l.publish(ctx, events.TransferCompleted{
		TransferID:         r.id,
		SourceAccount:      req.SourceAccountNumber,
		DestinationAccount: req.DestinationAccountNumber,
		Amount:             req.Amount,
		Fee:                Fee,
		ContactRegistered:  result.ContactRegistered,
		OccurredAt:         l.now().UTC(),
	})
	return result, nil
}

type attemptOutcome struct {
	applied     models.AppliedTransfer
	destination models.Account
}

// attempt runs one read-validate-apply round. It returns interfaces.ErrConflict
// when the round should be repeated with fresh data.
func (l *Ledger) attempt(ctx context.Context, r *run, req models.TransferRequest, totalDebit decimal.Decimal) (attemptOutcome, error) {
	if r.state == StateTransferInFlight {
		r.moveTo(StateIdle)
	}
	if err := ctx.Err(); err != nil {
		return attemptOutcome{}, err
	}

	src, err := l.accounts.LookupByNumber(ctx, req.SourceAccountNumber)
	if err != nil {
		return attemptOutcome{}, lookupError(SideSource, req.SourceAccountNumber, err)
	}
	dst, err := l.accounts.LookupByNumber(ctx, req.DestinationAccountNumber)
	if err != nil {
		return attemptOutcome{}, lookupError(SideDestination, req.DestinationAccountNumber, err)
	}

	if req.ClaimedDestination != nil && !validation.Matches(*req.ClaimedDestination, dst) {
		l.logger.Info("destination mismatch",
			"transfer_id", r.id,
			"destination", dst.Number,
			"fields", validation.Mismatches(*req.ClaimedDestination, dst),
		)
		return attemptOutcome{}, ErrDestinationMismatch
	}
	r.moveTo(StateDestinationValidated)

	if src.Balance.LessThan(totalDebit) {
		return attemptOutcome{}, ErrInsufficientFunds
	}

	// last point where cancellation is honoured
	if err := ctx.Err(); err != nil {
		return attemptOutcome{}, err
	}
	r.moveTo(StateTransferInFlight)

	applied, err := l.accounts.ApplyTransferAtomic(context.WithoutCancel(ctx), models.TransferLegs{
		SourceNumber:       src.Number,
		SourceVersion:      src.Version,
		DestinationNumber:  dst.Number,
		DestinationVersion: dst.Version,
		Debit:              totalDebit,
		Credit:             req.Amount,
	})
	switch {
	case err == nil:
		return attemptOutcome{applied: applied, destination: dst}, nil
	case errors.Is(err, interfaces.ErrConflict), errors.Is(err, interfaces.ErrNotFound):
		// the records changed after we read them; a fresh read decides
		l.logger.Debug("transfer conflict, retrying", "transfer_id", r.id)
		return attemptOutcome{}, interfaces.ErrConflict
	case errors.Is(err, interfaces.ErrInsufficientFunds):
		return attemptOutcome{}, ErrInsufficientFunds
	default:
		return attemptOutcome{}, storageError("apply transfer", err)
	}
}

// registerContact stores the snapshot unless the destination is already a
// contact or belongs to userID. A concurrent insert of the same contact is not
// an error.
func (l *Ledger) registerContact(ctx context.Context, userID string, snapshot models.ContactRecord) (bool, error) {
	exists, err := l.contacts.Exists(ctx, snapshot.AccountNumber)
	if err != nil {
		return false, contactError(err)
	}
	if exists {
		return false, nil
	}
	owns, err := l.users.OwnsAccount(ctx, userID, snapshot.AccountNumber)
	if err != nil {
		return false, contactError(err)
	}
	if owns {
		l.logger.Info("destination is an own account, not saved as contact",
			"user_id", userID, "account", snapshot.AccountNumber)
		return false, nil
	}

	err = l.contacts.Add(ctx, snapshot)
	if errors.Is(err, interfaces.ErrAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, contactError(err)
	}
	return true, nil
}

func (l *Ledger) publish(ctx context.Context, event events.TransferCompleted) {
	if l.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := l.events.Publish(ctx, events.TopicTransferCompleted, event); err != nil {
		l.logger.Error("publish transfer event", "transfer_id", event.TransferID, "error", err)
	}
}

// validAmount reports whether a is a positive amount of whole cents within
// range. It only inspects the exponent and coefficient digits, so absurd
// exponents are rejected without rescaling.
func validAmount(a decimal.Decimal) bool {
	if !a.IsPositive() {
		return false
	}
	exp := int64(a.Exponent())
	if exp < -2*amountScale || exp > maxAmountDigits {
		return false
	}
	if a.Coefficient().BitLen() > 64 || int64(a.NumDigits())+exp > maxAmountDigits {
		return false
	}
	// trailing zeros beyond cents are fine, anything else is not
	return exp >= -amountScale || a.Equal(a.Truncate(amountScale))
}

func lookupError(side Side, number string, err error) error {
	if errors.Is(err, interfaces.ErrNotFound) {
		return &AccountNotFoundError{Which: side, Number: number}
	}
	return storageError("lookup "+string(side), err)
}

func contactError(err error) error {
	return errors.Join(ErrContactRegistrationFailed, err)
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// run tracks the state of a single Transfer call.
type run struct {
	id     string
	state  State
	logger *slog.Logger
}

func (r *run) moveTo(next State) {
	if !r.state.CanTransitionTo(next) {
		r.logger.Error("illegal transfer state transition", "transfer_id", r.id, "from", r.state, "to", next)
		return
	}
	r.logger.Debug("transfer state", "transfer_id", r.id, "from", r.state, "to", next)
	r.state = next
}
