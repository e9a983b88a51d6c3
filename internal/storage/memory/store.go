package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	interfaces "github.com/sheikh-saqib/funds-transfer-core/internal/interfaces"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
)

// MemoryStore is an in-memory implementation of AccountStore, ContactRegistry
// and UserDirectory. It is safe for concurrent use.
//
// Every account has its own mutex. A transfer holds the mutexes of both
// accounts, taken in lexicographic order, for the whole apply, and readers take
// the mutex of the account they read. A reader therefore never sees one leg
// written without the other.
type MemoryStore struct {
	mu       sync.RWMutex                    // protects the maps below
	accounts map[string]models.Account       // account number -> account
	contacts map[string]models.ContactRecord // account number -> contact
	owners   map[string][]string             // user id -> account numbers

	lockMu sync.Mutex             // protects locks
	locks  map[string]*sync.Mutex // account number -> mutex

	betweenLegs func(models.TransferLegs) error
}

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithBetweenLegsHook installs a function called after the debit leg has been
// written and before the credit leg. A non-nil error aborts the apply and
// restores the debited account. Used for fault injection in tests.
func WithBetweenLegsHook(fn func(models.TransferLegs) error) Option {
	return func(m *MemoryStore) {
		m.betweenLegs = fn
	}
}

// NewMemoryStore creates and returns a new, empty MemoryStore.
func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		accounts: make(map[string]models.Account),
		contacts: make(map[string]models.ContactRecord),
		owners:   make(map[string][]string),
		locks:    make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// accountLock returns the mutex of an existing account. Mutexes are created
// with the account and never for unknown numbers.
func (m *MemoryStore) accountLock(number string) (*sync.Mutex, bool) {
	m.lockMu.Lock()
	defer m.lockMu.Unlock()

	lock, ok := m.locks[number]
	return lock, ok
}

// lockPair locks both accounts in canonical order so that two transfers over
// the same pair in opposite directions cannot deadlock. It reports false,
// holding nothing, when either account is unknown.
func (m *MemoryStore) lockPair(a, b string) (func(), bool) {
	keys := []string{a, b}
	sort.Strings(keys)

	first, ok := m.accountLock(keys[0])
	if !ok {
		return nil, false
	}
	second, ok := m.accountLock(keys[1])
	if !ok {
		return nil, false
	}
	first.Lock()
	second.Lock()

	return func() {
		second.Unlock()
		first.Unlock()
	}, true
}

func (m *MemoryStore) load(number string) (models.Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	acct, ok := m.accounts[number]
	return acct, ok
}

func (m *MemoryStore) store(acct models.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[acct.Number] = acct
}

// CreateAccount inserts a new account. It is the onboarding path and is not
// used by the transfer core.
func (m *MemoryStore) CreateAccount(ctx context.Context, acct models.Account) error {
	if strings.TrimSpace(acct.Number) == "" {
		return fmt.Errorf("memory: account number is required")
	}
	if acct.Balance.IsNegative() {
		return fmt.Errorf("memory: initial balance cannot be negative")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.accounts[acct.Number]; exists {
		return interfaces.ErrAlreadyExists
	}
	m.accounts[acct.Number] = acct

	m.lockMu.Lock()
	m.locks[acct.Number] = &sync.Mutex{}
	m.lockMu.Unlock()
	return nil
}

// AssignAccount records that userID owns the account number.
func (m *MemoryStore) AssignAccount(ctx context.Context, userID, number string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, n := range m.owners[userID] {
		if n == number {
			return nil
		}
	}
	m.owners[userID] = append(m.owners[userID], number)
	return nil
}

// LookupByNumber returns a copy of the current account record.
func (m *MemoryStore) LookupByNumber(ctx context.Context, number string) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	lock, ok := m.accountLock(number)
	if !ok {
		return models.Account{}, interfaces.ErrNotFound
	}
	lock.Lock()
	defer lock.Unlock()

	acct, ok := m.load(number)
	if !ok {
		return models.Account{}, interfaces.ErrNotFound
	}
	return acct, nil
}

// ApplyTransferAtomic debits the source and credits the destination while
// holding both account mutexes. Versions and the source balance are checked
// before anything is written.
func (m *MemoryStore) ApplyTransferAtomic(ctx context.Context, legs models.TransferLegs) (models.AppliedTransfer, error) {
	if legs.SourceNumber == legs.DestinationNumber {
		return models.AppliedTransfer{}, fmt.Errorf("memory: source and destination must differ")
	}

	unlock, ok := m.lockPair(legs.SourceNumber, legs.DestinationNumber)
	if !ok {
		return models.AppliedTransfer{}, interfaces.ErrNotFound
	}
	defer unlock()

	src, ok := m.load(legs.SourceNumber)
	if !ok {
		return models.AppliedTransfer{}, interfaces.ErrNotFound
	}
	dst, ok := m.load(legs.DestinationNumber)
	if !ok {
		return models.AppliedTransfer{}, interfaces.ErrNotFound
	}

	if src.Version != legs.SourceVersion || dst.Version != legs.DestinationVersion {
		return models.AppliedTransfer{}, interfaces.ErrConflict
	}
	if src.Balance.LessThan(legs.Debit) {
		return models.AppliedTransfer{}, interfaces.ErrInsufficientFunds
	}

	newSrc := src
	newSrc.Balance = src.Balance.Sub(legs.Debit)
	newSrc.Version++

	newDst := dst
	newDst.Balance = dst.Balance.Add(legs.Credit)
	newDst.Version++

	m.store(newSrc)
	if m.betweenLegs != nil {
		if err := m.betweenLegs(legs); err != nil {
			// undo the debit leg; nobody could have read it while we hold the lock
			m.store(src)
			return models.AppliedTransfer{}, fmt.Errorf("memory: apply credit leg: %w", err)
		}
	}
	m.store(newDst)

	return models.AppliedTransfer{
		NewSourceBalance:      newSrc.Balance,
		NewDestinationBalance: newDst.Balance,
	}, nil
}

func (m *MemoryStore) Exists(ctx context.Context, accountNumber string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.contacts[accountNumber]
	return exists, nil
}

func (m *MemoryStore) Get(ctx context.Context, accountNumber string) (models.ContactRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, exists := m.contacts[accountNumber]
	if !exists {
		return models.ContactRecord{}, interfaces.ErrNotFound
	}
	return c, nil
}

func (m *MemoryStore) Add(ctx context.Context, record models.ContactRecord) error {
	if strings.TrimSpace(record.AccountNumber) == "" {
		return fmt.Errorf("memory: contact account number is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.contacts[record.AccountNumber]; exists {
		return interfaces.ErrAlreadyExists
	}
	m.contacts[record.AccountNumber] = record
	return nil
}

// Contacts returns a copy of every registered contact.
func (m *MemoryStore) Contacts() []models.ContactRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.ContactRecord, 0, len(m.contacts))
	for _, c := range m.contacts {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountNumber < out[j].AccountNumber })
	return out
}

func (m *MemoryStore) OwnsAccount(ctx context.Context, userID, accountNumber string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, n := range m.owners[userID] {
		if n == accountNumber {
			return true, nil
		}
	}
	return false, nil
}

func (m *MemoryStore) AccountsOf(ctx context.Context, userID string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// copy so callers can't modify internal state
	numbers := make([]string, len(m.owners[userID]))
	copy(numbers, m.owners[userID])
	return numbers, nil
}

// Compile-time checks
var (
	_ interfaces.AccountStore    = (*MemoryStore)(nil)
	_ interfaces.ContactRegistry = (*MemoryStore)(nil)
	_ interfaces.UserDirectory   = (*MemoryStore)(nil)
)

// Close is a no-op; it lets MemoryStore stand in for the durable backends.
func (m *MemoryStore) Close() error { return nil }
