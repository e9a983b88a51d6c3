// Package sqlite provides a SQLite-backed transfer store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	interfaces "github.com/sheikh-saqib/funds-transfer-core/internal/interfaces"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage/migrate"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage/sqlite/migrations"
	"github.com/shopspring/decimal"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists accounts, contacts and account ownership in SQLite.
//
// The pool is limited to a single connection: SQLite allows one writer at a
// time and a deferred transaction that upgrades to a write lock can fail
// with SQLITE_BUSY instead of waiting.
type Store struct {
	sqlDB       *sql.DB
	betweenLegs func(models.TransferLegs) error
}

// Option configures a Store.
type Option func(*Store)

// WithBetweenLegsHook installs a function called inside the apply transaction
// after the debit update and before the credit update. A non-nil error rolls
// the transaction back.
func WithBetweenLegsHook(fn func(models.TransferLegs) error) Option {
	return func(s *Store) {
		s.betweenLegs = fn
	}
}

// Open opens a SQLite store at path and applies embedded migrations.
func Open(path string, opts ...Option) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := "file:" + cleanPath +
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := migrate.Apply(context.Background(), sqlDB, migrations.FS, migrate.SQLite); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	s := &Store{sqlDB: sqlDB}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func lookupAccount(ctx context.Context, q queryer, number string) (models.Account, error) {
	row := q.QueryRowContext(
		ctx,
		`SELECT number, owner_id, bank_code, account_type, owner_name, balance, version
		   FROM accounts
		  WHERE number = ?`,
		number,
	)

	var acct models.Account
	err := row.Scan(
		&acct.Number,
		&acct.OwnerID,
		&acct.BankCode,
		&acct.AccountType,
		&acct.OwnerName,
		&acct.Balance,
		&acct.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Account{}, interfaces.ErrNotFound
		}
		return models.Account{}, fmt.Errorf("get account: %w", err)
	}
	return acct, nil
}

// CreateAccount inserts one account. It is the onboarding path and is not used
// by the transfer core.
func (s *Store) CreateAccount(ctx context.Context, acct models.Account) error {
	if strings.TrimSpace(acct.Number) == "" {
		return fmt.Errorf("account number is required")
	}
	if acct.Balance.IsNegative() {
		return fmt.Errorf("initial balance cannot be negative")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO accounts (number, owner_id, bank_code, account_type, owner_name, balance, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		acct.Number,
		acct.OwnerID,
		acct.BankCode,
		acct.AccountType,
		acct.OwnerName,
		acct.Balance.String(),
		acct.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return interfaces.ErrAlreadyExists
		}
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// AssignAccount records that userID owns number. Repeated calls are no-ops.
func (s *Store) AssignAccount(ctx context.Context, userID, number string) error {
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO user_accounts (user_id, account_number) VALUES (?, ?)`,
		userID,
		number,
	)
	if err != nil {
		return fmt.Errorf("assign account: %w", err)
	}
	return nil
}

func (s *Store) LookupByNumber(ctx context.Context, number string) (models.Account, error) {
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}
	return lookupAccount(ctx, s.sqlDB, number)
}

// ApplyTransferAtomic re-reads both accounts and writes both legs inside one
// SQL transaction. Each update is additionally guarded by the presented
// version so a lost update is impossible even without the re-read.
func (s *Store) ApplyTransferAtomic(ctx context.Context, legs models.TransferLegs) (applied models.AppliedTransfer, err error) {
	if legs.SourceNumber == legs.DestinationNumber {
		return models.AppliedTransfer{}, fmt.Errorf("source and destination must differ")
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return models.AppliedTransfer{}, fmt.Errorf("begin transfer: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	src, err := lookupAccount(ctx, tx, legs.SourceNumber)
	if err != nil {
		return models.AppliedTransfer{}, err
	}
	dst, err := lookupAccount(ctx, tx, legs.DestinationNumber)
	if err != nil {
		return models.AppliedTransfer{}, err
	}
	if src.Version != legs.SourceVersion || dst.Version != legs.DestinationVersion {
		return models.AppliedTransfer{}, interfaces.ErrConflict
	}
	if src.Balance.LessThan(legs.Debit) {
		return models.AppliedTransfer{}, interfaces.ErrInsufficientFunds
	}

	newSrc := src.Balance.Sub(legs.Debit)
	newDst := dst.Balance.Add(legs.Credit)

	if err = updateBalance(ctx, tx, legs.SourceNumber, legs.SourceVersion, newSrc); err != nil {
		return models.AppliedTransfer{}, err
	}
	if s.betweenLegs != nil {
		if err = s.betweenLegs(legs); err != nil {
			return models.AppliedTransfer{}, fmt.Errorf("apply credit leg: %w", err)
		}
	}
	if err = updateBalance(ctx, tx, legs.DestinationNumber, legs.DestinationVersion, newDst); err != nil {
		return models.AppliedTransfer{}, err
	}

	if err = tx.Commit(); err != nil {
		return models.AppliedTransfer{}, fmt.Errorf("commit transfer: %w", err)
	}
	return models.AppliedTransfer{
		NewSourceBalance:      newSrc,
		NewDestinationBalance: newDst,
	}, nil
}

func updateBalance(ctx context.Context, tx *sql.Tx, number string, version int64, balance decimal.Decimal) error {
	res, err := tx.ExecContext(
		ctx,
		`UPDATE accounts
		    SET balance = ?, version = version + 1
		  WHERE number = ? AND version = ?`,
		balance.String(),
		number,
		version,
	)
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update balance: %w", err)
	}
	if n != 1 {
		return interfaces.ErrConflict
	}
	return nil
}

func (s *Store) Exists(ctx context.Context, accountNumber string) (bool, error) {
	var one int
	err := s.sqlDB.QueryRowContext(ctx, `SELECT 1 FROM contacts WHERE account_number = ?`, accountNumber).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("contact exists: %w", err)
	}
	return true, nil
}

func (s *Store) Get(ctx context.Context, accountNumber string) (models.ContactRecord, error) {
	var c models.ContactRecord
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT account_number, bank_code, account_type, owner_id, owner_name, balance_snapshot
		   FROM contacts
		  WHERE account_number = ?`,
		accountNumber,
	).Scan(&c.AccountNumber, &c.BankCode, &c.AccountType, &c.OwnerID, &c.OwnerName, &c.BalanceSnapshot)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.ContactRecord{}, interfaces.ErrNotFound
		}
		return models.ContactRecord{}, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

func (s *Store) Add(ctx context.Context, record models.ContactRecord) error {
	if strings.TrimSpace(record.AccountNumber) == "" {
		return fmt.Errorf("contact account number is required")
	}
	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO contacts (account_number, bank_code, account_type, owner_id, owner_name, balance_snapshot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.AccountNumber,
		record.BankCode,
		record.AccountType,
		record.OwnerID,
		record.OwnerName,
		record.BalanceSnapshot.String(),
		time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return interfaces.ErrAlreadyExists
		}
		return fmt.Errorf("add contact: %w", err)
	}
	return nil
}

func (s *Store) OwnsAccount(ctx context.Context, userID, accountNumber string) (bool, error) {
	var one int
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT 1 FROM user_accounts WHERE user_id = ? AND account_number = ?`,
		userID,
		accountNumber,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("owns account: %w", err)
	}
	return true, nil
}

func (s *Store) AccountsOf(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT account_number FROM user_accounts WHERE user_id = ? ORDER BY account_number ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("accounts of user: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("accounts of user: %w", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("accounts of user: %w", err)
	}
	return numbers, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}

var (
	_ interfaces.AccountStore    = (*Store)(nil)
	_ interfaces.ContactRegistry = (*Store)(nil)
	_ interfaces.UserDirectory   = (*Store)(nil)
)
