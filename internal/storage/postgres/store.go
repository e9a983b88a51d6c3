package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lib/pq"

	interfaces "github.com/sheikh-saqib/funds-transfer-core/internal/interfaces"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage/migrate"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage/postgres/migrations"
	"github.com/shopspring/decimal"
)

const uniqueViolation = pq.ErrorCode("23505")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// Open connects to databaseURL, verifies the connection and applies the
// embedded migrations.
func Open(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database url is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := migrate.Apply(ctx, db, migrations.FS, migrate.Postgres); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return NewPostgresStore(db), nil
}

func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func (p *PostgresStore) CreateAccount(ctx context.Context, acct models.Account) error {
	const query = `INSERT INTO accounts (number, owner_id, bank_code, account_type, owner_name, balance, version)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if strings.TrimSpace(acct.Number) == "" {
		return fmt.Errorf("postgres: account number is required")
	}
	if acct.Balance.IsNegative() {
		return fmt.Errorf("postgres: initial balance cannot be negative")
	}
	_, err := p.db.ExecContext(ctx, query,
		acct.Number, acct.OwnerID, acct.BankCode, acct.AccountType, acct.OwnerName, acct.Balance, acct.Version)
	if isUniqueViolation(err) {
		return interfaces.ErrAlreadyExists
	}
	return err
}

func (p *PostgresStore) AssignAccount(ctx context.Context, userID, number string) error {
	const query = `INSERT INTO user_accounts (user_id, account_number) VALUES ($1, $2)
	ON CONFLICT DO NOTHING`

	_, err := p.db.ExecContext(ctx, query, userID, number)
	return err
}

func (p *PostgresStore) LookupByNumber(ctx context.Context, number string) (models.Account, error) {
	const query = `SELECT number, owner_id, bank_code, account_type, owner_name, balance, version
	FROM accounts WHERE number = $1`

	var acct models.Account
	err := p.db.QueryRowContext(ctx, query, number).Scan(
		&acct.Number,
		&acct.OwnerID,
		&acct.BankCode,
		&acct.AccountType,
		&acct.OwnerName,
		&acct.Balance,
		&acct.Version,
	)
	if err == sql.ErrNoRows {
		return models.Account{}, interfaces.ErrNotFound
	}
	if err != nil {
		return models.Account{}, err
	}
	return acct, nil
}

// lockAccounts row-locks both accounts in number order and returns them keyed
// by number. Locking in a fixed order keeps opposite-direction transfers over
// the same pair from deadlocking.
func lockAccounts(ctx context.Context, dbTx *sql.Tx, numbers ...string) (map[string]models.Account, error) {
	const query = `SELECT number, owner_id, bank_code, account_type, owner_name, balance, version
	FROM accounts WHERE number = ANY($1) ORDER BY number FOR UPDATE`

	sorted := append([]string(nil), numbers...)
	sort.Strings(sorted)

	rows, err := dbTx.QueryContext(ctx, query, pq.Array(sorted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make(map[string]models.Account, len(numbers))
	for rows.Next() {
		var acct models.Account
		if err := rows.Scan(
			&acct.Number,
			&acct.OwnerID,
			&acct.BankCode,
			&acct.AccountType,
			&acct.OwnerName,
			&acct.Balance,
			&acct.Version,
		); err != nil {
			return nil, err
		}
		accounts[acct.Number] = acct
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return accounts, nil
}

func updateBalance(ctx context.Context, dbTx *sql.Tx, number string, version int64, balance decimal.Decimal) error {
	const query = `UPDATE accounts SET balance = $1, version = version + 1
	WHERE number = $2 AND version = $3`

	res, err := dbTx.ExecContext(ctx, query, balance, number, version)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != 1 {
		return interfaces.ErrConflict
	}
	return nil
}

func (p *PostgresStore) ApplyTransferAtomic(ctx context.Context, legs models.TransferLegs) (applied models.AppliedTransfer, err error) {
	if legs.SourceNumber == legs.DestinationNumber {
		return models.AppliedTransfer{}, fmt.Errorf("postgres: source and destination must differ")
	}

	dbTx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return models.AppliedTransfer{}, err
	}

	defer func() {
		if err != nil {
			dbTx.Rollback()
		}
	}()

	accounts, err := lockAccounts(ctx, dbTx, legs.SourceNumber, legs.DestinationNumber)
	if err != nil {
		return models.AppliedTransfer{}, err
	}
	src, ok := accounts[legs.SourceNumber]
	if !ok {
		err = interfaces.ErrNotFound
		return models.AppliedTransfer{}, err
	}
	dst, ok := accounts[legs.DestinationNumber]
	if !ok {
		err = interfaces.ErrNotFound
		return models.AppliedTransfer{}, err
	}

	if src.Version != legs.SourceVersion || dst.Version != legs.DestinationVersion {
		err = interfaces.ErrConflict
		return models.AppliedTransfer{}, err
	}
	if src.Balance.LessThan(legs.Debit) {
		err = interfaces.ErrInsufficientFunds
		return models.AppliedTransfer{}, err
	}

	newSrc := src.Balance.Sub(legs.Debit)
	newDst := dst.Balance.Add(legs.Credit)

	err = updateBalance(ctx, dbTx, legs.SourceNumber, legs.SourceVersion, newSrc)
	if err != nil {
		return models.AppliedTransfer{}, err
	}

	err = updateBalance(ctx, dbTx, legs.DestinationNumber, legs.DestinationVersion, newDst)
	if err != nil {
		return models.AppliedTransfer{}, err
	}

	err = dbTx.Commit()
	if err != nil {
		return models.AppliedTransfer{}, err
	}
	return models.AppliedTransfer{
		NewSourceBalance:      newSrc,
		NewDestinationBalance: newDst,
	}, nil
}

func (p *PostgresStore) Exists(ctx context.Context, accountNumber string) (bool, error) {
	const query = `select 1 from contacts where account_number = $1 Limit 1`

	var exists int
	err := p.db.QueryRowContext(ctx, query, accountNumber).Scan(&exists)

	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

func (p *PostgresStore) Get(ctx context.Context, accountNumber string) (models.ContactRecord, error) {
	const query = `SELECT account_number, bank_code, account_type, owner_id, owner_name, balance_snapshot
	FROM contacts WHERE account_number = $1`

	var c models.ContactRecord
	err := p.db.QueryRowContext(ctx, query, accountNumber).Scan(
		&c.AccountNumber, &c.BankCode, &c.AccountType, &c.OwnerID, &c.OwnerName, &c.BalanceSnapshot)
	if err == sql.ErrNoRows {
		return models.ContactRecord{}, interfaces.ErrNotFound
	}
	if err != nil {
		return models.ContactRecord{}, err
	}
	return c, nil
}

func (p *PostgresStore) Add(ctx context.Context, record models.ContactRecord) error {
	const query = `INSERT INTO contacts (account_number, bank_code, account_type, owner_id, owner_name, balance_snapshot)
	VALUES ($1, $2, $3, $4, $5, $6)`

	if strings.TrimSpace(record.AccountNumber) == "" {
		return fmt.Errorf("postgres: contact account number is required")
	}
	_, err := p.db.ExecContext(ctx, query,
		record.AccountNumber, record.BankCode, record.AccountType, record.OwnerID, record.OwnerName, record.BalanceSnapshot)
	if isUniqueViolation(err) {
		return interfaces.ErrAlreadyExists
	}
	return err
}

func (p *PostgresStore) OwnsAccount(ctx context.Context, userID, accountNumber string) (bool, error) {
	const query = `select 1 from user_accounts where user_id = $1 and account_number = $2 Limit 1`

	var exists int
	err := p.db.QueryRowContext(ctx, query, userID, accountNumber).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *PostgresStore) AccountsOf(ctx context.Context, userID string) ([]string, error) {
	const query = `SELECT account_number FROM user_accounts WHERE user_id = $1 ORDER BY account_number`

	rows, err := p.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return numbers, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

var (
	_ interfaces.AccountStore    = (*PostgresStore)(nil)
	_ interfaces.ContactRegistry = (*PostgresStore)(nil)
	_ interfaces.UserDirectory   = (*PostgresStore)(nil)
)
