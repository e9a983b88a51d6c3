// Package storage selects and opens the store backend used by the transfer
// core.
package storage

import (
	"context"
	"fmt"
	"strings"

	interfaces "github.com/sheikh-saqib/funds-transfer-core/internal/interfaces"
	"github.com/sheikh-saqib/funds-transfer-core/internal/models"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage/memory"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage/postgres"
	"github.com/sheikh-saqib/funds-transfer-core/internal/storage/sqlite"
)

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Onboarding creates accounts and ownership links. It belongs to the external
// onboarding process; the transfer core never calls it.
type Onboarding interface {
	CreateAccount(ctx context.Context, acct models.Account) error
	AssignAccount(ctx context.Context, userID, number string) error
}

// Backend is a store that serves every port of the transfer core.
type Backend interface {
	interfaces.AccountStore
	interfaces.ContactRegistry
	interfaces.UserDirectory
	Onboarding
	Close() error
}

type Options struct {
	Driver      string
	SQLitePath  string
	DatabaseURL string
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Driver)) {
	case "", DriverMemory:
		return memory.NewMemoryStore(), nil
	case DriverSQLite:
		return sqlite.Open(opts.SQLitePath)
	case DriverPostgres:
		return postgres.Open(ctx, opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", opts.Driver)
	}
}

var (
	_ Backend = (*memory.MemoryStore)(nil)
	_ Backend = (*sqlite.Store)(nil)
	_ Backend = (*postgres.PostgresStore)(nil)
)
