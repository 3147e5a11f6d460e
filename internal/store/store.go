package store

import (
	"context"
	"errors"

	"flat-ledger-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across all backend implementations.
var (
	ErrStorageRead       = errors.New("unable to read ledger snapshot")
	ErrStorageWrite      = errors.New("unable to write ledger snapshot")
	ErrBalanceConversion = errors.New("malformed balance in ledger snapshot")
)

// Amounts and balances carry at most MaxScale fractional digits and an
// exponent of at most MaxExponent. Values outside the range are rejected
// before any arithmetic or formatting.
const (
	MaxScale    = 18
	MaxExponent = 18
)

// InRange reports whether d is within the supported scale and exponent.
func InRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -MaxScale && exp <= MaxExponent
}

// LedgerStore defines the contract that every snapshot backend must satisfy.
//
// Reads and writes are only consistent with each other inside WithLock. A caller
// performing a read-modify-write must hold the lock for the whole cycle:
//
//	err := s.WithLock(ctx, func(ctx context.Context) error {
//		accounts, err := s.LoadAll(ctx)
//		...
//		return s.ReplaceAll(ctx, accounts)
//	})
type LedgerStore interface {
	// --- Exclusive section ---
	WithLock(ctx context.Context, fn func(ctx context.Context) error) error

	// --- Reads ---
	Exists(ctx context.Context, name string) (bool, error)
	LoadAll(ctx context.Context) ([]models.Account, error)

	// --- Writes ---
	ReplaceAll(ctx context.Context, accounts []models.Account) error
	Append(ctx context.Context, account models.Account) error

	// --- Lifecycle ---
	Close()
}
