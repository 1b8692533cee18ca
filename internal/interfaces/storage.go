// Package interfaces defines service contracts for ledgerd
package interfaces

import (
	"context"
	"time"

	"github.com/parkside-eng/ledgerd/internal/models"
)

// OrderSpec requests ordering by a persisted column. The attribute must be
// one of the store's real column names and the direction ASC or DESC
// (case-insensitive); anything else silently disables ordering.
type OrderSpec struct {
	Attribute string
	Direction string
}

// TransactionQuery filters and orders transaction listings.
type TransactionQuery struct {
	// AccountID limits results to transactions where the account is sender
	// or recipient. Takes precedence over BankID.
	AccountID string
	// BankID limits results to transactions touching the bank itself or any
	// of its accounts.
	BankID string
	// OnlyDeleted returns soft-deleted transactions instead of live ones.
	OnlyDeleted bool
	Order       OrderSpec
}

// LedgerStore is the persistence layer for banks, accounts, and
// transactions. Writes are all-or-nothing per record; uniqueness and
// numeric constraints are enforced at save time and reported as
// *models.ValidationErrors. Lookups of missing records return errors
// wrapping models.ErrNotFound. Get operations resolve soft-deleted records
// too (transactions keep referencing deleted participants); listings
// exclude them unless asked otherwise.
type LedgerStore interface {
	// Banks
	SaveBank(ctx context.Context, bank *models.Bank) error
	GetBank(ctx context.Context, id string) (*models.Bank, error)
	ListBanks(ctx context.Context) ([]*models.Bank, error)
	SoftDeleteBank(ctx context.Context, id string) error

	// Accounts
	SaveAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, order OrderSpec) ([]*models.Account, error)
	ListBankAccounts(ctx context.Context, bankID string) ([]*models.Account, error)
	SoftDeleteAccount(ctx context.Context, id string) error

	// Transactions
	SaveTransaction(ctx context.Context, txn *models.Transaction) error
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, query TransactionQuery) ([]*models.Transaction, error)
	SoftDeleteTransaction(ctx context.Context, id string) error

	// PendingDue returns live pending transactions whose date is on or
	// before asOf, for the sweep.
	PendingDue(ctx context.Context, asOf time.Time) ([]*models.Transaction, error)

	// FindNearMatches returns other live transactions with identical
	// sender, recipient, date, and amount created within the window
	// around txn's creation time.
	FindNearMatches(ctx context.Context, txn *models.Transaction, window time.Duration) ([]*models.Transaction, error)

	// Lifecycle
	Close() error
}
