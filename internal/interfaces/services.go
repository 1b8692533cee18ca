package interfaces

import (
	"context"

	"github.com/parkside-eng/ledgerd/internal/models"
)

// CreateTransactionInput carries the writable fields of a new transaction.
type CreateTransactionInput struct {
	Sender          models.ParticipantRef
	Recipient       models.ParticipantRef
	AmountCents     int64
	TransactionDate string // "2006-01-02"
	Description     string
}

// UpdateTransactionInput carries a partial edit; nil fields are unchanged.
type UpdateTransactionInput struct {
	Sender          *models.ParticipantRef
	Recipient       *models.ParticipantRef
	AmountCents     *int64
	TransactionDate *string // "2006-01-02"
	Description     *string
}

// LedgerService is the core API exposed to the HTTP adapter. Invariant
// violations come back as *models.ValidationErrors, missing records as
// errors wrapping models.ErrNotFound, and lock acquisition timeouts as
// errors wrapping models.ErrLockTimeout; none of these escape as faults.
type LedgerService interface {
	// Banks
	CreateBank(ctx context.Context, name string) (*models.Bank, error)
	UpdateBank(ctx context.Context, id, name string) (*models.Bank, error)
	GetBank(ctx context.Context, id string) (*models.Bank, error)
	ListBanks(ctx context.Context) ([]*models.Bank, error)
	// DeleteBank soft-deletes the bank and cascades to its accounts.
	DeleteBank(ctx context.Context, id string) (*models.Bank, error)

	// Accounts
	CreateAccount(ctx context.Context, name, bankID string) (*models.Account, error)
	UpdateAccount(ctx context.Context, id, name string) (*models.Account, error)
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	ListAccounts(ctx context.Context, order OrderSpec) ([]*models.Account, error)
	DeleteAccount(ctx context.Context, id string) (*models.Account, error)
	GetAccountBalance(ctx context.Context, id string) (int64, error)

	// Transactions
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id string, input UpdateTransactionInput) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, query TransactionQuery) ([]*models.Transaction, error)
	// DeleteTransaction soft-deletes a pending transaction; deleting a
	// completed one fails and leaves the record unchanged.
	DeleteTransaction(ctx context.Context, id string) (*models.Transaction, error)
	// MarkDuplicate flags a completed transaction as a duplicate and
	// reverses its economic effect.
	MarkDuplicate(ctx context.Context, id string) (*models.Transaction, error)

	// RunSweep completes every pending transaction whose date has arrived,
	// skipping over individual failures. Returns the completed count.
	RunSweep(ctx context.Context) (int, error)
}
