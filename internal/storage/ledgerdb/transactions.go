package ledgerdb

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/models"
)

// SaveTransaction persists a transaction record.
func (s *Store) SaveTransaction(_ context.Context, txn *models.Transaction) error {
	if err := s.db.Upsert(txn.ID, txn); err != nil {
		return fmt.Errorf("failed to save transaction '%s': %w", txn.ID, err)
	}
	s.logger.Debug().
		Str("transaction_id", txn.ID).
		Bool("pending", txn.Pending).
		Bool("duplicate", txn.Duplicate).
		Msg("Transaction saved")
	return nil
}

// GetTransaction retrieves a transaction by id, soft-deleted or not.
func (s *Store) GetTransaction(_ context.Context, id string) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.Get(id, &txn); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("transaction '%s': %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get transaction '%s': %w", id, err)
	}
	return &txn, nil
}

// ListTransactions returns transactions matching the query. AccountID
// narrows to transfers the account participates in; BankID narrows to
// transfers touching the bank or any of its accounts (deleted accounts
// included, since transfers keep referencing them).
func (s *Store) ListTransactions(ctx context.Context, query interfaces.TransactionQuery) ([]*models.Transaction, error) {
	var all []models.Transaction
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var bankParticipants map[models.ParticipantRef]bool
	if query.AccountID == "" && query.BankID != "" {
		accounts, err := s.ListBankAccounts(ctx, query.BankID)
		if err != nil {
			return nil, err
		}
		bankParticipants = make(map[models.ParticipantRef]bool, len(accounts)+1)
		bankParticipants[models.ParticipantRef{Kind: models.KindBank, ID: query.BankID}] = true
		for _, account := range accounts {
			bankParticipants[account.Ref()] = true
		}
	}

	var result []*models.Transaction
	for i := range all {
		txn := all[i]
		if txn.Deleted() != query.OnlyDeleted {
			continue
		}
		switch {
		case query.AccountID != "":
			ref := models.ParticipantRef{Kind: models.KindAccount, ID: query.AccountID}
			if !txn.Sender.Equal(ref) && !txn.Recipient.Equal(ref) {
				continue
			}
		case bankParticipants != nil:
			if !bankParticipants[txn.Sender] && !bankParticipants[txn.Recipient] {
				continue
			}
		}
		result = append(result, &txn)
	}

	orderTransactions(result, query.Order)
	return result, nil
}

// SoftDeleteTransaction marks the transaction deleted.
func (s *Store) SoftDeleteTransaction(ctx context.Context, id string) error {
	txn, err := s.GetTransaction(ctx, id)
	if err != nil {
		return err
	}
	if txn.Deleted() {
		return nil
	}
	now := time.Now()
	txn.DeletedAt = &now
	if err := s.db.Upsert(txn.ID, txn); err != nil {
		return fmt.Errorf("failed to delete transaction '%s': %w", id, err)
	}
	s.logger.Debug().Str("transaction_id", id).Msg("Transaction soft-deleted")
	return nil
}

// PendingDue returns live pending transactions dated on or before asOf.
func (s *Store) PendingDue(_ context.Context, asOf time.Time) ([]*models.Transaction, error) {
	var all []models.Transaction
	if err := s.db.Find(&all, badgerhold.Where("Pending").Eq(true)); err != nil {
		return nil, fmt.Errorf("failed to find pending transactions: %w", err)
	}
	day := models.DateOnly(asOf)
	var result []*models.Transaction
	for i := range all {
		txn := all[i]
		if txn.Deleted() || txn.TransactionDate.After(day) {
			continue
		}
		result = append(result, &txn)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

// FindNearMatches returns other live transactions with identical sender,
// recipient, date, and amount created within window of txn.
func (s *Store) FindNearMatches(_ context.Context, txn *models.Transaction, window time.Duration) ([]*models.Transaction, error) {
	var all []models.Transaction
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to find matching transactions: %w", err)
	}
	var result []*models.Transaction
	for i := range all {
		other := all[i]
		if other.ID == txn.ID || other.Deleted() {
			continue
		}
		if !other.Sender.Equal(txn.Sender) || !other.Recipient.Equal(txn.Recipient) {
			continue
		}
		if !other.TransactionDate.Equal(txn.TransactionDate) || other.AmountCents != txn.AmountCents {
			continue
		}
		gap := other.CreatedAt.Sub(txn.CreatedAt)
		if gap < 0 {
			gap = -gap
		}
		if gap >= window {
			continue
		}
		result = append(result, &other)
	}
	return result, nil
}

// orderTransactions sorts in place by an allow-listed column. Unknown
// attributes or directions leave the slice in creation order.
func orderTransactions(txns []*models.Transaction, order interfaces.OrderSpec) {
	sort.Slice(txns, func(i, j int) bool {
		if txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].ID < txns[j].ID
		}
		return txns[i].CreatedAt.Before(txns[j].CreatedAt)
	})

	var less func(a, b *models.Transaction) bool
	switch order.Attribute {
	case "id":
		less = func(a, b *models.Transaction) bool { return a.ID < b.ID }
	case "amount_cents":
		less = func(a, b *models.Transaction) bool { return a.AmountCents < b.AmountCents }
	case "transaction_date":
		less = func(a, b *models.Transaction) bool { return a.TransactionDate.Before(b.TransactionDate) }
	case "description":
		less = func(a, b *models.Transaction) bool { return a.Description < b.Description }
	case "pending":
		less = func(a, b *models.Transaction) bool { return !a.Pending && b.Pending }
	case "duplicate":
		less = func(a, b *models.Transaction) bool { return !a.Duplicate && b.Duplicate }
	case "created_at":
		less = func(a, b *models.Transaction) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}

	switch strings.ToUpper(order.Direction) {
	case "ASC":
	case "DESC":
		inner := less
		less = func(a, b *models.Transaction) bool { return inner(b, a) }
	default:
		return
	}

	sort.SliceStable(txns, func(i, j int) bool { return less(txns[i], txns[j]) })
}
