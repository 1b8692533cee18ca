package ledgerdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/parkside-eng/ledgerd/internal/models"
)

// SaveBank persists a bank, enforcing case-insensitive name uniqueness
// among live banks.
func (s *Store) SaveBank(_ context.Context, bank *models.Bank) error {
	var all []models.Bank
	if err := s.db.Find(&all, nil); err != nil {
		return fmt.Errorf("failed to check bank name uniqueness: %w", err)
	}
	for i := range all {
		if all[i].ID != bank.ID && !all[i].Deleted() && normalizeName(all[i].Name) == normalizeName(bank.Name) {
			return models.NewValidationError(models.MsgNameTaken)
		}
	}

	if err := s.db.Upsert(bank.ID, bank); err != nil {
		return fmt.Errorf("failed to save bank '%s': %w", bank.ID, err)
	}
	s.logger.Debug().Str("bank_id", bank.ID).Msg("Bank saved")
	return nil
}

// GetBank retrieves a bank by id, soft-deleted or not.
func (s *Store) GetBank(_ context.Context, id string) (*models.Bank, error) {
	var bank models.Bank
	if err := s.db.Get(id, &bank); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("bank '%s': %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get bank '%s': %w", id, err)
	}
	return &bank, nil
}

// ListBanks returns all live banks ordered by creation time.
func (s *Store) ListBanks(_ context.Context) ([]*models.Bank, error) {
	var all []models.Bank
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list banks: %w", err)
	}
	var result []*models.Bank
	for i := range all {
		if !all[i].Deleted() {
			bank := all[i]
			result = append(result, &bank)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// SoftDeleteBank marks the bank deleted and cascades to its accounts.
func (s *Store) SoftDeleteBank(ctx context.Context, id string) error {
	bank, err := s.GetBank(ctx, id)
	if err != nil {
		return err
	}
	if bank.Deleted() {
		return nil
	}

	now := time.Now()
	bank.DeletedAt = &now
	if err := s.db.Upsert(bank.ID, bank); err != nil {
		return fmt.Errorf("failed to delete bank '%s': %w", id, err)
	}

	accounts, err := s.ListBankAccounts(ctx, id)
	if err != nil {
		return err
	}
	for _, account := range accounts {
		if account.Deleted() {
			continue
		}
		account.DeletedAt = &now
		if err := s.db.Upsert(account.ID, account); err != nil {
			return fmt.Errorf("failed to cascade delete to account '%s': %w", account.ID, err)
		}
	}

	s.logger.Debug().Str("bank_id", id).Int("accounts", len(accounts)).Msg("Bank soft-deleted")
	return nil
}
