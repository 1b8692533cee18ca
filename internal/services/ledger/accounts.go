package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/parkside-eng/ledgerd/internal/interfaces"
	"github.com/parkside-eng/ledgerd/internal/models"
)

// CreateAccount opens a new account under a bank. Balances always start
// at zero; the only way funds arrive is a completed transfer.
func (s *Service) CreateAccount(ctx context.Context, name, bankID string) (*models.Account, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, err := s.GetBank(ctx, bankID); err != nil {
		return nil, err
	}
	account := &models.Account{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		BankID:    bankID,
		CreatedAt: s.now(),
	}
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", account.ID).Str("bank_id", bankID).Str("name", account.Name).Msg("Account created")
	return account, nil
}

// UpdateAccount renames an account.
func (s *Service) UpdateAccount(ctx context.Context, id, name string) (*models.Account, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	account.Name = strings.TrimSpace(name)
	if err := s.storage.SaveAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves a live account by id.
func (s *Service) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	account, err := s.storage.GetAccount(ctx, id)
	if err != nil {
		return nil, err
	}
	if account.Deleted() {
		return nil, fmt.Errorf("account '%s': %w", id, models.ErrNotFound)
	}
	return account, nil
}

// ListAccounts returns all live accounts with optional column ordering.
func (s *Service) ListAccounts(ctx context.Context, order interfaces.OrderSpec) ([]*models.Account, error) {
	return s.storage.ListAccounts(ctx, order)
}

// DeleteAccount soft-deletes an account.
func (s *Service) DeleteAccount(ctx context.Context, id string) (*models.Account, error) {
	if _, err := s.GetAccount(ctx, id); err != nil {
		return nil, err
	}
	if err := s.storage.SoftDeleteAccount(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info().Str("account_id", id).Msg("Account deleted")
	return s.storage.GetAccount(ctx, id)
}

// GetAccountBalance returns a live account's balance in minor units.
func (s *Service) GetAccountBalance(ctx context.Context, id string) (int64, error) {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return 0, err
	}
	return account.BalanceCents, nil
}
