package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/parkside-eng/ledgerd/internal/models"
)

// CreateBank registers a new bank.
func (s *Service) CreateBank(ctx context.Context, name string) (*models.Bank, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	bank := &models.Bank{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(name),
		CreatedAt: s.now(),
	}
	if err := s.storage.SaveBank(ctx, bank); err != nil {
		return nil, err
	}
	s.logger.Info().Str("bank_id", bank.ID).Str("name", bank.Name).Msg("Bank created")
	return bank, nil
}

// UpdateBank renames a bank.
func (s *Service) UpdateBank(ctx context.Context, id, name string) (*models.Bank, error) {
	bank, err := s.GetBank(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	bank.Name = strings.TrimSpace(name)
	if err := s.storage.SaveBank(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// GetBank retrieves a live bank by id.
func (s *Service) GetBank(ctx context.Context, id string) (*models.Bank, error) {
	bank, err := s.storage.GetBank(ctx, id)
	if err != nil {
		return nil, err
	}
	if bank.Deleted() {
		return nil, fmt.Errorf("bank '%s': %w", id, models.ErrNotFound)
	}
	return bank, nil
}

// ListBanks returns all live banks.
func (s *Service) ListBanks(ctx context.Context) ([]*models.Bank, error) {
	return s.storage.ListBanks(ctx)
}

// DeleteBank soft-deletes a bank and all its accounts.
func (s *Service) DeleteBank(ctx context.Context, id string) (*models.Bank, error) {
	if _, err := s.GetBank(ctx, id); err != nil {
		return nil, err
	}
	if err := s.storage.SoftDeleteBank(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info().Str("bank_id", id).Msg("Bank deleted")
	return s.storage.GetBank(ctx, id)
}
