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

// SaveAccount persists an account. The non-negative balance constraint and
// case-insensitive name uniqueness within the owning bank are enforced
// here, so no caller can slip an overdraft past the balance updater.
func (s *Store) SaveAccount(_ context.Context, account *models.Account) error {
	if account.BalanceCents < 0 {
		return models.NewValidationError(models.MsgBalanceNegative)
	}

	var siblings []models.Account
	if err := s.db.Find(&siblings, badgerhold.Where("BankID").Eq(account.BankID)); err != nil {
		return fmt.Errorf("failed to check account name uniqueness: %w", err)
	}
	for i := range siblings {
		if siblings[i].ID != account.ID && !siblings[i].Deleted() && normalizeName(siblings[i].Name) == normalizeName(account.Name) {
			return models.NewValidationError(models.MsgNameTaken)
		}
	}

	if err := s.db.Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to save account '%s': %w", account.ID, err)
	}
	s.logger.Debug().Str("account_id", account.ID).Int64("balance_cents", account.BalanceCents).Msg("Account saved")
	return nil
}

// GetAccount retrieves an account by id, soft-deleted or not.
func (s *Store) GetAccount(_ context.Context, id string) (*models.Account, error) {
	var account models.Account
	if err := s.db.Get(id, &account); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("account '%s': %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account '%s': %w", id, err)
	}
	return &account, nil
}

// ListAccounts returns all live accounts with optional column ordering.
func (s *Store) ListAccounts(_ context.Context, order interfaces.OrderSpec) ([]*models.Account, error) {
	var all []models.Account
	if err := s.db.Find(&all, nil); err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	var result []*models.Account
	for i := range all {
		if !all[i].Deleted() {
			account := all[i]
			result = append(result, &account)
		}
	}
	orderAccounts(result, order)
	return result, nil
}

// ListBankAccounts returns every account of the bank, including
// soft-deleted ones. Transactions keep referencing deleted accounts, so
// bank-scoped transaction listings need them too.
func (s *Store) ListBankAccounts(_ context.Context, bankID string) ([]*models.Account, error) {
	var all []models.Account
	if err := s.db.Find(&all, badgerhold.Where("BankID").Eq(bankID)); err != nil {
		return nil, fmt.Errorf("failed to list accounts of bank '%s': %w", bankID, err)
	}
	result := make([]*models.Account, 0, len(all))
	for i := range all {
		account := all[i]
		result = append(result, &account)
	}
	return result, nil
}

// SoftDeleteAccount marks the account deleted.
func (s *Store) SoftDeleteAccount(ctx context.Context, id string) error {
	account, err := s.GetAccount(ctx, id)
	if err != nil {
		return err
	}
	if account.Deleted() {
		return nil
	}
	now := time.Now()
	account.DeletedAt = &now
	if err := s.db.Upsert(account.ID, account); err != nil {
		return fmt.Errorf("failed to delete account '%s': %w", id, err)
	}
	s.logger.Debug().Str("account_id", id).Msg("Account soft-deleted")
	return nil
}

// orderAccounts sorts in place by an allow-listed column. Unknown
// attributes or directions leave the slice in creation order.
func orderAccounts(accounts []*models.Account, order interfaces.OrderSpec) {
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].ID < accounts[j].ID
		}
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})

	var less func(a, b *models.Account) bool
	switch order.Attribute {
	case "id":
		less = func(a, b *models.Account) bool { return a.ID < b.ID }
	case "name":
		less = func(a, b *models.Account) bool { return a.Name < b.Name }
	case "bank_id":
		less = func(a, b *models.Account) bool { return a.BankID < b.BankID }
	case "balance_cents":
		less = func(a, b *models.Account) bool { return a.BalanceCents < b.BalanceCents }
	case "created_at":
		less = func(a, b *models.Account) bool { return a.CreatedAt.Before(b.CreatedAt) }
	default:
		return
	}

	switch strings.ToUpper(order.Direction) {
	case "ASC":
	case "DESC":
		inner := less
		less = func(a, b *models.Account) bool { return inner(b, a) }
	default:
		return
	}

	sort.SliceStable(accounts, func(i, j int) bool { return less(accounts[i], accounts[j]) })
}
