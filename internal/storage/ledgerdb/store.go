// Package ledgerdb implements interfaces.LedgerStore using BadgerHold.
// It persists banks, accounts, and transactions with soft deletion, and
// enforces the uniqueness and numeric constraints the service layer relies
// on at save time.
package ledgerdb

import (
	"fmt"
	"os"
	"strings"

	"github.com/timshannon/badgerhold/v4"

	"github.com/parkside-eng/ledgerd/internal/common"
	"github.com/parkside-eng/ledgerd/internal/interfaces"
)

// Compile-time interface check
var _ interfaces.LedgerStore = (*Store)(nil)

// Store implements interfaces.LedgerStore using BadgerHold.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new LedgerStore backed by BadgerHold.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create ledger db path %s: %w", path, err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = path
	opts.ValueDir = path
	opts.Logger = nil
	db, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger db at %s: %w", path, err)
	}
	logger.Info().Str("path", path).Msg("LedgerDB opened")
	return &Store{db: db, logger: logger}, nil
}

// normalizeName folds a bank or account name for case-insensitive
// uniqueness comparison.
func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Close shuts down the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
