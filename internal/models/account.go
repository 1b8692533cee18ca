package models

import "time"

// Account is a bank-owned ledger participant holding a non-negative balance
// in minor currency units. The balance is written only by the balance
// updater while holding the account's lease.
type Account struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	BankID       string     `json:"bank_id"`
	BalanceCents int64      `json:"balance_cents"`
	CreatedAt    time.Time  `json:"created_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the account has been soft-deleted.
func (a *Account) Deleted() bool {
	return a.DeletedAt != nil
}

// Ref returns the participant reference for this account.
func (a *Account) Ref() ParticipantRef {
	return ParticipantRef{Kind: KindAccount, ID: a.ID}
}
