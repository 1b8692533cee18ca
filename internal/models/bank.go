package models

import "time"

// MaxNameLength is the longest permitted bank or account name.
const MaxNameLength = 30

// Bank is a ledger participant that owns accounts. Banks never hold a
// balance directly; funding moves from a bank to one of its accounts.
type Bank struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Deleted reports whether the bank has been soft-deleted.
func (b *Bank) Deleted() bool {
	return b.DeletedAt != nil
}

// Ref returns the participant reference for this bank.
func (b *Bank) Ref() ParticipantRef {
	return ParticipantRef{Kind: KindBank, ID: b.ID}
}
