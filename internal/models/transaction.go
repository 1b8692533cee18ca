package models

import "time"

// Transaction is a transfer record between two participants of the same
// bank. It is created pending and completes when its date arrives; a
// completed transaction may later be marked duplicate, which reverses its
// economic effect. Completed transactions are immutable apart from the
// duplicate flag, and only pending transactions may be deleted.
type Transaction struct {
	ID              string         `json:"id"`
	Sender          ParticipantRef `json:"sender"`
	Recipient       ParticipantRef `json:"recipient"`
	AmountCents     int64          `json:"amount_cents"`
	TransactionDate time.Time      `json:"transaction_date"`
	Description     string         `json:"description"`
	Pending         bool           `json:"pending"`
	Duplicate       bool           `json:"duplicate"`
	CreatedAt       time.Time      `json:"created_at"`
	DeletedAt       *time.Time     `json:"deleted_at,omitempty"`
}

// Deleted reports whether the transaction has been soft-deleted.
func (t *Transaction) Deleted() bool {
	return t.DeletedAt != nil
}

// Completed reports whether the transfer's economic effect has been applied.
func (t *Transaction) Completed() bool {
	return !t.Pending
}

// DueBy reports whether the transaction date has arrived relative to the
// given day. Both sides are compared as calendar dates.
func (t *Transaction) DueBy(day time.Time) bool {
	return !t.TransactionDate.After(DateOnly(day))
}

// DateOnly normalizes t to midnight UTC of its calendar date. Transaction
// dates and "today" comparisons all go through this so that wall-clock
// time and server timezone never affect due/past checks.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
