package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("AEST", 10*60*60)
	in := time.Date(2026, 3, 10, 23, 45, 12, 999, loc)

	got := DateOnly(in)
	require.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), got)

	// Already-normalized input is a fixed point
	require.Equal(t, got, DateOnly(got))
}

func TestTransactionDueBy(t *testing.T) {
	txn := &Transaction{TransactionDate: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)}

	require.False(t, txn.DueBy(time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)))
	// Due any time during the transaction's own day
	require.True(t, txn.DueBy(time.Date(2026, 3, 15, 0, 0, 1, 0, time.UTC)))
	require.True(t, txn.DueBy(time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)))
}

func TestParticipantRef(t *testing.T) {
	a := ParticipantRef{Kind: KindAccount, ID: "42"}
	b := ParticipantRef{Kind: KindBank, ID: "42"}

	require.True(t, a.Equal(ParticipantRef{Kind: KindAccount, ID: "42"}))
	require.False(t, a.Equal(b), "same id with different kinds is a different participant")

	require.True(t, a.IsAccount())
	require.False(t, b.IsAccount())

	require.Equal(t, "sender:Account:42", a.LockKey("sender"))
	require.Equal(t, "recipient:Bank:42", b.LockKey("recipient"))
	require.Equal(t, "Account:42", a.SortKey())

	require.True(t, KindBank.Valid())
	require.True(t, KindAccount.Valid())
	require.False(t, ParticipantKind("Wallet").Valid())
}

func TestValidationErrors(t *testing.T) {
	verr := &ValidationErrors{}
	require.False(t, verr.Any())
	require.NoError(t, verr.OrNil())

	verr.Add(MsgNameRequired)
	verr.Add(MsgNameTooLong)
	require.True(t, verr.Any())
	require.Error(t, verr.OrNil())
	require.Equal(t, MsgNameRequired+"; "+MsgNameTooLong, verr.Error())

	got, ok := AsValidation(verr.OrNil())
	require.True(t, ok)
	require.Len(t, got.Messages, 2)

	// Unwraps through wrapping
	wrapped := fmt.Errorf("saving failed: %w", verr)
	got, ok = AsValidation(wrapped)
	require.True(t, ok)
	require.Len(t, got.Messages, 2)

	_, ok = AsValidation(errors.New("plain"))
	require.False(t, ok)
	_, ok = AsValidation(nil)
	require.False(t, ok)
}

func TestSoftDeleteAccessors(t *testing.T) {
	now := time.Now()

	bank := &Bank{ID: "b1"}
	require.False(t, bank.Deleted())
	bank.DeletedAt = &now
	require.True(t, bank.Deleted())

	txn := &Transaction{Pending: true}
	require.False(t, txn.Completed())
	txn.Pending = false
	require.True(t, txn.Completed())
}
