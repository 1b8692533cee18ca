package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/parkside-eng/ledgerd/internal/models"
)

// changeFlags records which validation-relevant fields an edit touches.
// Conditional rules (date-in-past, participant checks, balance coverage)
// only re-run for fields that actually changed, so a pending transaction
// whose date has since passed can still have its description edited.
type changeFlags struct {
	participants bool
	date         bool
	amount       bool
}

// fullChange runs every conditional rule, as on create.
var fullChange = changeFlags{participants: true, date: true, amount: true}

func (f changeFlags) any() bool {
	return f.participants || f.date || f.amount
}

// validateTransaction checks every invariant against the prospective
// record, collecting all violations. Participant lookups that fail
// propagate as not-found errors rather than validation messages.
func (s *Service) validateTransaction(ctx context.Context, txn *models.Transaction, flags changeFlags) error {
	verr := &models.ValidationErrors{}

	if txn.AmountCents < 0 {
		verr.Add(models.MsgAmountNegative)
	}
	if utf8.RuneCountInString(strings.TrimSpace(txn.Description)) < 3 {
		verr.Add(models.MsgDescriptionTooShort)
	}
	if txn.TransactionDate.IsZero() {
		verr.Add(models.MsgDateRequired)
	} else if flags.date && txn.TransactionDate.Before(s.today()) {
		verr.Add(models.MsgDateInPast)
	}

	sender, err := s.resolveParticipant(ctx, txn.Sender)
	if err != nil {
		return err
	}
	recipient, err := s.resolveParticipant(ctx, txn.Recipient)
	if err != nil {
		return err
	}

	if flags.participants {
		if txn.Sender.Equal(txn.Recipient) {
			verr.Add(models.MsgSameParticipants)
		} else if sender.bankID != recipient.bankID {
			verr.Add(models.MsgDifferentBanks)
		}
	}

	if (flags.amount || flags.participants) && sender.account != nil && sender.account.BalanceCents < txn.AmountCents {
		verr.Add(models.MsgInsufficientBalance)
	}

	return verr.OrNil()
}

// validateName checks a bank or account name for presence and length.
func validateName(name string) error {
	verr := &models.ValidationErrors{}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		verr.Add(models.MsgNameRequired)
	} else if utf8.RuneCountInString(trimmed) > models.MaxNameLength {
		verr.Add(models.MsgNameTooLong)
	}
	return verr.OrNil()
}

// parseDate parses a "2006-01-02" transaction date. Empty input yields the
// zero time, which validation reports as a missing date.
func parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	parsed, err := time.Parse("2006-01-02", strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, models.NewValidationError(fmt.Sprintf("transaction date '%s' is invalid", value))
	}
	return models.DateOnly(parsed), nil
}
