package models

import (
	"errors"
	"strings"
)

// Sentinel errors recognized across the service and adapter layers.
var (
	// ErrNotFound indicates a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrLockTimeout indicates a lease could not be acquired within the
	// configured wait. The enclosing operation fails with no mutation.
	ErrLockTimeout = errors.New("failed to acquire lock")
)

// Validation messages. These mirror the wording the API has always used,
// so they are part of the external contract.
const (
	MsgNameRequired           = "name can't be blank"
	MsgNameTooLong            = "name is too long (maximum is 30 characters)"
	MsgNameTaken              = "name has already been taken"
	MsgDescriptionTooShort    = "description is too short (minimum is 3 characters)"
	MsgDateRequired           = "transaction date can't be blank"
	MsgDateInPast             = "transaction date is in the past"
	MsgAmountNegative         = "amount must be greater than or equal to 0"
	MsgBalanceNegative        = "balance must be greater than or equal to 0"
	MsgSameParticipants       = "sender and recipient are the same"
	MsgDifferentBanks         = "sender and recipient belong to different banks"
	MsgInsufficientBalance    = "sender has insufficient balance"
	MsgNonUpdatable           = "completed transaction can not be updated"
	MsgNonDeletable           = "completed transaction can not be deleted"
	MsgNotADuplicate          = "transaction is not a duplicate"
	MsgNotCompleted           = "pending transaction can not be marked duplicate"
	MsgFailedToAcquireLock    = "failed to acquire lock"
	MsgUnknownParticipantKind = "participant kind must be Bank or Account"
)

// ValidationErrors collects human-readable invariant violations. It is
// returned in full rather than failing on the first broken rule.
type ValidationErrors struct {
	Messages []string `json:"errors"`
}

// NewValidationError builds a ValidationErrors holding the given messages.
func NewValidationError(messages ...string) *ValidationErrors {
	return &ValidationErrors{Messages: messages}
}

// Add appends a message to the collection.
func (e *ValidationErrors) Add(message string) {
	e.Messages = append(e.Messages, message)
}

// Any reports whether at least one violation was recorded.
func (e *ValidationErrors) Any() bool {
	return e != nil && len(e.Messages) > 0
}

// OrNil returns the collection as an error, or nil when empty.
func (e *ValidationErrors) OrNil() error {
	if e.Any() {
		return e
	}
	return nil
}

func (e *ValidationErrors) Error() string {
	return strings.Join(e.Messages, "; ")
}

// AsValidation unwraps err into a ValidationErrors if it is one.
func AsValidation(err error) (*ValidationErrors, bool) {
	var verr *ValidationErrors
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
