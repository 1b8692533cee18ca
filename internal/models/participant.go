package models

// ParticipantKind discriminates the two kinds of ledger participants.
type ParticipantKind string

// Participant kind constants. The values double as the persisted
// discriminator, so they must stay stable.
const (
	KindBank    ParticipantKind = "Bank"
	KindAccount ParticipantKind = "Account"
)

// Valid reports whether the kind is one of the known participant kinds.
func (k ParticipantKind) Valid() bool {
	return k == KindBank || k == KindAccount
}

// ParticipantRef identifies a transfer participant as a tagged (kind, id)
// pair. Balance-affecting behavior only applies to the Account kind.
type ParticipantRef struct {
	Kind ParticipantKind `json:"kind"`
	ID   string          `json:"id"`
}

// Equal reports whether two references identify the same participant.
// Kind and ID must both match.
func (r ParticipantRef) Equal(other ParticipantRef) bool {
	return r.Kind == other.Kind && r.ID == other.ID
}

// IsAccount reports whether the reference points at an account.
func (r ParticipantRef) IsAccount() bool {
	return r.Kind == KindAccount
}

// LockKey returns the role-scoped lock key for this participant,
// e.g. "sender:Account:42".
func (r ParticipantRef) LockKey(role string) string {
	return role + ":" + string(r.Kind) + ":" + r.ID
}

// SortKey returns the canonical ordering key for this participant,
// used to acquire the two transfer leases in a global partial order.
func (r ParticipantRef) SortKey() string {
	return string(r.Kind) + ":" + r.ID
}
