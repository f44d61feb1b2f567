package domain

import (
	"github.com/google/uuid"

	dErrors "docflow/pkg/domain-errors"
)

// Typed identifiers keep party and document keys from being mixed up at
// compile time. Both are UUIDs underneath.
type (
	PartyID    uuid.UUID
	DocumentID uuid.UUID
)

func NewPartyID() PartyID       { return PartyID(uuid.New()) }
func NewDocumentID() DocumentID { return DocumentID(uuid.New()) }

// ParsePartyID parses s and rejects empty, malformed or nil UUIDs.
func ParsePartyID(s string) (PartyID, error) {
	if s == "" {
		return PartyID{}, dErrors.New(dErrors.CodeInvalidInput, "party_id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return PartyID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid party_id")
	}
	if u == uuid.Nil {
		return PartyID{}, dErrors.New(dErrors.CodeInvalidInput, "party_id cannot be nil")
	}
	return PartyID(u), nil
}

func (id PartyID) String() string { return uuid.UUID(id).String() }
func (id PartyID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

// Short returns the first UUID group, used in display labels.
func (id PartyID) Short() string { return uuid.UUID(id).String()[:8] }

func (id DocumentID) String() string { return uuid.UUID(id).String() }
func (id DocumentID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) Short() string  { return uuid.UUID(id).String()[:8] }
