package registration

import (
	"github.com/google/uuid"
)

// SelectionKind discriminates the two selection variants. Every consumer
// must switch on it; there are no other kinds.
type SelectionKind string

const (
	SelectionKindSubject  SelectionKind = "subject"
	SelectionKindPosition SelectionKind = "position"
)

// IsValid checks if the selection kind is valid
func (k SelectionKind) IsValid() bool {
	return k == SelectionKindSubject || k == SelectionKindPosition
}

// UnnamedBucket is the sentinel display name for selections whose subject or
// position name could not be resolved. They are grouped here instead of
// being dropped from the grid.
const UnnamedBucket = "(sin nombre)"

// Selection is an applicant's claim to a specific subject or administrative
// position within an inscription. Selections are read-only inputs owned by
// the registration subsystem; the scoring engine never creates or deletes
// them.
type Selection struct {
	ID            uuid.UUID     `json:"id"`
	InscriptionID uuid.UUID     `json:"inscription_id"`
	Kind          SelectionKind `json:"kind"`
	// RefID points at the subject or position catalog entry, per Kind
	RefID      uuid.UUID `json:"ref_id"`
	Name       string    `json:"name"`
	SchoolName string    `json:"school_name"`
}

// DisplayName returns the human-readable name used for grouping, falling
// back to the unnamed sentinel
func (s Selection) DisplayName() string {
	if s.Name == "" {
		return UnnamedBucket
	}
	return s.Name
}
