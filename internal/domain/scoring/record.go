package scoring

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EvaluationStatus represents the lifecycle state of an evaluation record
type EvaluationStatus string

const (
	StatusDraft     EvaluationStatus = "draft"
	StatusCompleted EvaluationStatus = "completed"
)

// IsValid checks if the status is valid
func (s EvaluationStatus) IsValid() bool {
	return s == StatusDraft || s == StatusCompleted
}

// EvaluationRecord is the aggregate root of the scoring context. One record
// scores one selection (subject or position) of one inscription; exactly one
// of SubjectSelectionID / PositionSelectionID is set.
//
// Invariants: Total always equals the two-decimal rounded sum of Scores, and
// the store holds at most one record per (inscription, selection) pair.
type EvaluationRecord struct {
	shared.BaseAggregateRoot
	InscriptionID       uuid.UUID
	EvaluatorID         uuid.UUID
	SubjectSelectionID  *uuid.UUID
	PositionSelectionID *uuid.UUID
	Scores              ScoreVector
	Total               decimal.Decimal
	Notes               string
	Status              EvaluationStatus
	TitleType           TitleType
}

// NewSubjectEvaluation creates a zero-valued draft record attached to a
// subject selection
func NewSubjectEvaluation(inscriptionID, selectionID, evaluatorID uuid.UUID) *EvaluationRecord {
	r := newDraft(inscriptionID, evaluatorID)
	r.SubjectSelectionID = &selectionID
	return r
}

// NewPositionEvaluation creates a zero-valued draft record attached to a
// position selection
func NewPositionEvaluation(inscriptionID, selectionID, evaluatorID uuid.UUID) *EvaluationRecord {
	r := newDraft(inscriptionID, evaluatorID)
	r.PositionSelectionID = &selectionID
	return r
}

func newDraft(inscriptionID, evaluatorID uuid.UUID) *EvaluationRecord {
	return &EvaluationRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InscriptionID:     inscriptionID,
		EvaluatorID:       evaluatorID,
		Scores:            ZeroScores(),
		Total:             decimal.Zero,
		Status:            StatusDraft,
		TitleType:         TitleTypeUnknown,
	}
}

// SelectionID returns whichever selection the record attaches to
func (r *EvaluationRecord) SelectionID() *uuid.UUID {
	if r.SubjectSelectionID != nil {
		return r.SubjectSelectionID
	}
	return r.PositionSelectionID
}

// AttachedToSelection reports whether the record points at the given selection
func (r *EvaluationRecord) AttachedToSelection(selectionID uuid.UUID) bool {
	sel := r.SelectionID()
	return sel != nil && *sel == selectionID
}

// SetScore validates one score against its cap and applies it, recomputing
// the total
func (r *EvaluationRecord) SetScore(criterionID string, value decimal.Decimal) error {
	c, ok := CriterionByID(criterionID)
	if !ok {
		panic(fmt.Sprintf("scoring: unknown criterion %q", criterionID))
	}
	if value.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("el puntaje de %s no puede ser negativo", c.ShortLabel))
	}
	cap, capped := CapFor(criterionID, r.TitleType)
	if capped && value.GreaterThan(cap) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("el puntaje de %s supera el máximo permitido (%s)", c.ShortLabel, cap.String()))
	}
	r.Scores = r.Scores.With(criterionID, value)
	r.Total = r.Scores.Total()
	return nil
}

// SetScores validates and replaces the full score vector, recomputing the
// total
func (r *EvaluationRecord) SetScores(scores ScoreVector) error {
	if err := scores.Validate(r.TitleType); err != nil {
		return err
	}
	r.Scores = scores
	r.Total = scores.Total()
	return nil
}

// SetTitleType changes the record's title type. The titulo score is
// re-checked against the new cap.
func (r *EvaluationRecord) SetTitleType(t TitleType) error {
	titulo := r.Scores.Get(CriterionTitulo)
	if titulo.GreaterThan(t.Cap()) {
		return shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("el puntaje de título (%s) supera el máximo del tipo %s (%s)",
				titulo.String(), string(t), t.Cap().String()))
	}
	r.TitleType = t
	return nil
}

// SetNotes replaces the free-form notes
func (r *EvaluationRecord) SetNotes(notes string) {
	r.Notes = notes
}

// Finalize marks the record as completed
func (r *EvaluationRecord) Finalize() error {
	if r.Status == StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "La evaluación ya está cerrada")
	}
	r.Status = StatusCompleted
	r.IncrementVersion()
	r.AddDomainEvent(NewEvaluationFinalizedEvent(r))
	return nil
}

// Reopen returns a completed record to draft
func (r *EvaluationRecord) Reopen() error {
	if r.Status != StatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "La evaluación no está cerrada")
	}
	r.Status = StatusDraft
	r.IncrementVersion()
	return nil
}

// Clone returns a deep copy of the record without pending domain events
func (r *EvaluationRecord) Clone() *EvaluationRecord {
	out := *r
	out.ClearDomainEvents()
	if r.SubjectSelectionID != nil {
		id := *r.SubjectSelectionID
		out.SubjectSelectionID = &id
	}
	if r.PositionSelectionID != nil {
		id := *r.PositionSelectionID
		out.PositionSelectionID = &id
	}
	return &out
}
