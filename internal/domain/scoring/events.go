package scoring

import (
	"github.com/junta/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the scoring context
const (
	EventEvaluationSaved     = "scoring.evaluation.saved"
	EventEvaluationFinalized = "scoring.evaluation.finalized"
)

// EvaluationSavedEvent is published when an evaluation record is persisted
type EvaluationSavedEvent struct {
	shared.BaseDomainEvent
	InscriptionID string          `json:"inscription_id"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
}

// NewEvaluationSavedEvent creates a new EvaluationSavedEvent
func NewEvaluationSavedEvent(r *EvaluationRecord) *EvaluationSavedEvent {
	return &EvaluationSavedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventEvaluationSaved, "EvaluationRecord", r.ID),
		InscriptionID:   r.InscriptionID.String(),
		Total:           r.Total,
		Status:          string(r.Status),
	}
}

// EvaluationFinalizedEvent is published when a draft evaluation is closed
type EvaluationFinalizedEvent struct {
	shared.BaseDomainEvent
	InscriptionID string          `json:"inscription_id"`
	Total         decimal.Decimal `json:"total"`
}

// NewEvaluationFinalizedEvent creates a new EvaluationFinalizedEvent
func NewEvaluationFinalizedEvent(r *EvaluationRecord) *EvaluationFinalizedEvent {
	return &EvaluationFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventEvaluationFinalized, "EvaluationRecord", r.ID),
		InscriptionID:   r.InscriptionID.String(),
		Total:           r.Total,
	}
}
