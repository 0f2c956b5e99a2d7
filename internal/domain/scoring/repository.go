package scoring

import (
	"context"

	"github.com/google/uuid"
	"github.com/junta/backend/internal/domain/registration"
)

// EvaluationRecordRepository provides access to persisted evaluation
// records. Upsert is the only write used by the save and reconciliation
// paths: the store's uniqueness constraint on (inscription, selection) is
// the sole guard against duplicate records.
type EvaluationRecordRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*EvaluationRecord, error)
	FindByInscription(ctx context.Context, inscriptionID uuid.UUID) ([]*EvaluationRecord, error)
	FindBySelection(ctx context.Context, inscriptionID, selectionID uuid.UUID, kind registration.SelectionKind) (*EvaluationRecord, error)
	// Upsert inserts the record or, when one already exists for the same
	// (inscription, selection) key, overwrites its scores, total, status,
	// notes, title type and evaluator
	Upsert(ctx context.Context, record *EvaluationRecord) error
	// Delete removes a record; privileged explicit action only
	Delete(ctx context.Context, id uuid.UUID) error
}
