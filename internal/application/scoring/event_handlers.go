package scoringapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/junta/backend/internal/domain/bulk"
	"github.com/junta/backend/internal/domain/scoring"
	"github.com/junta/backend/internal/domain/shared"
)

// EvaluationAuditHandler writes an audit log line for every evaluation
// lifecycle event, including import runs touching the record store. The
// log stream is the audit trail of who closed which evaluation and with
// which total.
type EvaluationAuditHandler struct {
	logger *zap.Logger
}

// NewEvaluationAuditHandler creates a new EvaluationAuditHandler
func NewEvaluationAuditHandler(logger *zap.Logger) *EvaluationAuditHandler {
	return &EvaluationAuditHandler{logger: logger}
}

// EventTypes returns the event types this handler processes
func (h *EvaluationAuditHandler) EventTypes() []string {
	return []string{
		scoring.EventEvaluationSaved,
		scoring.EventEvaluationFinalized,
		bulk.EventImportCompleted,
	}
}

// Handle logs the event
func (h *EvaluationAuditHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *scoring.EvaluationSavedEvent:
		h.logger.Info("evaluation saved",
			zap.String("record_id", e.AggregateID().String()),
			zap.String("inscription_id", e.InscriptionID),
			zap.String("total", e.Total.String()),
			zap.String("status", e.Status),
		)
	case *scoring.EvaluationFinalizedEvent:
		h.logger.Info("evaluation finalized",
			zap.String("record_id", e.AggregateID().String()),
			zap.String("inscription_id", e.InscriptionID),
			zap.String("total", e.Total.String()),
		)
	case *bulk.ImportCompletedEvent:
		h.logger.Info("import run finished",
			zap.String("history_id", e.AggregateID().String()),
			zap.String("status", e.Status),
			zap.Int("imported", e.ImportedRows),
			zap.Int("skipped", e.SkippedRows),
			zap.Int("errors", e.ErrorRows),
		)
	default:
		h.logger.Debug("unhandled evaluation event",
			zap.String("event_type", event.EventType()),
		)
	}
	return nil
}

var _ shared.EventHandler = (*EvaluationAuditHandler)(nil)
