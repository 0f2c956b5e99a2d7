package bulk

import (
	"github.com/junta/backend/internal/domain/shared"
)

// Event types for the bulk import context
const (
	EventImportCompleted = "bulk.import.completed"
)

// ImportCompletedEvent is published when an import run reaches a terminal
// state, whether completed, failed or cancelled
type ImportCompletedEvent struct {
	shared.BaseDomainEvent
	Status       string `json:"status"`
	TotalRows    int    `json:"total_rows"`
	ImportedRows int    `json:"imported_rows"`
	SkippedRows  int    `json:"skipped_rows"`
	ErrorRows    int    `json:"error_rows"`
}

// NewImportCompletedEvent creates a new ImportCompletedEvent
func NewImportCompletedEvent(h *ImportHistory) *ImportCompletedEvent {
	return &ImportCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventImportCompleted, "ImportHistory", h.ID),
		Status:          string(h.Status),
		TotalRows:       h.TotalRows,
		ImportedRows:    h.ImportedRows,
		SkippedRows:     h.SkippedRows,
		ErrorRows:       h.ErrorRows,
	}
}
