package progress

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot is the publicly visible state of a running padrón import.
// The UI polls this while the pipeline works through its chunks.
type Snapshot struct {
	ImportID      uuid.UUID `json:"import_id"`
	Status        string    `json:"status"`
	Percentage    int       `json:"percentage"`
	ProcessedRows int       `json:"processed_rows"`
	TotalRows     int       `json:"total_rows"`
	ImportedRows  int       `json:"imported_rows"`
	SkippedRows   int       `json:"skipped_rows"`
	ErrorRows     int       `json:"error_rows"`
	Message       string    `json:"message,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Store publishes and serves import progress snapshots
type Store interface {
	// Publish stores the latest snapshot for an import
	Publish(ctx context.Context, snap Snapshot) error

	// Get returns the latest snapshot for an import, or shared.ErrNotFound
	Get(ctx context.Context, importID uuid.UUID) (*Snapshot, error)
}
