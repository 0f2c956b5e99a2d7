package dto

import (
	"time"

	"github.com/junta/backend/internal/domain/bulk"
)

// ImportErrorResponse is one row-level error of a reconciliation run
type ImportErrorResponse struct {
	Row     int    `json:"row"`
	Legajo  string `json:"legajo,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportResultResponse summarizes a finished run
type ImportResultResponse struct {
	HistoryID    string                `json:"history_id"`
	TotalRows    int                   `json:"total_rows"`
	ImportedRows int                   `json:"imported_rows"`
	SkippedRows  int                   `json:"skipped_rows"`
	ErrorRows    int                   `json:"error_rows"`
	Errors       []ImportErrorResponse `json:"errors,omitempty"`
	IsTruncated  bool                  `json:"is_truncated,omitempty"`
	TotalErrors  int                   `json:"total_errors,omitempty"`
}

// ImportHistoryResponse is one past run in listings
type ImportHistoryResponse struct {
	ID           string                `json:"id"`
	EntityType   string                `json:"entity_type"`
	PeriodID     string                `json:"period_id"`
	FileName     string                `json:"file_name"`
	FileSize     int64                 `json:"file_size"`
	TotalRows    int                   `json:"total_rows"`
	ImportedRows int                   `json:"imported_rows"`
	SkippedRows  int                   `json:"skipped_rows"`
	ErrorRows    int                   `json:"error_rows"`
	Status       string                `json:"status"`
	SuccessRate  float64               `json:"success_rate"`
	Errors       []ImportErrorResponse `json:"errors,omitempty"`
	StartedAt    *time.Time            `json:"started_at,omitempty"`
	CompletedAt  *time.Time            `json:"completed_at,omitempty"`
	CreatedAt    time.Time             `json:"created_at"`
}

// NewImportErrorResponses maps row error details
func NewImportErrorResponses(details []bulk.ImportErrorDetail) []ImportErrorResponse {
	if len(details) == 0 {
		return nil
	}
	out := make([]ImportErrorResponse, len(details))
	for i, d := range details {
		out[i] = ImportErrorResponse{
			Row:     d.Row,
			Legajo:  d.Legajo,
			Code:    d.Code,
			Message: d.Message,
		}
	}
	return out
}

// NewImportHistoryResponse maps a domain import history
func NewImportHistoryResponse(h *bulk.ImportHistory) ImportHistoryResponse {
	return ImportHistoryResponse{
		ID:           h.ID.String(),
		EntityType:   string(h.EntityType),
		PeriodID:     h.PeriodID.String(),
		FileName:     h.FileName,
		FileSize:     h.FileSize,
		TotalRows:    h.TotalRows,
		ImportedRows: h.ImportedRows,
		SkippedRows:  h.SkippedRows,
		ErrorRows:    h.ErrorRows,
		Status:       string(h.Status),
		SuccessRate:  h.SuccessRate(),
		Errors:       NewImportErrorResponses(h.ErrorDetails),
		StartedAt:    h.StartedAt,
		CompletedAt:  h.CompletedAt,
		CreatedAt:    h.CreatedAt,
	}
}
