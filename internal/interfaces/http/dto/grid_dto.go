package dto

import (
	"github.com/shopspring/decimal"

	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/domain/scoring"
)

// CriterionResponse describes one column of the evaluation grid
type CriterionResponse struct {
	ID         string           `json:"id"`
	ShortLabel string           `json:"short_label"`
	FullLabel  string           `json:"full_label"`
	Cap        *decimal.Decimal `json:"cap,omitempty"`
	ColumnCode string           `json:"column_code"`
}

// SelectionResponse is one underlying selection of a grid row
type SelectionResponse struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	SchoolName string `json:"school_name,omitempty"`
}

// GridRowResponse is one consolidated row of the evaluation grid
type GridRowResponse struct {
	ID          string                     `json:"id"`
	DisplayName string                     `json:"display_name"`
	Kind        string                     `json:"kind"`
	Selections  []SelectionResponse        `json:"selections"`
	Scores      map[string]decimal.Decimal `json:"scores"`
	Total       decimal.Decimal            `json:"total"`
	Status      string                     `json:"status"`
	TitleType   string                     `json:"title_type,omitempty"`
	Notes       string                     `json:"notes,omitempty"`
}

// GridResponse is the full evaluation grid for one inscription
type GridResponse struct {
	InscriptionID string              `json:"inscription_id"`
	Criteria      []CriterionResponse `json:"criteria"`
	Rows          []GridRowResponse   `json:"rows"`
}

// EditCriterionRequest asks for one criterion change on one row
type EditCriterionRequest struct {
	RowIndex    int             `json:"row_index" binding:"min=0"`
	CriterionID string          `json:"criterion_id" binding:"required"`
	Value       decimal.Decimal `json:"value"`
}

// RowStateRequest carries the client-side state of one grid row on save
type RowStateRequest struct {
	ID        string                     `json:"id" binding:"required"`
	Scores    map[string]decimal.Decimal `json:"scores"`
	TitleType string                     `json:"title_type"`
	Notes     string                     `json:"notes"`
}

// SaveGridRequest persists the whole grid
type SaveGridRequest struct {
	Finalize bool              `json:"finalize"`
	Rows     []RowStateRequest `json:"rows" binding:"required,min=1"`
}

// NewCriterionResponses maps the fixed criterion catalog
func NewCriterionResponses() []CriterionResponse {
	catalog := scoring.Criteria()
	out := make([]CriterionResponse, len(catalog))
	for i, c := range catalog {
		out[i] = CriterionResponse{
			ID:         c.ID,
			ShortLabel: c.ShortLabel,
			FullLabel:  c.FullLabel,
			Cap:        c.Cap,
			ColumnCode: c.ColumnCode,
		}
	}
	return out
}

// NewGridResponse maps a domain grid
func NewGridResponse(grid *scoring.Grid) GridResponse {
	rows := make([]GridRowResponse, len(grid.Rows))
	for i, row := range grid.Rows {
		rows[i] = newGridRowResponse(row)
	}
	return GridResponse{
		InscriptionID: grid.InscriptionID.String(),
		Criteria:      NewCriterionResponses(),
		Rows:          rows,
	}
}

func newGridRowResponse(row scoring.GroupedRow) GridRowResponse {
	selections := make([]SelectionResponse, len(row.Selections))
	for i, sel := range row.Selections {
		selections[i] = SelectionResponse{
			ID:         sel.ID.String(),
			Kind:       string(sel.Kind),
			Name:       sel.DisplayName(),
			SchoolName: sel.SchoolName,
		}
	}

	scores := make(map[string]decimal.Decimal, scoring.CriterionCount)
	for _, c := range scoring.Criteria() {
		scores[c.ID] = row.Evaluation.Scores.Get(c.ID)
	}

	return GridRowResponse{
		ID:          row.ID,
		DisplayName: row.DisplayName,
		Kind:        string(row.Kind),
		Selections:  selections,
		Scores:      scores,
		Total:       row.Evaluation.Total,
		Status:      string(row.Evaluation.Status),
		TitleType:   string(row.Evaluation.TitleType),
		Notes:       row.Evaluation.Notes,
	}
}

// InscriptionResponse is one inscription in listings
type InscriptionResponse struct {
	ID              string `json:"id"`
	ApplicantID     string `json:"applicant_id"`
	PeriodID        string `json:"period_id"`
	Level           string `json:"level"`
	SubjectArea     string `json:"subject_area"`
	ExperienceYears int    `json:"experience_years"`
	CreatedAt       string `json:"created_at"`
}

// NewInscriptionResponse maps a domain inscription
func NewInscriptionResponse(ins registration.Inscription) InscriptionResponse {
	return InscriptionResponse{
		ID:              ins.ID.String(),
		ApplicantID:     ins.ApplicantID.String(),
		PeriodID:        ins.PeriodID.String(),
		Level:           string(ins.Level),
		SubjectArea:     ins.SubjectArea,
		ExperienceYears: ins.ExperienceYears,
		CreatedAt:       ins.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
