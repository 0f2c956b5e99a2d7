package scoring

import (
	"fmt"

	"github.com/junta/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Edit is a single criterion change requested on one row of the grid
type Edit struct {
	RowIndex    int
	CriterionID string
	Value       decimal.Decimal
}

// Apply runs one edit through the replication rules and returns the
// resulting grid. The input grid is never mutated, so a rejected edit
// leaves the caller's state exactly as it was.
//
// Every criterion except titulo broadcasts: the value lands on the edited
// row and on every other row still in draft. Titulo is row-local because
// titles are per-subject and must never be copied automatically.
// Validation runs against every target row before anything is written;
// one violation rejects the whole edit.
func Apply(g Grid, e Edit) (Grid, error) {
	if e.RowIndex < 0 || e.RowIndex >= len(g.Rows) {
		return g, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("fila %d inexistente", e.RowIndex))
	}
	c, ok := CriterionByID(e.CriterionID)
	if !ok {
		return g, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("criterio desconocido: %s", e.CriterionID))
	}
	if e.Value.IsNegative() {
		return g, shared.NewDomainError("VALIDATION_ERROR",
			fmt.Sprintf("el puntaje de %s no puede ser negativo", c.ShortLabel))
	}

	edited := g.Rows[e.RowIndex]
	if edited.Evaluation.Status == StatusCompleted {
		return g, shared.NewDomainError("INVALID_STATE",
			"La fila está cerrada; reabrir la evaluación para editarla")
	}

	targets := []int{e.RowIndex}
	if c.ID != CriterionTitulo {
		for i, row := range g.Rows {
			if i != e.RowIndex && row.Evaluation.Status != StatusCompleted {
				targets = append(targets, i)
			}
		}
	}

	for _, i := range targets {
		cap, capped := CapFor(c.ID, g.Rows[i].Evaluation.TitleType)
		if capped && e.Value.GreaterThan(cap) {
			return g, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("el puntaje de %s supera el máximo permitido (%s)", c.ShortLabel, cap.String()))
		}
	}

	out := g.Clone()
	for _, i := range targets {
		rec := out.Rows[i].Evaluation
		rec.Scores = rec.Scores.With(c.ID, e.Value)
		rec.Total = rec.Scores.Total()
	}
	return out, nil
}

// BroadcastTitleScore copies row 0's titulo score onto every other row
// still in draft. Unlike regular edits this never happens automatically;
// it is a named shortcut action the UI invokes on demand. Each target row
// is validated against its own title-type cap; one violation rejects the
// whole action.
func BroadcastTitleScore(g Grid) (Grid, error) {
	if len(g.Rows) == 0 {
		return g, nil
	}
	value := g.Rows[0].Evaluation.Scores.Get(CriterionTitulo)

	for i, row := range g.Rows {
		if i == 0 || row.Evaluation.Status == StatusCompleted {
			continue
		}
		cap := row.Evaluation.TitleType.Cap()
		if value.GreaterThan(cap) {
			return g, shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("el puntaje de título (%s) supera el máximo de la fila %d (%s)",
					value.String(), i, cap.String()))
		}
	}

	out := g.Clone()
	for i := range out.Rows {
		if i == 0 || out.Rows[i].Evaluation.Status == StatusCompleted {
			continue
		}
		rec := out.Rows[i].Evaluation
		rec.Scores = rec.Scores.With(CriterionTitulo, value)
		rec.Total = rec.Scores.Total()
	}
	return out, nil
}

// SetTitleType changes one row's title type, re-checking its titulo score
// against the new cap
func SetTitleType(g Grid, rowIndex int, t TitleType) (Grid, error) {
	if rowIndex < 0 || rowIndex >= len(g.Rows) {
		return g, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("fila %d inexistente", rowIndex))
	}
	if !t.IsValid() {
		return g, shared.NewDomainError("INVALID_INPUT",
			fmt.Sprintf("tipo de título desconocido: %s", string(t)))
	}
	out := g.Clone()
	if err := out.Rows[rowIndex].Evaluation.SetTitleType(t); err != nil {
		return g, err
	}
	return out, nil
}

// FinalizeAll marks every row completed in memory. Persistence is the
// application layer's concern.
func FinalizeAll(g Grid) Grid {
	out := g.Clone()
	for i := range out.Rows {
		if out.Rows[i].Evaluation.Status != StatusCompleted {
			out.Rows[i].Evaluation.Status = StatusCompleted
		}
	}
	return out
}

// ReopenAll returns every row to draft in memory
func ReopenAll(g Grid) Grid {
	out := g.Clone()
	for i := range out.Rows {
		out.Rows[i].Evaluation.Status = StatusDraft
	}
	return out
}
