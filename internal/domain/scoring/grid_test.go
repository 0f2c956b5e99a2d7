package scoring

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/junta/backend/internal/domain/registration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subjectSelection(inscriptionID uuid.UUID, name, school string) registration.Selection {
	return registration.Selection{
		ID:            uuid.New(),
		InscriptionID: inscriptionID,
		Kind:          registration.SelectionKindSubject,
		RefID:         uuid.New(),
		Name:          name,
		SchoolName:    school,
	}
}

func positionSelection(inscriptionID uuid.UUID, name, school string) registration.Selection {
	return registration.Selection{
		ID:            uuid.New(),
		InscriptionID: inscriptionID,
		Kind:          registration.SelectionKindPosition,
		RefID:         uuid.New(),
		Name:          name,
		SchoolName:    school,
	}
}

func TestConsolidateGrouping(t *testing.T) {
	inscriptionID := uuid.New()
	evaluatorID := uuid.New()

	t.Run("selections sharing a name merge into one row", func(t *testing.T) {
		sels := []registration.Selection{
			subjectSelection(inscriptionID, "Matemática", "Esc. N°12"),
			subjectSelection(inscriptionID, "Matemática", "Esc. N°5"),
			subjectSelection(inscriptionID, "Física", "Esc. N°12"),
		}
		grid := Consolidate(inscriptionID, evaluatorID, sels, nil)

		require.Len(t, grid.Rows, 2)
		assert.Equal(t, "Física", grid.Rows[0].DisplayName)
		assert.Equal(t, "Matemática (Esc. N°12 / Esc. N°5)", grid.Rows[1].DisplayName)
		assert.Len(t, grid.Rows[1].Selections, 2)
	})

	t.Run("same name under different kinds stays separate", func(t *testing.T) {
		sels := []registration.Selection{
			subjectSelection(inscriptionID, "Preceptoría", "Esc. N°1"),
			positionSelection(inscriptionID, "Preceptoría", "Esc. N°1"),
		}
		grid := Consolidate(inscriptionID, evaluatorID, sels, nil)

		require.Len(t, grid.Rows, 2)
		assert.Equal(t, registration.SelectionKindSubject, grid.Rows[0].Kind)
		assert.Equal(t, registration.SelectionKindPosition, grid.Rows[1].Kind)
	})

	t.Run("unnamed selections collapse into the sentinel bucket", func(t *testing.T) {
		sels := []registration.Selection{
			subjectSelection(inscriptionID, "", "Esc. N°3"),
			subjectSelection(inscriptionID, "", "Esc. N°8"),
		}
		grid := Consolidate(inscriptionID, evaluatorID, sels, nil)

		require.Len(t, grid.Rows, 1, "unnamed selections must not be dropped")
		assert.Contains(t, grid.Rows[0].DisplayName, registration.UnnamedBucket)
	})
}

func TestConsolidateMatching(t *testing.T) {
	inscriptionID := uuid.New()
	evaluatorID := uuid.New()

	t.Run("exact selection match wins", func(t *testing.T) {
		sel := subjectSelection(inscriptionID, "Historia", "Esc. N°2")
		rec := NewSubjectEvaluation(inscriptionID, sel.ID, evaluatorID)
		rec.TitleType = TitleTypeDocente
		require.NoError(t, rec.SetScore(CriterionConcepto, decimal.NewFromInt(8)))

		other := NewSubjectEvaluation(inscriptionID, uuid.New(), evaluatorID)
		other.CreatedAt = time.Now().Add(time.Hour) // newer but not linked

		grid := Consolidate(inscriptionID, evaluatorID, []registration.Selection{sel}, []*EvaluationRecord{other, rec})

		require.Len(t, grid.Rows, 1)
		assert.Equal(t, rec.ID, grid.Rows[0].Evaluation.ID)
	})

	t.Run("falls back to most recent record for the inscription", func(t *testing.T) {
		sel := subjectSelection(inscriptionID, "Historia", "Esc. N°2")

		older := NewSubjectEvaluation(inscriptionID, uuid.New(), evaluatorID)
		older.CreatedAt = time.Now().Add(-2 * time.Hour)
		newer := NewSubjectEvaluation(inscriptionID, uuid.New(), evaluatorID)
		newer.CreatedAt = time.Now().Add(-time.Hour)

		grid := Consolidate(inscriptionID, evaluatorID, []registration.Selection{sel}, []*EvaluationRecord{older, newer})

		require.Len(t, grid.Rows, 1)
		assert.Equal(t, newer.ID, grid.Rows[0].Evaluation.ID)
	})

	t.Run("no match yields a zero-valued draft", func(t *testing.T) {
		sel := positionSelection(inscriptionID, "Preceptoría", "Esc. N°2")
		grid := Consolidate(inscriptionID, evaluatorID, []registration.Selection{sel}, nil)

		require.Len(t, grid.Rows, 1)
		eval := grid.Rows[0].Evaluation
		assert.Equal(t, StatusDraft, eval.Status)
		assert.True(t, eval.Total.IsZero())
		require.NotNil(t, eval.PositionSelectionID)
		assert.Equal(t, sel.ID, *eval.PositionSelectionID)
	})

	t.Run("stale persisted total is recomputed for display", func(t *testing.T) {
		sel := subjectSelection(inscriptionID, "Química", "Esc. N°9")
		rec := NewSubjectEvaluation(inscriptionID, sel.ID, evaluatorID)
		rec.TitleType = TitleTypeDocente
		require.NoError(t, rec.SetScore(CriterionConcepto, decimal.NewFromInt(6)))
		rec.Total = decimal.NewFromInt(99) // corrupt the derived value

		grid := Consolidate(inscriptionID, evaluatorID, []registration.Selection{sel}, []*EvaluationRecord{rec})

		assert.Equal(t, "6", grid.Rows[0].Evaluation.Total.String())
	})
}

func TestConsolidateIdempotence(t *testing.T) {
	inscriptionID := uuid.New()
	evaluatorID := uuid.New()
	sels := []registration.Selection{
		subjectSelection(inscriptionID, "Matemática", "Esc. N°12"),
		subjectSelection(inscriptionID, "Matemática", "Esc. N°5"),
		positionSelection(inscriptionID, "Preceptoría", "Esc. N°12"),
		subjectSelection(inscriptionID, "Física", "Esc. N°12"),
	}
	sel0 := sels[0]
	rec := NewSubjectEvaluation(inscriptionID, sel0.ID, evaluatorID)

	first := Consolidate(inscriptionID, evaluatorID, sels, []*EvaluationRecord{rec})
	second := Consolidate(inscriptionID, evaluatorID, sels, []*EvaluationRecord{rec})

	require.Equal(t, len(first.Rows), len(second.Rows))
	for i := range first.Rows {
		assert.Equal(t, first.Rows[i].ID, second.Rows[i].ID)
		assert.Equal(t, first.Rows[i].DisplayName, second.Rows[i].DisplayName)
		assert.Equal(t, first.Rows[i].Evaluation.ID, second.Rows[i].Evaluation.ID)
	}

	t.Run("subjects sort before positions", func(t *testing.T) {
		assert.Equal(t, registration.SelectionKindSubject, first.Rows[0].Kind)
		assert.Equal(t, registration.SelectionKindPosition, first.Rows[len(first.Rows)-1].Kind)
	})
}
