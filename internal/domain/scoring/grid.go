package scoring

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/junta/backend/internal/domain/registration"
)

// GroupedRow is the consolidated, display-oriented merge of the selections
// that share a name. It is derived state, never persisted as such: saving a
// row fans out to one evaluation record per underlying selection.
type GroupedRow struct {
	ID          string
	DisplayName string
	Kind        registration.SelectionKind
	Selections  []registration.Selection
	Evaluation  *EvaluationRecord
}

// Clone returns a deep copy of the row
func (r GroupedRow) Clone() GroupedRow {
	out := r
	out.Selections = make([]registration.Selection, len(r.Selections))
	copy(out.Selections, r.Selections)
	if r.Evaluation != nil {
		out.Evaluation = r.Evaluation.Clone()
	}
	return out
}

// Grid is the in-memory editable state of one applicant's evaluation screen
type Grid struct {
	InscriptionID uuid.UUID
	EvaluatorID   uuid.UUID
	Rows          []GroupedRow
}

// Clone returns a deep copy of the grid
func (g Grid) Clone() Grid {
	out := g
	out.Rows = make([]GroupedRow, len(g.Rows))
	for i, row := range g.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

func kindRank(k registration.SelectionKind) int {
	if k == registration.SelectionKindSubject {
		return 0
	}
	return 1
}

// Consolidate builds the grid for one inscription from its selections and
// whatever evaluation records already exist. It is deterministic: the same
// inputs always produce the same rows in the same order.
//
// Record matching per group tries the first selection's own id, then falls
// back to the most recently created record of the inscription. The fallback
// accommodates legacy and imported records not yet linked to a specific
// selection; when several unlinked records exist, recency wins. A group
// without any match gets a fresh zero-valued draft so no selection ever
// disappears from the grid.
func Consolidate(inscriptionID, evaluatorID uuid.UUID, selections []registration.Selection, records []*EvaluationRecord) Grid {
	type groupKey struct {
		kind registration.SelectionKind
		name string
	}

	groups := make(map[groupKey][]registration.Selection)
	order := make([]groupKey, 0)
	for _, sel := range selections {
		key := groupKey{kind: sel.Kind, name: sel.DisplayName()}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], sel)
	}

	rows := make([]GroupedRow, 0, len(order))
	for _, key := range order {
		sels := groups[key]
		row := GroupedRow{
			ID:          string(key.kind) + "|" + key.name,
			DisplayName: groupDisplayName(key.name, sels),
			Kind:        key.kind,
			Selections:  sels,
			Evaluation:  matchRecord(inscriptionID, evaluatorID, sels, records),
		}
		// The persisted total may be stale; the grid always shows the sum
		row.Evaluation.Total = row.Evaluation.Scores.Total()
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Kind != rows[j].Kind {
			return kindRank(rows[i].Kind) < kindRank(rows[j].Kind)
		}
		return rows[i].DisplayName < rows[j].DisplayName
	})

	return Grid{InscriptionID: inscriptionID, EvaluatorID: evaluatorID, Rows: rows}
}

// groupDisplayName appends the contributing schools when more than one
// distinct school merged into the row
func groupDisplayName(name string, sels []registration.Selection) string {
	var schools []string
	seen := make(map[string]bool)
	for _, sel := range sels {
		if sel.SchoolName == "" || seen[sel.SchoolName] {
			continue
		}
		seen[sel.SchoolName] = true
		schools = append(schools, sel.SchoolName)
	}
	if len(schools) <= 1 {
		return name
	}
	return name + " (" + strings.Join(schools, " / ") + ")"
}

func matchRecord(inscriptionID, evaluatorID uuid.UUID, sels []registration.Selection, records []*EvaluationRecord) *EvaluationRecord {
	first := sels[0]

	for _, rec := range records {
		if rec.AttachedToSelection(first.ID) {
			return rec.Clone()
		}
	}

	var latest *EvaluationRecord
	for _, rec := range records {
		if rec.InscriptionID != inscriptionID {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest != nil {
		return latest.Clone()
	}

	if first.Kind == registration.SelectionKindPosition {
		return NewPositionEvaluation(inscriptionID, first.ID, evaluatorID)
	}
	return NewSubjectEvaluation(inscriptionID, first.ID, evaluatorID)
}
