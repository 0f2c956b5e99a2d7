package registration

import (
	"sort"

	"github.com/google/uuid"
)

type dedupeKey struct {
	applicantID uuid.UUID
	level       TeachingLevel
}

// Deduplicate collapses inscriptions sharing (applicant, level) down to the
// most recently created one. It is a display-side reduction: discarded
// entries stay in storage untouched. The result is ordered and independent
// of input order.
func Deduplicate(inscriptions []Inscription) (kept []Inscription, discarded int) {
	latest := make(map[dedupeKey]Inscription, len(inscriptions))
	for _, ins := range inscriptions {
		key := dedupeKey{applicantID: ins.ApplicantID, level: ins.Level}
		if cur, ok := latest[key]; !ok || ins.CreatedAt.After(cur.CreatedAt) {
			latest[key] = ins
		}
	}

	kept = make([]Inscription, 0, len(latest))
	for _, ins := range latest {
		kept = append(kept, ins)
	}
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].ApplicantID != kept[j].ApplicantID {
			return kept[i].ApplicantID.String() < kept[j].ApplicantID.String()
		}
		return kept[i].Level < kept[j].Level
	})

	return kept, len(inscriptions) - len(kept)
}
