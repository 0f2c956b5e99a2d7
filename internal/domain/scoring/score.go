package scoring

import (
	"fmt"

	"github.com/junta/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ScoreVector holds one score per criterion, in catalog order
type ScoreVector [CriterionCount]decimal.Decimal

// ZeroScores returns an all-zero score vector
func ZeroScores() ScoreVector {
	var v ScoreVector
	for i := range v {
		v[i] = decimal.Zero
	}
	return v
}

// Get returns the score for a criterion by ID
func (v ScoreVector) Get(criterionID string) decimal.Decimal {
	i, ok := CriterionIndex(criterionID)
	if !ok {
		panic(fmt.Sprintf("scoring: unknown criterion %q", criterionID))
	}
	return v[i]
}

// With returns a copy of the vector with one criterion replaced
func (v ScoreVector) With(criterionID string, value decimal.Decimal) ScoreVector {
	i, ok := CriterionIndex(criterionID)
	if !ok {
		panic(fmt.Sprintf("scoring: unknown criterion %q", criterionID))
	}
	out := v
	out[i] = value
	return out
}

// Total returns the sum of all ten scores rounded to two decimals
func (v ScoreVector) Total() decimal.Decimal {
	sum := decimal.Zero
	for _, s := range v {
		sum = sum.Add(s)
	}
	return sum.Round(2)
}

// Validate checks every score against its cap under the given title type.
// Negative scores are rejected as well.
func (v ScoreVector) Validate(titleType TitleType) error {
	for i, c := range criteria {
		if v[i].IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("el puntaje de %s no puede ser negativo", c.ShortLabel))
		}
		cap, capped := CapFor(c.ID, titleType)
		if capped && v[i].GreaterThan(cap) {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("el puntaje de %s supera el máximo permitido (%s)", c.ShortLabel, cap.String()))
		}
	}
	return nil
}
