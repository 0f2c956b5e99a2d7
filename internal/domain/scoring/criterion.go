package scoring

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TitleType classifies the applicant's degree for one evaluation row.
// It determines the cap applied to the titulo criterion; every other
// criterion carries its own static cap.
type TitleType string

const (
	TitleTypeDocente     TitleType = "docente"
	TitleTypeHabilitante TitleType = "habilitante"
	TitleTypeSupletorio  TitleType = "supletorio"
	TitleTypeUnknown     TitleType = ""
)

// IsValid checks if the title type is one of the three known categories
func (t TitleType) IsValid() bool {
	switch t {
	case TitleTypeDocente, TitleTypeHabilitante, TitleTypeSupletorio:
		return true
	}
	return false
}

// Cap returns the maximum titulo score for this title type.
// An unknown title type falls back to the docente cap, which is the
// widest band and never under-rejects a legitimate score.
func (t TitleType) Cap() decimal.Decimal {
	switch t {
	case TitleTypeDocente:
		return decimal.NewFromInt(9)
	case TitleTypeHabilitante:
		return decimal.NewFromInt(6)
	case TitleTypeSupletorio:
		return decimal.NewFromInt(3)
	default:
		return decimal.NewFromInt(9)
	}
}

// Title-band thresholds. Upstream spreadsheets round scores, so the bands
// use tolerant cutoffs rather than exact equality with 9/6/3.
var (
	titleBandDocente     = decimal.RequireFromString("8.5")
	titleBandHabilitante = decimal.RequireFromString("5.5")
	titleBandSupletorio  = decimal.RequireFromString("2.5")
)

// DeriveTitleType maps a titulo score onto a title type using banded
// thresholds
func DeriveTitleType(score decimal.Decimal) TitleType {
	switch {
	case score.GreaterThanOrEqual(titleBandDocente):
		return TitleTypeDocente
	case score.GreaterThanOrEqual(titleBandHabilitante):
		return TitleTypeHabilitante
	case score.GreaterThanOrEqual(titleBandSupletorio):
		return TitleTypeSupletorio
	default:
		return TitleTypeUnknown
	}
}

// Criterion IDs, in grid order
const (
	CriterionTitulo            = "titulo"
	CriterionAntiguedadTitulo  = "antiguedad_titulo"
	CriterionAntiguedadDocente = "antiguedad_docente"
	CriterionConcepto          = "concepto"
	CriterionPromedio          = "promedio"
	CriterionOtrosTitulos      = "otros_titulos"
	CriterionCursos            = "cursos"
	CriterionResidencia        = "residencia"
	CriterionServicios         = "servicios"
	CriterionOtrosAntecedentes = "otros_antecedentes"
)

// CriterionCount is the fixed number of scoring criteria
const CriterionCount = 10

// Criterion is one of the fixed scoring dimensions of the merit grid
type Criterion struct {
	ID         string
	ShortLabel string
	FullLabel  string
	Cap        *decimal.Decimal // nil means the cap is dynamic (titulo) or absent
	ColumnCode string           // spreadsheet header this criterion maps to
}

func capOf(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// criteria is the fixed catalog. Order defines both display order and the
// order in which a ScoreVector is summed.
var criteria = [CriterionCount]Criterion{
	{ID: CriterionTitulo, ShortLabel: "Título", FullLabel: "Título docente/habilitante/supletorio", Cap: nil, ColumnCode: "TÍTULO"},
	{ID: CriterionAntiguedadTitulo, ShortLabel: "Antig. título", FullLabel: "Antigüedad de título", Cap: capOf(3), ColumnCode: "ANTIGÜEDAD TÍTULO"},
	{ID: CriterionAntiguedadDocente, ShortLabel: "Antig. docente", FullLabel: "Antigüedad docente", Cap: capOf(6), ColumnCode: "ANTIGÜEDAD DOCENTE"},
	{ID: CriterionConcepto, ShortLabel: "Concepto", FullLabel: "Concepto profesional", Cap: capOf(10), ColumnCode: "CONCEPTO"},
	{ID: CriterionPromedio, ShortLabel: "Promedio", FullLabel: "Promedio general de título", Cap: capOf(10), ColumnCode: "PROMEDIO"},
	{ID: CriterionOtrosTitulos, ShortLabel: "Otros títulos", FullLabel: "Otros títulos y certificaciones", Cap: capOf(3), ColumnCode: "OTROS TÍTULOS"},
	{ID: CriterionCursos, ShortLabel: "Cursos", FullLabel: "Cursos y capacitaciones", Cap: capOf(3), ColumnCode: "CURSOS"},
	{ID: CriterionResidencia, ShortLabel: "Residencia", FullLabel: "Residencia en la provincia", Cap: capOf(2), ColumnCode: "RESIDENCIA"},
	{ID: CriterionServicios, ShortLabel: "Servicios", FullLabel: "Servicios prestados en la jurisdicción", Cap: capOf(3), ColumnCode: "SERVICIOS"},
	{ID: CriterionOtrosAntecedentes, ShortLabel: "Otros antec.", FullLabel: "Otros antecedentes valorables", Cap: capOf(3), ColumnCode: "OTROS ANTECEDENTES"},
}

// Criteria returns the fixed criterion catalog in grid order
func Criteria() []Criterion {
	out := make([]Criterion, CriterionCount)
	copy(out, criteria[:])
	return out
}

// CriterionByID returns the criterion with the given ID
func CriterionByID(id string) (Criterion, bool) {
	for _, c := range criteria {
		if c.ID == id {
			return c, true
		}
	}
	return Criterion{}, false
}

// CriterionIndex returns the position of a criterion in the fixed order
func CriterionIndex(id string) (int, bool) {
	for i, c := range criteria {
		if c.ID == id {
			return i, true
		}
	}
	return 0, false
}

// CapFor returns the cap that applies to a criterion under the given title
// type. The second return value is false when the criterion is uncapped.
// An unknown criterion ID panics: the catalog is fixed, so this is a
// programmer error, not user input.
func CapFor(criterionID string, titleType TitleType) (decimal.Decimal, bool) {
	c, ok := CriterionByID(criterionID)
	if !ok {
		panic(fmt.Sprintf("scoring: unknown criterion %q", criterionID))
	}
	if c.ID == CriterionTitulo {
		return titleType.Cap(), true
	}
	if c.Cap == nil {
		return decimal.Zero, false
	}
	return *c.Cap, true
}
