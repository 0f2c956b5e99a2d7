package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junta/backend/internal/domain/scoring"
)

// EvaluationRecordModel is the persistence model for the EvaluationRecord
// aggregate. Each criterion gets its own numeric column so merit listings
// can be queried and sorted in SQL.
//
// Two partial unique indexes enforce at most one record per
// (inscription, selection) pair, one per selection variant.
type EvaluationRecordModel struct {
	AggregateModel
	InscriptionID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uq_eval_subject,priority:1;uniqueIndex:uq_eval_position,priority:1"`
	EvaluatorID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	SubjectSelectionID  *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_eval_subject,priority:2,where:subject_selection_id IS NOT NULL"`
	PositionSelectionID *uuid.UUID `gorm:"type:uuid;uniqueIndex:uq_eval_position,priority:2,where:position_selection_id IS NOT NULL"`

	ScoreTitulo            decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScoreAntiguedadTitulo  decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScoreAntiguedadDocente decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScoreConcepto          decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScorePromedio          decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScoreOtrosTitulos      decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScoreCursos            decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScoreResidencia        decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScoreServicios         decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`
	ScoreOtrosAntecedentes decimal.Decimal `gorm:"type:numeric(6,2);not null;default:0"`

	Total     decimal.Decimal          `gorm:"type:numeric(8,2);not null;default:0"`
	Notes     string                   `gorm:"type:text"`
	Status    scoring.EvaluationStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	TitleType scoring.TitleType        `gorm:"type:varchar(20);not null;default:''"`
}

// TableName returns the table name for GORM
func (EvaluationRecordModel) TableName() string {
	return "evaluation_records"
}

// ToDomain converts the persistence model to a domain EvaluationRecord
func (m *EvaluationRecordModel) ToDomain() *scoring.EvaluationRecord {
	scores := scoring.ZeroScores().
		With(scoring.CriterionTitulo, m.ScoreTitulo).
		With(scoring.CriterionAntiguedadTitulo, m.ScoreAntiguedadTitulo).
		With(scoring.CriterionAntiguedadDocente, m.ScoreAntiguedadDocente).
		With(scoring.CriterionConcepto, m.ScoreConcepto).
		With(scoring.CriterionPromedio, m.ScorePromedio).
		With(scoring.CriterionOtrosTitulos, m.ScoreOtrosTitulos).
		With(scoring.CriterionCursos, m.ScoreCursos).
		With(scoring.CriterionResidencia, m.ScoreResidencia).
		With(scoring.CriterionServicios, m.ScoreServicios).
		With(scoring.CriterionOtrosAntecedentes, m.ScoreOtrosAntecedentes)

	r := &scoring.EvaluationRecord{
		InscriptionID:       m.InscriptionID,
		EvaluatorID:         m.EvaluatorID,
		SubjectSelectionID:  m.SubjectSelectionID,
		PositionSelectionID: m.PositionSelectionID,
		Scores:              scores,
		Total:               m.Total,
		Notes:               m.Notes,
		Status:              m.Status,
		TitleType:           m.TitleType,
	}
	m.PopulateAggregateRoot(&r.BaseAggregateRoot)
	return r
}

// FromDomain populates the persistence model from a domain EvaluationRecord
func (m *EvaluationRecordModel) FromDomain(r *scoring.EvaluationRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.InscriptionID = r.InscriptionID
	m.EvaluatorID = r.EvaluatorID
	m.SubjectSelectionID = r.SubjectSelectionID
	m.PositionSelectionID = r.PositionSelectionID

	m.ScoreTitulo = r.Scores.Get(scoring.CriterionTitulo)
	m.ScoreAntiguedadTitulo = r.Scores.Get(scoring.CriterionAntiguedadTitulo)
	m.ScoreAntiguedadDocente = r.Scores.Get(scoring.CriterionAntiguedadDocente)
	m.ScoreConcepto = r.Scores.Get(scoring.CriterionConcepto)
	m.ScorePromedio = r.Scores.Get(scoring.CriterionPromedio)
	m.ScoreOtrosTitulos = r.Scores.Get(scoring.CriterionOtrosTitulos)
	m.ScoreCursos = r.Scores.Get(scoring.CriterionCursos)
	m.ScoreResidencia = r.Scores.Get(scoring.CriterionResidencia)
	m.ScoreServicios = r.Scores.Get(scoring.CriterionServicios)
	m.ScoreOtrosAntecedentes = r.Scores.Get(scoring.CriterionOtrosAntecedentes)

	m.Total = r.Total
	m.Notes = r.Notes
	m.Status = r.Status
	m.TitleType = r.TitleType
}

// EvaluationRecordModelFromDomain creates a new persistence model from a domain EvaluationRecord
func EvaluationRecordModelFromDomain(r *scoring.EvaluationRecord) *EvaluationRecordModel {
	m := &EvaluationRecordModel{}
	m.FromDomain(r)
	return m
}

// ScoreColumns lists the criterion score columns in catalog order.
// Kept next to the model so upsert assignment lists stay in sync.
func ScoreColumns() []string {
	return []string{
		"score_titulo",
		"score_antiguedad_titulo",
		"score_antiguedad_docente",
		"score_concepto",
		"score_promedio",
		"score_otros_titulos",
		"score_cursos",
		"score_residencia",
		"score_servicios",
		"score_otros_antecedentes",
	}
}
