package registration

import (
	"github.com/google/uuid"
	"github.com/junta/backend/internal/domain/shared"
)

// TeachingLevel is the educational level an inscription applies to
type TeachingLevel string

const (
	LevelInicial    TeachingLevel = "inicial"
	LevelPrimario   TeachingLevel = "primario"
	LevelSecundario TeachingLevel = "secundario"
	LevelSuperior   TeachingLevel = "superior"
)

// IsValid checks if the teaching level is valid
func (l TeachingLevel) IsValid() bool {
	switch l {
	case LevelInicial, LevelPrimario, LevelSecundario, LevelSuperior:
		return true
	}
	return false
}

// DefaultSubjectArea is applied when an inscription is created by the
// reconciliation pipeline and the source row carries no area
const DefaultSubjectArea = "general"

// Inscription is one applicant's candidacy within one registration period
// and level. The scoring engine reads inscriptions but only the
// reconciliation pipeline ever creates them.
type Inscription struct {
	shared.BaseAggregateRoot
	ApplicantID     uuid.UUID     `gorm:"type:uuid;not null;index:idx_inscription_applicant_period"`
	PeriodID        uuid.UUID     `gorm:"type:uuid;not null;index:idx_inscription_applicant_period"`
	Level           TeachingLevel `gorm:"type:varchar(20);not null"`
	SubjectArea     string        `gorm:"type:varchar(100);not null"`
	ExperienceYears int           `gorm:"not null;default:0"`
	Notes           string        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Inscription) TableName() string {
	return "inscriptions"
}

// NewInscription creates an inscription for an applicant and period
func NewInscription(applicantID, periodID uuid.UUID, level TeachingLevel) (*Inscription, error) {
	if applicantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_APPLICANT", "La inscripción requiere un aspirante")
	}
	if periodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PERIOD", "La inscripción requiere un período")
	}
	if !level.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Nivel de enseñanza inválido")
	}
	return &Inscription{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ApplicantID:       applicantID,
		PeriodID:          periodID,
		Level:             level,
		SubjectArea:       DefaultSubjectArea,
	}, nil
}

// SetExperience sets the declared years of experience
func (i *Inscription) SetExperience(years int) error {
	if years < 0 {
		return shared.NewDomainError("INVALID_EXPERIENCE", "Los años de antigüedad no pueden ser negativos")
	}
	i.ExperienceYears = years
	return nil
}

// SetSubjectArea sets the subject area
func (i *Inscription) SetSubjectArea(area string) {
	if area == "" {
		area = DefaultSubjectArea
	}
	i.SubjectArea = area
}
