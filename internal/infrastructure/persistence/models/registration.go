package models

import (
	"github.com/google/uuid"

	"github.com/junta/backend/internal/domain/registration"
)

// ApplicantModel is the persistence model for the Applicant aggregate
type ApplicantModel struct {
	AggregateModel
	Legajo    string `gorm:"type:varchar(50);not null;uniqueIndex:uq_applicants_legajo"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Document  string `gorm:"type:varchar(50);index"`
	Email     string `gorm:"type:varchar(200)"`
	Phone     string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ApplicantModel) TableName() string {
	return "applicants"
}

// ToDomain converts the persistence model to a domain Applicant
func (m *ApplicantModel) ToDomain() *registration.Applicant {
	a := &registration.Applicant{
		Legajo:    m.Legajo,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Document:  m.Document,
		Email:     m.Email,
		Phone:     m.Phone,
	}
	m.PopulateAggregateRoot(&a.BaseAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain Applicant
func (m *ApplicantModel) FromDomain(a *registration.Applicant) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Legajo = a.Legajo
	m.FirstName = a.FirstName
	m.LastName = a.LastName
	m.Document = a.Document
	m.Email = a.Email
	m.Phone = a.Phone
}

// ApplicantModelFromDomain creates a new persistence model from a domain Applicant
func ApplicantModelFromDomain(a *registration.Applicant) *ApplicantModel {
	m := &ApplicantModel{}
	m.FromDomain(a)
	return m
}

// InscriptionModel is the persistence model for the Inscription aggregate
type InscriptionModel struct {
	AggregateModel
	ApplicantID     uuid.UUID                  `gorm:"type:uuid;not null;index:idx_inscriptions_applicant_period"`
	PeriodID        uuid.UUID                  `gorm:"type:uuid;not null;index:idx_inscriptions_applicant_period"`
	Level           registration.TeachingLevel `gorm:"type:varchar(20);not null"`
	SubjectArea     string                     `gorm:"type:varchar(100);not null"`
	ExperienceYears int                        `gorm:"not null;default:0"`
	Notes           string                     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InscriptionModel) TableName() string {
	return "inscriptions"
}

// ToDomain converts the persistence model to a domain Inscription
func (m *InscriptionModel) ToDomain() *registration.Inscription {
	i := &registration.Inscription{
		ApplicantID:     m.ApplicantID,
		PeriodID:        m.PeriodID,
		Level:           m.Level,
		SubjectArea:     m.SubjectArea,
		ExperienceYears: m.ExperienceYears,
		Notes:           m.Notes,
	}
	m.PopulateAggregateRoot(&i.BaseAggregateRoot)
	return i
}

// FromDomain populates the persistence model from a domain Inscription
func (m *InscriptionModel) FromDomain(i *registration.Inscription) {
	m.FromDomainAggregateRoot(i.BaseAggregateRoot)
	m.ApplicantID = i.ApplicantID
	m.PeriodID = i.PeriodID
	m.Level = i.Level
	m.SubjectArea = i.SubjectArea
	m.ExperienceYears = i.ExperienceYears
	m.Notes = i.Notes
}

// InscriptionModelFromDomain creates a new persistence model from a domain Inscription
func InscriptionModelFromDomain(i *registration.Inscription) *InscriptionModel {
	m := &InscriptionModel{}
	m.FromDomain(i)
	return m
}

// SelectionModel is the persistence model for subject and position
// selections. The scoring engine reads these rows; the registration
// subsystem owns writes.
type SelectionModel struct {
	ID            uuid.UUID                  `gorm:"type:uuid;primary_key"`
	InscriptionID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Kind          registration.SelectionKind `gorm:"type:varchar(20);not null"`
	RefID         uuid.UUID                  `gorm:"type:uuid;not null"`
	Name          string                     `gorm:"type:varchar(200);not null;default:''"`
	SchoolName    string                     `gorm:"type:varchar(200);not null;default:''"`
}

// TableName returns the table name for GORM
func (SelectionModel) TableName() string {
	return "selections"
}

// ToDomain converts the persistence model to a domain Selection
func (m *SelectionModel) ToDomain() registration.Selection {
	return registration.Selection{
		ID:            m.ID,
		InscriptionID: m.InscriptionID,
		Kind:          m.Kind,
		RefID:         m.RefID,
		Name:          m.Name,
		SchoolName:    m.SchoolName,
	}
}
