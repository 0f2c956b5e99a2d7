package registration

import (
	"strings"

	"github.com/junta/backend/internal/domain/shared"
)

// Applicant is an aggregate of the registration context. It mirrors the
// personnel registry: the legajo code is the external identifier used to
// match spreadsheet rows during reconciliation.
type Applicant struct {
	shared.BaseAggregateRoot
	Legajo    string `gorm:"type:varchar(50);not null;uniqueIndex"`
	FirstName string `gorm:"type:varchar(100);not null"`
	LastName  string `gorm:"type:varchar(100);not null"`
	Document  string `gorm:"type:varchar(50);index"`
	Email     string `gorm:"type:varchar(200)"`
	Phone     string `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Applicant) TableName() string {
	return "applicants"
}

// NewApplicant creates an applicant with the required identity fields
func NewApplicant(legajo, firstName, lastName string) (*Applicant, error) {
	legajo = strings.TrimSpace(legajo)
	if legajo == "" {
		return nil, shared.NewDomainError("INVALID_LEGAJO", "El legajo no puede estar vacío")
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "El apellido no puede estar vacío")
	}
	return &Applicant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Legajo:            legajo,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
	}, nil
}

// FullName returns "LASTNAME, Firstname" as rendered on merit listings
func (a *Applicant) FullName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	return a.LastName + ", " + a.FirstName
}

// SetContact updates contact information
func (a *Applicant) SetContact(email, phone string) {
	a.Email = strings.TrimSpace(email)
	a.Phone = strings.TrimSpace(phone)
}
