package registration

import (
	"context"

	"github.com/google/uuid"
)

// ApplicantRepository provides access to the applicant registry
type ApplicantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Applicant, error)
	FindByLegajo(ctx context.Context, legajo string) (*Applicant, error)
	ExistsByLegajo(ctx context.Context, legajo string) (bool, error)
	Save(ctx context.Context, applicant *Applicant) error
}

// InscriptionRepository provides access to inscriptions
type InscriptionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Inscription, error)
	FindByApplicantAndPeriod(ctx context.Context, applicantID, periodID uuid.UUID) (*Inscription, error)
	FindByPeriod(ctx context.Context, periodID uuid.UUID) ([]Inscription, error)
	Save(ctx context.Context, inscription *Inscription) error
}

// SelectionRepository is the read-only view over the registration
// subsystem's subject and position selections
type SelectionRepository interface {
	FindByInscription(ctx context.Context, inscriptionID uuid.UUID) ([]Selection, error)
	// FindByName looks up a specific named selection, e.g. the fixed
	// administrative role targeted by the import pipeline
	FindByName(ctx context.Context, inscriptionID uuid.UUID, kind SelectionKind, name, schoolName string) (*Selection, error)
}
