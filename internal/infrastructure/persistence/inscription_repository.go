package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/junta/backend/internal/infrastructure/persistence/models"
)

// GormInscriptionRepository implements InscriptionRepository using GORM
type GormInscriptionRepository struct {
	db *gorm.DB
}

// NewGormInscriptionRepository creates a new GormInscriptionRepository
func NewGormInscriptionRepository(db *gorm.DB) *GormInscriptionRepository {
	return &GormInscriptionRepository{db: db}
}

// FindByID finds an inscription by its ID
func (r *GormInscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.Inscription, error) {
	var model models.InscriptionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByApplicantAndPeriod finds the applicant's inscription within a period.
// When the registry holds several (one per level), the most recent wins.
func (r *GormInscriptionRepository) FindByApplicantAndPeriod(ctx context.Context, applicantID, periodID uuid.UUID) (*registration.Inscription, error) {
	var model models.InscriptionModel
	if err := r.db.WithContext(ctx).
		Where("applicant_id = ? AND period_id = ?", applicantID, periodID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByPeriod returns all inscriptions of a registration period
func (r *GormInscriptionRepository) FindByPeriod(ctx context.Context, periodID uuid.UUID) ([]registration.Inscription, error) {
	var inscriptionModels []models.InscriptionModel
	if err := r.db.WithContext(ctx).
		Where("period_id = ?", periodID).
		Order("created_at ASC").
		Find(&inscriptionModels).Error; err != nil {
		return nil, err
	}

	inscriptions := make([]registration.Inscription, len(inscriptionModels))
	for i, model := range inscriptionModels {
		inscriptions[i] = *model.ToDomain()
	}
	return inscriptions, nil
}

// Save creates or updates an inscription
func (r *GormInscriptionRepository) Save(ctx context.Context, inscription *registration.Inscription) error {
	model := models.InscriptionModelFromDomain(inscription)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ registration.InscriptionRepository = (*GormInscriptionRepository)(nil)
