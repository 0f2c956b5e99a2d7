package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/junta/backend/internal/infrastructure/persistence/models"
)

// GormApplicantRepository implements ApplicantRepository using GORM
type GormApplicantRepository struct {
	db *gorm.DB
}

// NewGormApplicantRepository creates a new GormApplicantRepository
func NewGormApplicantRepository(db *gorm.DB) *GormApplicantRepository {
	return &GormApplicantRepository{db: db}
}

// FindByID finds an applicant by its ID
func (r *GormApplicantRepository) FindByID(ctx context.Context, id uuid.UUID) (*registration.Applicant, error) {
	var model models.ApplicantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByLegajo finds an applicant by legajo code. The padrón reconciliation
// pipeline matches spreadsheet rows through this lookup.
func (r *GormApplicantRepository) FindByLegajo(ctx context.Context, legajo string) (*registration.Applicant, error) {
	legajo = strings.TrimSpace(legajo)
	if legajo == "" {
		return nil, shared.NewDomainError("INVALID_LEGAJO", "El legajo no puede estar vacío")
	}
	var model models.ApplicantModel
	if err := r.db.WithContext(ctx).
		Where("legajo = ?", legajo).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// ExistsByLegajo checks whether an applicant with the legajo exists
func (r *GormApplicantRepository) ExistsByLegajo(ctx context.Context, legajo string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.ApplicantModel{}).
		Where("legajo = ?", strings.TrimSpace(legajo)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an applicant
func (r *GormApplicantRepository) Save(ctx context.Context, applicant *registration.Applicant) error {
	model := models.ApplicantModelFromDomain(applicant)
	return r.db.WithContext(ctx).Save(model).Error
}

var _ registration.ApplicantRepository = (*GormApplicantRepository)(nil)
