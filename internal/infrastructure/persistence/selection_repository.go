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

// GormSelectionRepository implements the read-only SelectionRepository
// over the registration subsystem's selections table
type GormSelectionRepository struct {
	db *gorm.DB
}

// NewGormSelectionRepository creates a new GormSelectionRepository
func NewGormSelectionRepository(db *gorm.DB) *GormSelectionRepository {
	return &GormSelectionRepository{db: db}
}

// FindByInscription returns all selections of an inscription, subjects
// before positions, each bucket in name order
func (r *GormSelectionRepository) FindByInscription(ctx context.Context, inscriptionID uuid.UUID) ([]registration.Selection, error) {
	var selectionModels []models.SelectionModel
	if err := r.db.WithContext(ctx).
		Where("inscription_id = ?", inscriptionID).
		Order("kind ASC, name ASC, school_name ASC").
		Find(&selectionModels).Error; err != nil {
		return nil, err
	}

	selections := make([]registration.Selection, len(selectionModels))
	for i, model := range selectionModels {
		selections[i] = model.ToDomain()
	}
	return selections, nil
}

// FindByName looks up a named selection within an inscription, e.g. the
// fixed administrative role targeted by the import pipeline
func (r *GormSelectionRepository) FindByName(ctx context.Context, inscriptionID uuid.UUID, kind registration.SelectionKind, name, schoolName string) (*registration.Selection, error) {
	var model models.SelectionModel
	if err := r.db.WithContext(ctx).
		Where("inscription_id = ? AND kind = ? AND name = ? AND school_name = ?", inscriptionID, kind, name, schoolName).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	sel := model.ToDomain()
	return &sel, nil
}

var _ registration.SelectionRepository = (*GormSelectionRepository)(nil)
