package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/domain/scoring"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/junta/backend/internal/infrastructure/persistence/models"
)

// GormEvaluationRecordRepository implements EvaluationRecordRepository using GORM
type GormEvaluationRecordRepository struct {
	db *gorm.DB
}

// NewGormEvaluationRecordRepository creates a new GormEvaluationRecordRepository
func NewGormEvaluationRecordRepository(db *gorm.DB) *GormEvaluationRecordRepository {
	return &GormEvaluationRecordRepository{db: db}
}

// FindByID finds an evaluation record by its ID
func (r *GormEvaluationRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*scoring.EvaluationRecord, error) {
	var model models.EvaluationRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByInscription returns all evaluation records of an inscription,
// oldest first so fallback matching can pick the most recent deterministically
func (r *GormEvaluationRecordRepository) FindByInscription(ctx context.Context, inscriptionID uuid.UUID) ([]*scoring.EvaluationRecord, error) {
	var recordModels []models.EvaluationRecordModel
	if err := r.db.WithContext(ctx).
		Where("inscription_id = ?", inscriptionID).
		Order("created_at ASC").
		Find(&recordModels).Error; err != nil {
		return nil, err
	}

	records := make([]*scoring.EvaluationRecord, len(recordModels))
	for i := range recordModels {
		records[i] = recordModels[i].ToDomain()
	}
	return records, nil
}

// FindBySelection finds the single record attached to a selection
func (r *GormEvaluationRecordRepository) FindBySelection(ctx context.Context, inscriptionID, selectionID uuid.UUID, kind registration.SelectionKind) (*scoring.EvaluationRecord, error) {
	column := "subject_selection_id"
	if kind == registration.SelectionKindPosition {
		column = "position_selection_id"
	}

	var model models.EvaluationRecordModel
	if err := r.db.WithContext(ctx).
		Where("inscription_id = ? AND "+column+" = ?", inscriptionID, selectionID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert inserts the record or overwrites the existing one on the
// (inscription, selection) conflict key. The partial unique indexes are
// the sole guard against duplicates; both the save fan-out and the import
// pipeline rely on this being a single statement.
func (r *GormEvaluationRecordRepository) Upsert(ctx context.Context, record *scoring.EvaluationRecord) error {
	model := models.EvaluationRecordModelFromDomain(record)

	var conflict clause.OnConflict
	switch {
	case record.SubjectSelectionID != nil:
		conflict = clause.OnConflict{
			Columns: []clause.Column{{Name: "inscription_id"}, {Name: "subject_selection_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "subject_selection_id IS NOT NULL"},
			}},
		}
	case record.PositionSelectionID != nil:
		conflict = clause.OnConflict{
			Columns: []clause.Column{{Name: "inscription_id"}, {Name: "position_selection_id"}},
			TargetWhere: clause.Where{Exprs: []clause.Expression{
				clause.Expr{SQL: "position_selection_id IS NOT NULL"},
			}},
		}
	default:
		return shared.NewDomainError("INVALID_SELECTION", "El registro de evaluación no apunta a ninguna selección")
	}

	assignColumns := append(models.ScoreColumns(),
		"evaluator_id", "total", "notes", "status", "title_type", "updated_at", "version")
	conflict.DoUpdates = clause.AssignmentColumns(assignColumns)

	return r.db.WithContext(ctx).Clauses(conflict).Create(model).Error
}

// Delete removes an evaluation record
func (r *GormEvaluationRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EvaluationRecordModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ scoring.EvaluationRecordRepository = (*GormEvaluationRecordRepository)(nil)
