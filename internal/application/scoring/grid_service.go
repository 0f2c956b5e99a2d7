package scoringapp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/domain/scoring"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/junta/backend/internal/infrastructure/logger"
)

// RowSaveResult is the outcome of persisting one grid row. A row fans out
// to one evaluation record per underlying selection, so SavedRecords can
// exceed one.
type RowSaveResult struct {
	RowID        string `json:"row_id"`
	DisplayName  string `json:"display_name"`
	SavedRecords int    `json:"saved_records"`
	Error        string `json:"error,omitempty"`
}

// SaveResult summarizes a full-grid save
type SaveResult struct {
	Rows       []RowSaveResult `json:"rows"`
	SavedRows  int             `json:"saved_rows"`
	FailedRows int             `json:"failed_rows"`
}

// GridService drives the consolidated evaluation grid: building it from
// the registration data, applying edits and persisting the result back as
// per-selection evaluation records.
type GridService struct {
	selectionRepo registration.SelectionRepository
	recordRepo    scoring.EvaluationRecordRepository
	eventBus      shared.EventPublisher
}

// NewGridService creates a new GridService
func NewGridService(
	selectionRepo registration.SelectionRepository,
	recordRepo scoring.EvaluationRecordRepository,
	eventBus shared.EventPublisher,
) *GridService {
	return &GridService{
		selectionRepo: selectionRepo,
		recordRepo:    recordRepo,
		eventBus:      eventBus,
	}
}

// Consolidate builds the evaluation grid for one inscription
func (s *GridService) Consolidate(ctx context.Context, inscriptionID, evaluatorID uuid.UUID) (*scoring.Grid, error) {
	selections, err := s.selectionRepo.FindByInscription(ctx, inscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load selections: %w", err)
	}
	records, err := s.recordRepo.FindByInscription(ctx, inscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load evaluation records: %w", err)
	}

	grid := scoring.Consolidate(inscriptionID, evaluatorID, selections, records)
	return &grid, nil
}

// EditCriterion rebuilds the grid and applies one criterion edit to it,
// returning the resulting grid without persisting anything. Non-titulo
// criteria replicate to every other draft row.
func (s *GridService) EditCriterion(ctx context.Context, inscriptionID, evaluatorID uuid.UUID, rowIndex int, criterionID string, value decimal.Decimal) (*scoring.Grid, error) {
	grid, err := s.Consolidate(ctx, inscriptionID, evaluatorID)
	if err != nil {
		return nil, err
	}
	out, err := scoring.Apply(*grid, scoring.Edit{
		RowIndex:    rowIndex,
		CriterionID: criterionID,
		Value:       value,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// BroadcastTitleScore copies the first row's titulo score onto every other
// draft row and returns the resulting grid without persisting it
func (s *GridService) BroadcastTitleScore(ctx context.Context, inscriptionID, evaluatorID uuid.UUID) (*scoring.Grid, error) {
	grid, err := s.Consolidate(ctx, inscriptionID, evaluatorID)
	if err != nil {
		return nil, err
	}
	out, err := scoring.BroadcastTitleScore(*grid)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveAll persists the whole grid, fanning each row out to one upserted
// record per underlying selection. On a plain save rows fail
// independently: a broken row is reported in its RowSaveResult while the
// remaining rows still save. A finalize pass instead stops at the first
// persistence error; rows already persisted stay completed and the rest
// keep their in-memory edits for a retry. Within one row the fan-out is
// not transactional; the upsert key makes a retried save converge.
//
// The save is rejected outright when the grid carries no evaluator
// identity. That check runs before any write so an unauthenticated caller
// can never leave a half-saved grid behind.
func (s *GridService) SaveAll(ctx context.Context, grid scoring.Grid, finalize bool) (*SaveResult, error) {
	if grid.EvaluatorID == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if grid.InscriptionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "La grilla no referencia ninguna inscripción")
	}

	result := &SaveResult{Rows: make([]RowSaveResult, 0, len(grid.Rows))}

	for _, row := range grid.Rows {
		rowResult := RowSaveResult{RowID: row.ID, DisplayName: row.DisplayName}

		if err := s.saveRow(ctx, grid, row, finalize, &rowResult); err != nil {
			rowResult.Error = err.Error()
			result.FailedRows++
			result.Rows = append(result.Rows, rowResult)
			if finalize {
				break
			}
			continue
		}
		result.SavedRows++
		result.Rows = append(result.Rows, rowResult)
	}

	return result, nil
}

// saveRow upserts one record per selection of the row, all carrying the
// row's consolidated scores
func (s *GridService) saveRow(ctx context.Context, grid scoring.Grid, row scoring.GroupedRow, finalize bool, rowResult *RowSaveResult) error {
	if row.Evaluation == nil {
		return shared.NewDomainError("INVALID_INPUT", "La fila no tiene evaluación asociada")
	}

	for _, sel := range row.Selections {
		record, err := s.recordForSelection(grid, row, sel)
		if err != nil {
			return err
		}
		if finalize && record.Status != scoring.StatusCompleted {
			if err := record.Finalize(); err != nil {
				return err
			}
		}
		if err := s.recordRepo.Upsert(ctx, record); err != nil {
			return fmt.Errorf("no se pudo guardar la evaluación de %q: %w", sel.DisplayName(), err)
		}
		record.AddDomainEvent(scoring.NewEvaluationSavedEvent(record))
		s.publishEvents(ctx, record)
		rowResult.SavedRecords++
	}
	return nil
}

// recordForSelection materializes the row's evaluation for one concrete
// selection. The selection the row's record already points at keeps its
// identity; the other selections of the group get fresh records carrying
// the same scores, which the upsert key folds onto any pre-existing rows.
func (s *GridService) recordForSelection(grid scoring.Grid, row scoring.GroupedRow, sel registration.Selection) (*scoring.EvaluationRecord, error) {
	src := row.Evaluation

	var record *scoring.EvaluationRecord
	if src.AttachedToSelection(sel.ID) {
		record = src.Clone()
	} else {
		if sel.Kind == registration.SelectionKindPosition {
			record = scoring.NewPositionEvaluation(grid.InscriptionID, sel.ID, grid.EvaluatorID)
		} else {
			record = scoring.NewSubjectEvaluation(grid.InscriptionID, sel.ID, grid.EvaluatorID)
		}
		record.TitleType = src.TitleType
		if err := record.SetScores(src.Scores); err != nil {
			return nil, err
		}
		record.SetNotes(src.Notes)
		record.Status = src.Status
	}

	record.EvaluatorID = grid.EvaluatorID
	return record, nil
}

// ReopenAll returns every completed record of the inscription to draft
func (s *GridService) ReopenAll(ctx context.Context, inscriptionID uuid.UUID) (int, error) {
	records, err := s.recordRepo.FindByInscription(ctx, inscriptionID)
	if err != nil {
		return 0, fmt.Errorf("failed to load evaluation records: %w", err)
	}

	reopened := 0
	for _, record := range records {
		if record.Status != scoring.StatusCompleted {
			continue
		}
		if err := record.Reopen(); err != nil {
			return reopened, err
		}
		if err := s.recordRepo.Upsert(ctx, record); err != nil {
			return reopened, fmt.Errorf("no se pudo reabrir la evaluación: %w", err)
		}
		reopened++
	}
	return reopened, nil
}

// DeleteRecord removes one evaluation record outright. Callers gate this
// behind the presidency role; regular evaluators reopen instead.
func (s *GridService) DeleteRecord(ctx context.Context, recordID uuid.UUID) error {
	record, err := s.recordRepo.FindByID(ctx, recordID)
	if err != nil {
		return err
	}
	if err := s.recordRepo.Delete(ctx, record.ID); err != nil {
		return fmt.Errorf("no se pudo eliminar la evaluación: %w", err)
	}
	logger.L(ctx).Info("evaluation record deleted: " + record.ID.String())
	return nil
}

func (s *GridService) publishEvents(ctx context.Context, record *scoring.EvaluationRecord) {
	if s.eventBus == nil {
		return
	}
	events := record.GetDomainEvents()
	if len(events) > 0 {
		if err := s.eventBus.Publish(ctx, events...); err != nil {
			logger.L(ctx).Warn("failed to publish evaluation events: " + err.Error())
		}
	}
	record.ClearDomainEvents()
}
