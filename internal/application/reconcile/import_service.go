package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/junta/backend/internal/domain/bulk"
	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/domain/scoring"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/junta/backend/internal/infrastructure/config"
	"github.com/junta/backend/internal/infrastructure/logger"
	"github.com/junta/backend/internal/infrastructure/progress"
	"github.com/junta/backend/internal/infrastructure/sheet"
)

// LegajoHeader is the spreadsheet column carrying the personnel registry
// code that rows are matched on. A TOTAL column may be present in the
// exports but is never read; the total is always recomputed from the
// criterion scores.
const LegajoHeader = "LEGAJO"

// RunInput describes one reconciliation run over a legacy scoring
// spreadsheet
type RunInput struct {
	PeriodID   uuid.UUID
	Level      registration.TeachingLevel
	FileName   string
	FileSize   int64
	ImportedBy uuid.UUID
	Data       []byte
}

// RunResult summarizes a finished run
type RunResult struct {
	HistoryID    uuid.UUID                `json:"history_id"`
	TotalRows    int                      `json:"total_rows"`
	ImportedRows int                      `json:"imported_rows"`
	SkippedRows  int                      `json:"skipped_rows"`
	ErrorRows    int                      `json:"error_rows"`
	Errors       []bulk.ImportErrorDetail `json:"errors,omitempty"`
	IsTruncated  bool                     `json:"is_truncated,omitempty"`
	TotalErrors  int                      `json:"total_errors,omitempty"`
}

// ImportService reconciles legacy scoring spreadsheets against the
// evaluation record store. Rows are matched by legajo, attached to the
// fixed administrative role of the matched inscription and upserted as
// draft evaluation records.
//
// The pipeline is deliberately sequential: one row, one upsert. Chunking
// with a pause between chunks keeps the database responsive to the
// evaluators working the grid while an import runs.
type ImportService struct {
	applicantRepo   registration.ApplicantRepository
	inscriptionRepo registration.InscriptionRepository
	selectionRepo   registration.SelectionRepository
	recordRepo      scoring.EvaluationRecordRepository
	historyRepo     bulk.ImportHistoryRepository
	progressStore   progress.Store
	eventBus        shared.EventPublisher
	cfg             config.ImportConfig
}

// NewImportService creates a new ImportService
func NewImportService(
	applicantRepo registration.ApplicantRepository,
	inscriptionRepo registration.InscriptionRepository,
	selectionRepo registration.SelectionRepository,
	recordRepo scoring.EvaluationRecordRepository,
	historyRepo bulk.ImportHistoryRepository,
	progressStore progress.Store,
	eventBus shared.EventPublisher,
	cfg config.ImportConfig,
) *ImportService {
	return &ImportService{
		applicantRepo:   applicantRepo,
		inscriptionRepo: inscriptionRepo,
		selectionRepo:   selectionRepo,
		recordRepo:      recordRepo,
		historyRepo:     historyRepo,
		progressStore:   progressStore,
		eventBus:        eventBus,
		cfg:             cfg,
	}
}

// Run executes one reconciliation run end to end: parse, match, upsert,
// and record the outcome in the import history. Cancellation via ctx is
// cooperative and only takes effect between chunks; rows already upserted
// stay upserted.
func (s *ImportService) Run(ctx context.Context, input RunInput) (*RunResult, error) {
	if input.ImportedBy == uuid.Nil {
		return nil, shared.ErrUnauthorized
	}
	if !input.Level.IsValid() {
		return nil, shared.NewDomainError("INVALID_LEVEL", "Nivel de enseñanza inválido")
	}

	history, err := bulk.NewImportHistory(bulk.ImportEntityEvaluations, input.PeriodID, input.FileName, input.FileSize, input.ImportedBy)
	if err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to create import history: %w", err)
	}

	rows, err := s.parseRows(input.Data)
	if err != nil {
		detail := bulk.ImportErrorDetail{Row: 0, Code: "ERR_FILE", Message: err.Error()}
		if failErr := history.Fail([]bulk.ImportErrorDetail{detail}); failErr == nil {
			_ = s.historyRepo.Save(ctx, history)
		}
		s.publish(ctx, history, runCounts{}, 1, err.Error())
		s.publishCompleted(ctx, history)
		return nil, err
	}

	if err := history.StartProcessing(len(rows)); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to update import history: %w", err)
	}
	s.publish(ctx, history, runCounts{}, 0, "")

	log := logger.L(ctx)
	log.Info("import started",
		zap.String("file", input.FileName),
		zap.Int("rows", len(rows)),
		zap.String("period_id", input.PeriodID.String()))

	counts := runCounts{}
	errs := sheet.NewErrorCollection(s.cfg.MaxErrorDetails)

	chunkSize := s.cfg.ChunkSize
	if chunkSize < 1 {
		chunkSize = 10
	}

	for start := 0; start < len(rows); start += chunkSize {
		select {
		case <-ctx.Done():
			return s.finishCancelled(history, &counts, errs)
		default:
		}

		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}
		for _, row := range rows[start:end] {
			s.importRow(ctx, input, row, &counts, errs)
			counts.processed++
		}

		s.publish(ctx, history, counts, errs.TotalCount(), "")

		if end < len(rows) && s.cfg.ChunkPause > 0 {
			time.Sleep(s.cfg.ChunkPause)
		}
	}

	details := toErrorDetails(errs.Errors())
	if err := history.Complete(counts.imported, counts.skipped, errs.TotalCount(), details); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(context.WithoutCancel(ctx), history); err != nil {
		return nil, fmt.Errorf("failed to persist import history: %w", err)
	}
	s.publish(ctx, history, counts, errs.TotalCount(), "")
	s.publishCompleted(ctx, history)

	log.Info("import finished",
		zap.Int("imported", counts.imported),
		zap.Int("skipped", counts.skipped),
		zap.Int("errors", errs.TotalCount()))

	return &RunResult{
		HistoryID:    history.ID,
		TotalRows:    len(rows),
		ImportedRows: counts.imported,
		SkippedRows:  counts.skipped,
		ErrorRows:    errs.TotalCount(),
		Errors:       details,
		IsTruncated:  errs.IsTruncated(),
		TotalErrors:  errs.TotalCount(),
	}, nil
}

type runCounts struct {
	processed int
	imported  int
	skipped   int
}

// parseRows parses the spreadsheet and verifies the columns the pipeline
// depends on are present. Criterion columns may be individually absent;
// missing scores default to zero. Only the legajo column is mandatory.
func (s *ImportService) parseRows(data []byte) ([]*sheet.Row, error) {
	reader, err := sheet.NewReaderFromBytes(data)
	if err != nil {
		return nil, err
	}
	if err := reader.ParseHeader(); err != nil {
		return nil, err
	}
	if missing := reader.MissingHeaders([]string{LegajoHeader}); len(missing) > 0 {
		return nil, shared.NewDomainError("MISSING_COLUMNS",
			fmt.Sprintf("Faltan columnas obligatorias: %s", strings.Join(missing, ", ")))
	}
	rows, err := reader.ReadAllRows()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, sheet.ErrNoDataRows
	}
	return rows, nil
}

// importRow reconciles one spreadsheet row. Row failures land in the
// error collection and never abort the run.
func (s *ImportService) importRow(ctx context.Context, input RunInput, row *sheet.Row, counts *runCounts, errs *sheet.ErrorCollection) {
	legajo := strings.TrimSpace(row.Get(LegajoHeader))
	if legajo == "" {
		errs.Add(sheet.NewRowError(row.LineNumber, LegajoHeader, sheet.ErrCodeRowRequiredField,
			"el legajo no puede estar vacío"))
		return
	}

	applicant, err := s.applicantRepo.FindByLegajo(ctx, legajo)
	if err != nil {
		if shared.IsNotFound(err) {
			errs.Add(sheet.RowError{
				Row:     row.LineNumber,
				Column:  LegajoHeader,
				Code:    sheet.ErrCodeRowReferenceMiss,
				Message: fmt.Sprintf("Aspirante con legajo %s no encontrado en el padrón", legajo),
				Value:   legajo,
			})
			return
		}
		errs.Add(sheet.RowError{
			Row:     row.LineNumber,
			Column:  LegajoHeader,
			Code:    sheet.ErrCodeRowPersistFailure,
			Message: "no se pudo consultar el padrón: " + err.Error(),
			Value:   legajo,
		})
		return
	}

	inscription, err := s.resolveInscription(ctx, applicant.ID, input)
	if err != nil {
		errs.Add(sheet.NewRowError(row.LineNumber, "", sheet.ErrCodeRowPersistFailure,
			"no se pudo resolver la inscripción: "+err.Error()))
		return
	}

	// The fixed role is a read-only lookup: an inscription without it is
	// outside this import's scope and the row is skipped, not errored
	selection, err := s.selectionRepo.FindByName(ctx, inscription.ID,
		registration.SelectionKindPosition, s.cfg.RoleName, s.cfg.RoleSchool)
	if err != nil {
		if shared.IsNotFound(err) {
			counts.skipped++
			return
		}
		errs.Add(sheet.NewRowError(row.LineNumber, "", sheet.ErrCodeRowPersistFailure,
			"no se pudo consultar las selecciones: "+err.Error()))
		return
	}

	record := scoring.NewPositionEvaluation(inscription.ID, selection.ID, input.ImportedBy)

	scores := scoring.ZeroScores()
	for _, c := range scoring.Criteria() {
		scores = scores.With(c.ID, row.Decimal(c.ColumnCode))
	}

	// Title type is derived before validation so the titulo cap matches
	// the band the score falls into
	derived := scoring.DeriveTitleType(scores.Get(scoring.CriterionTitulo))
	if derived.IsValid() {
		record.TitleType = derived
	}

	if err := record.SetScores(scores); err != nil {
		errs.Add(sheet.NewRowError(row.LineNumber, "", sheet.ErrCodeRowValidation, err.Error()))
		return
	}

	if err := s.recordRepo.Upsert(ctx, record); err != nil {
		errs.Add(sheet.NewRowError(row.LineNumber, "", sheet.ErrCodeRowPersistFailure,
			"no se pudo guardar la evaluación: "+err.Error()))
		return
	}

	counts.imported++
}

// resolveInscription returns the applicant's inscription for the target
// period, creating a minimal one when the registry has none yet
func (s *ImportService) resolveInscription(ctx context.Context, applicantID uuid.UUID, input RunInput) (*registration.Inscription, error) {
	inscription, err := s.inscriptionRepo.FindByApplicantAndPeriod(ctx, applicantID, input.PeriodID)
	if err == nil {
		return inscription, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}

	inscription, err = registration.NewInscription(applicantID, input.PeriodID, input.Level)
	if err != nil {
		return nil, err
	}
	if err := s.inscriptionRepo.Save(ctx, inscription); err != nil {
		return nil, err
	}
	return inscription, nil
}

// finishCancelled closes out a run interrupted between chunks. Already
// upserted rows are kept; the history records how far the run got.
func (s *ImportService) finishCancelled(history *bulk.ImportHistory, counts *runCounts, errs *sheet.ErrorCollection) (*RunResult, error) {
	ctx := context.Background()

	history.ImportedRows = counts.imported
	history.SkippedRows = counts.skipped
	history.ErrorRows = errs.TotalCount()
	history.ErrorDetails = toErrorDetails(errs.Errors())
	if err := history.Cancel(); err != nil {
		return nil, err
	}
	if err := s.historyRepo.Save(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to persist cancelled import history: %w", err)
	}
	s.publish(ctx, history, *counts, errs.TotalCount(), "importación cancelada")
	s.publishCompleted(ctx, history)

	return &RunResult{
		HistoryID:    history.ID,
		TotalRows:    history.TotalRows,
		ImportedRows: counts.imported,
		SkippedRows:  counts.skipped,
		ErrorRows:    errs.TotalCount(),
		Errors:       history.ErrorDetails,
		IsTruncated:  errs.IsTruncated(),
		TotalErrors:  errs.TotalCount(),
	}, nil
}

// publish pushes the current snapshot to the progress store. Progress is
// best-effort: a failing store never fails the run.
func (s *ImportService) publish(ctx context.Context, history *bulk.ImportHistory, counts runCounts, errorRows int, message string) {
	if s.progressStore == nil {
		return
	}

	percentage := 0
	if history.TotalRows > 0 {
		percentage = counts.processed * 100 / history.TotalRows
	}
	if history.Status.IsTerminal() {
		percentage = 100
	}

	snap := progress.Snapshot{
		ImportID:      history.ID,
		Status:        string(history.Status),
		Percentage:    percentage,
		ProcessedRows: counts.processed,
		TotalRows:     history.TotalRows,
		ImportedRows:  counts.imported,
		SkippedRows:   counts.skipped,
		ErrorRows:     errorRows,
		Message:       message,
		UpdatedAt:     time.Now(),
	}
	if err := s.progressStore.Publish(context.WithoutCancel(ctx), snap); err != nil {
		logger.L(ctx).Warn("failed to publish import progress", zap.Error(err))
	}
}

// publishCompleted announces the terminal state of a run on the event bus.
// Best-effort, like progress: the run's outcome is already persisted.
func (s *ImportService) publishCompleted(ctx context.Context, history *bulk.ImportHistory) {
	if s.eventBus == nil {
		return
	}
	event := bulk.NewImportCompletedEvent(history)
	if err := s.eventBus.Publish(context.WithoutCancel(ctx), event); err != nil {
		logger.L(ctx).Warn("failed to publish import completed event", zap.Error(err))
	}
}

// toErrorDetails converts reader row errors into history error details
func toErrorDetails(rowErrors []sheet.RowError) []bulk.ImportErrorDetail {
	details := make([]bulk.ImportErrorDetail, len(rowErrors))
	for i, re := range rowErrors {
		details[i] = bulk.ImportErrorDetail{
			Row:     re.Row,
			Legajo:  re.Value,
			Code:    re.Code,
			Message: re.Message,
		}
	}
	return details
}
