package reconcile

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junta/backend/internal/domain/bulk"
	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/domain/scoring"
	"github.com/junta/backend/internal/domain/shared"
	"github.com/junta/backend/internal/infrastructure/config"
	"github.com/junta/backend/internal/infrastructure/progress"
)

const (
	testRoleName   = "PRECEPTOR/A"
	testRoleSchool = "Junta de Clasificación"
)

type fakeApplicantRepo struct {
	byLegajo map[string]*registration.Applicant
}

func (f *fakeApplicantRepo) FindByID(_ context.Context, id uuid.UUID) (*registration.Applicant, error) {
	for _, a := range f.byLegajo {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeApplicantRepo) FindByLegajo(_ context.Context, legajo string) (*registration.Applicant, error) {
	if a, ok := f.byLegajo[legajo]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (f *fakeApplicantRepo) ExistsByLegajo(_ context.Context, legajo string) (bool, error) {
	_, ok := f.byLegajo[legajo]
	return ok, nil
}

func (f *fakeApplicantRepo) Save(_ context.Context, a *registration.Applicant) error {
	f.byLegajo[a.Legajo] = a
	return nil
}

type fakeInscriptionRepo struct {
	inscriptions []*registration.Inscription
	saved        int
}

func (f *fakeInscriptionRepo) FindByID(_ context.Context, id uuid.UUID) (*registration.Inscription, error) {
	for _, i := range f.inscriptions {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeInscriptionRepo) FindByApplicantAndPeriod(_ context.Context, applicantID, periodID uuid.UUID) (*registration.Inscription, error) {
	for _, i := range f.inscriptions {
		if i.ApplicantID == applicantID && i.PeriodID == periodID {
			return i, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeInscriptionRepo) FindByPeriod(_ context.Context, periodID uuid.UUID) ([]registration.Inscription, error) {
	var out []registration.Inscription
	for _, i := range f.inscriptions {
		if i.PeriodID == periodID {
			out = append(out, *i)
		}
	}
	return out, nil
}

func (f *fakeInscriptionRepo) Save(_ context.Context, i *registration.Inscription) error {
	f.saved++
	f.inscriptions = append(f.inscriptions, i)
	return nil
}

type fakeSelectionRepo struct {
	selections []registration.Selection
}

func (f *fakeSelectionRepo) FindByInscription(_ context.Context, inscriptionID uuid.UUID) ([]registration.Selection, error) {
	var out []registration.Selection
	for _, sel := range f.selections {
		if sel.InscriptionID == inscriptionID {
			out = append(out, sel)
		}
	}
	return out, nil
}

func (f *fakeSelectionRepo) FindByName(_ context.Context, inscriptionID uuid.UUID, kind registration.SelectionKind, name, schoolName string) (*registration.Selection, error) {
	for _, sel := range f.selections {
		if sel.InscriptionID == inscriptionID && sel.Kind == kind && sel.Name == name && sel.SchoolName == schoolName {
			s := sel
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

type fakeRecordRepo struct {
	records []*scoring.EvaluationRecord
}

func (f *fakeRecordRepo) FindByID(_ context.Context, id uuid.UUID) (*scoring.EvaluationRecord, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRecordRepo) FindByInscription(_ context.Context, inscriptionID uuid.UUID) ([]*scoring.EvaluationRecord, error) {
	var out []*scoring.EvaluationRecord
	for _, r := range f.records {
		if r.InscriptionID == inscriptionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecordRepo) FindBySelection(_ context.Context, inscriptionID, selectionID uuid.UUID, _ registration.SelectionKind) (*scoring.EvaluationRecord, error) {
	for _, r := range f.records {
		if r.InscriptionID == inscriptionID && r.AttachedToSelection(selectionID) {
			return r, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeRecordRepo) Upsert(_ context.Context, record *scoring.EvaluationRecord) error {
	for i, r := range f.records {
		if r.InscriptionID == record.InscriptionID && record.SelectionID() != nil && r.AttachedToSelection(*record.SelectionID()) {
			f.records[i] = record
			return nil
		}
	}
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRecordRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return shared.ErrNotFound
}

type fakeHistoryRepo struct {
	saved []*bulk.ImportHistory
}

func (f *fakeHistoryRepo) FindByID(_ context.Context, id uuid.UUID) (*bulk.ImportHistory, error) {
	for _, h := range f.saved {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (f *fakeHistoryRepo) FindAll(_ context.Context, _ bulk.ImportHistoryFilter, page, pageSize int) (*bulk.ImportHistoryListResult, error) {
	return &bulk.ImportHistoryListResult{Items: f.saved, TotalCount: int64(len(f.saved)), Page: page, PageSize: pageSize}, nil
}

func (f *fakeHistoryRepo) FindByStatus(_ context.Context, status bulk.ImportStatus) ([]*bulk.ImportHistory, error) {
	var out []*bulk.ImportHistory
	for _, h := range f.saved {
		if h.Status == status {
			out = append(out, h)
		}
	}
	return out, nil
}

func (f *fakeHistoryRepo) Save(_ context.Context, h *bulk.ImportHistory) error {
	for i, existing := range f.saved {
		if existing.ID == h.ID {
			f.saved[i] = h
			return nil
		}
	}
	f.saved = append(f.saved, h)
	return nil
}

func (f *fakeHistoryRepo) Delete(_ context.Context, _ uuid.UUID) error {
	return shared.ErrNotFound
}

// recordingStore keeps every published snapshot in order
type recordingStore struct {
	snapshots []progress.Snapshot
}

func (r *recordingStore) Publish(_ context.Context, snap progress.Snapshot) error {
	r.snapshots = append(r.snapshots, snap)
	return nil
}

func (r *recordingStore) Get(_ context.Context, importID uuid.UUID) (*progress.Snapshot, error) {
	for i := len(r.snapshots) - 1; i >= 0; i-- {
		if r.snapshots[i].ImportID == importID {
			snap := r.snapshots[i]
			return &snap, nil
		}
	}
	return nil, shared.ErrNotFound
}

type importFixture struct {
	applicantRepo   *fakeApplicantRepo
	inscriptionRepo *fakeInscriptionRepo
	selectionRepo   *fakeSelectionRepo
	recordRepo      *fakeRecordRepo
	historyRepo     *fakeHistoryRepo
	store           *recordingStore
	service         *ImportService
	periodID        uuid.UUID
}

func newImportFixture(t *testing.T, chunkSize int) *importFixture {
	t.Helper()

	fx := &importFixture{
		applicantRepo:   &fakeApplicantRepo{byLegajo: make(map[string]*registration.Applicant)},
		inscriptionRepo: &fakeInscriptionRepo{},
		selectionRepo:   &fakeSelectionRepo{},
		recordRepo:      &fakeRecordRepo{},
		historyRepo:     &fakeHistoryRepo{},
		store:           &recordingStore{},
		periodID:        uuid.New(),
	}
	fx.service = NewImportService(
		fx.applicantRepo,
		fx.inscriptionRepo,
		fx.selectionRepo,
		fx.recordRepo,
		fx.historyRepo,
		fx.store,
		nil,
		config.ImportConfig{
			ChunkSize:       chunkSize,
			ChunkPause:      time.Millisecond,
			MaxErrorDetails: 100,
			RoleName:        testRoleName,
			RoleSchool:      testRoleSchool,
		},
	)
	return fx
}

// addApplicant registers an applicant with an inscription carrying the
// fixed administrative role
func (fx *importFixture) addApplicant(t *testing.T, legajo string) *registration.Inscription {
	t.Helper()

	applicant, err := registration.NewApplicant(legajo, "Ana", "Suárez")
	require.NoError(t, err)
	fx.applicantRepo.byLegajo[legajo] = applicant

	inscription, err := registration.NewInscription(applicant.ID, fx.periodID, registration.LevelSecundario)
	require.NoError(t, err)
	fx.inscriptionRepo.inscriptions = append(fx.inscriptionRepo.inscriptions, inscription)

	fx.selectionRepo.selections = append(fx.selectionRepo.selections, registration.Selection{
		ID:            uuid.New(),
		InscriptionID: inscription.ID,
		Kind:          registration.SelectionKindPosition,
		RefID:         uuid.New(),
		Name:          testRoleName,
		SchoolName:    testRoleSchool,
	})
	return inscription
}

func (fx *importFixture) run(ctx context.Context, data string) (*RunResult, error) {
	return fx.service.Run(ctx, RunInput{
		PeriodID:   fx.periodID,
		Level:      registration.LevelSecundario,
		FileName:   "puntajes.csv",
		FileSize:   int64(len(data)),
		ImportedBy: uuid.New(),
		Data:       []byte(data),
	})
}

func sheetHeader() string {
	return "LEGAJO,TÍTULO,ANTIGÜEDAD TÍTULO,ANTIGÜEDAD DOCENTE,CONCEPTO,PROMEDIO,OTROS TÍTULOS,CURSOS,RESIDENCIA,SERVICIOS,OTROS ANTECEDENTES,TOTAL"
}

func sheetLine(legajo string) string {
	return legajo + ",9,3,6,10,8.50,2,1,2,3,1,45.50"
}

func TestImportService_Run(t *testing.T) {
	t.Run("imports matched rows as draft position evaluations", func(t *testing.T) {
		fx := newImportFixture(t, 10)
		inscription := fx.addApplicant(t, "1001")

		data := sheetHeader() + "\n" + sheetLine("1001") + "\n"
		result, err := fx.run(context.Background(), data)

		require.NoError(t, err)
		assert.Equal(t, 1, result.TotalRows)
		assert.Equal(t, 1, result.ImportedRows)
		assert.Zero(t, result.SkippedRows)
		assert.Zero(t, result.ErrorRows)

		require.Len(t, fx.recordRepo.records, 1)
		record := fx.recordRepo.records[0]
		assert.Equal(t, inscription.ID, record.InscriptionID)
		assert.NotNil(t, record.PositionSelectionID)
		assert.Equal(t, scoring.StatusDraft, record.Status)
		assert.Equal(t, scoring.TitleTypeDocente, record.TitleType)
		assert.True(t, record.Scores.Get(scoring.CriterionPromedio).Equal(decimal.RequireFromString("8.5")))
		assert.True(t, record.Total.Equal(decimal.RequireFromString("45.50")), "total is %s", record.Total)
	})

	t.Run("ignores the spreadsheet TOTAL column and recomputes from scores", func(t *testing.T) {
		fx := newImportFixture(t, 10)
		fx.addApplicant(t, "1005")

		// Scores sum to 45.50; the export claims 99
		data := sheetHeader() + "\n" + "1005,9,3,6,10,8.50,2,1,2,3,1,99" + "\n"
		result, err := fx.run(context.Background(), data)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ImportedRows)

		record := fx.recordRepo.records[0]
		assert.True(t, record.Total.Equal(decimal.RequireFromString("45.50")), "total is %s", record.Total)
	})

	t.Run("derives the title type from the titulo band", func(t *testing.T) {
		fx := newImportFixture(t, 10)
		fx.addApplicant(t, "1002")

		data := sheetHeader() + "\n" + "1002,\"5,50\",0,0,0,0,0,0,0,0,0," + "\n"
		result, err := fx.run(context.Background(), data)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ImportedRows)

		record := fx.recordRepo.records[0]
		assert.Equal(t, scoring.TitleTypeHabilitante, record.TitleType)
		assert.True(t, record.Total.Equal(decimal.RequireFromString("5.5")))
	})

	t.Run("unknown legajo lands in the error bucket with a not-found message", func(t *testing.T) {
		fx := newImportFixture(t, 10)
		fx.addApplicant(t, "1001")

		data := sheetHeader() + "\n" + sheetLine("1001") + "\n" + sheetLine("9999") + "\n"
		result, err := fx.run(context.Background(), data)

		require.NoError(t, err)
		assert.Equal(t, 1, result.ImportedRows)
		assert.Equal(t, 1, result.ErrorRows)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "9999", result.Errors[0].Legajo)
		assert.Contains(t, result.Errors[0].Message, "no encontrado")
	})

	t.Run("inscription without the fixed role is skipped, not errored", func(t *testing.T) {
		fx := newImportFixture(t, 10)
		applicant, err := registration.NewApplicant("2001", "Luis", "Paz")
		require.NoError(t, err)
		fx.applicantRepo.byLegajo["2001"] = applicant
		inscription, err := registration.NewInscription(applicant.ID, fx.periodID, registration.LevelSecundario)
		require.NoError(t, err)
		fx.inscriptionRepo.inscriptions = append(fx.inscriptionRepo.inscriptions, inscription)

		data := sheetHeader() + "\n" + sheetLine("2001") + "\n"
		result, err := fx.run(context.Background(), data)

		require.NoError(t, err)
		assert.Zero(t, result.ImportedRows)
		assert.Equal(t, 1, result.SkippedRows)
		assert.Zero(t, result.ErrorRows)
		assert.Empty(t, fx.recordRepo.records)
	})

	t.Run("creates a minimal inscription when the period has none", func(t *testing.T) {
		fx := newImportFixture(t, 10)
		applicant, err := registration.NewApplicant("3001", "Rosa", "Mena")
		require.NoError(t, err)
		fx.applicantRepo.byLegajo["3001"] = applicant

		data := sheetHeader() + "\n" + sheetLine("3001") + "\n"
		result, err := fx.run(context.Background(), data)

		require.NoError(t, err)
		// No selections exist for the fresh inscription, so the row skips
		assert.Equal(t, 1, result.SkippedRows)
		assert.Equal(t, 1, fx.inscriptionRepo.saved)
		created := fx.inscriptionRepo.inscriptions[0]
		assert.Equal(t, registration.DefaultSubjectArea, created.SubjectArea)
		assert.Zero(t, created.ExperienceYears)
	})

	t.Run("publishes progress after every chunk", func(t *testing.T) {
		fx := newImportFixture(t, 2)
		for i := 0; i < 5; i++ {
			fx.addApplicant(t, fmt.Sprintf("40%02d", i))
		}

		var lines []string
		for i := 0; i < 5; i++ {
			lines = append(lines, sheetLine(fmt.Sprintf("40%02d", i)))
		}
		data := sheetHeader() + "\n" + strings.Join(lines, "\n") + "\n"

		result, err := fx.run(context.Background(), data)

		require.NoError(t, err)
		assert.Equal(t, 5, result.ImportedRows)

		// One initial snapshot, one per chunk (3 chunks of 2,2,1) and the
		// terminal one
		require.GreaterOrEqual(t, len(fx.store.snapshots), 5)

		var processed []int
		for _, snap := range fx.store.snapshots {
			processed = append(processed, snap.ProcessedRows)
		}
		assert.IsNonDecreasing(t, processed)

		last := fx.store.snapshots[len(fx.store.snapshots)-1]
		assert.Equal(t, string(bulk.ImportStatusCompleted), last.Status)
		assert.Equal(t, 100, last.Percentage)
		assert.Equal(t, 5, last.ProcessedRows)
		assert.Equal(t, 5, last.ImportedRows)
	})

	t.Run("a cancelled context stops the run between chunks", func(t *testing.T) {
		fx := newImportFixture(t, 2)
		for i := 0; i < 4; i++ {
			fx.addApplicant(t, fmt.Sprintf("50%02d", i))
		}

		var lines []string
		for i := 0; i < 4; i++ {
			lines = append(lines, sheetLine(fmt.Sprintf("50%02d", i)))
		}
		data := sheetHeader() + "\n" + strings.Join(lines, "\n") + "\n"

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := fx.run(ctx, data)

		require.NoError(t, err)
		assert.Zero(t, result.ImportedRows)

		require.Len(t, fx.historyRepo.saved, 1)
		assert.Equal(t, bulk.ImportStatusCancelled, fx.historyRepo.saved[0].Status)
		assert.Empty(t, fx.recordRepo.records)
	})

	t.Run("re-running the same file upserts instead of duplicating", func(t *testing.T) {
		fx := newImportFixture(t, 10)
		fx.addApplicant(t, "1001")

		data := sheetHeader() + "\n" + sheetLine("1001") + "\n"
		_, err := fx.run(context.Background(), data)
		require.NoError(t, err)
		_, err = fx.run(context.Background(), data)
		require.NoError(t, err)

		assert.Len(t, fx.recordRepo.records, 1)
	})

	t.Run("rejects a file without the legajo column", func(t *testing.T) {
		fx := newImportFixture(t, 10)

		data := "NOMBRE,TÍTULO\nAna,9\n"
		result, err := fx.run(context.Background(), data)

		assert.Nil(t, result)
		assert.Error(t, err)

		require.Len(t, fx.historyRepo.saved, 1)
		assert.Equal(t, bulk.ImportStatusFailed, fx.historyRepo.saved[0].Status)
	})

	t.Run("rejects a run without importer identity", func(t *testing.T) {
		fx := newImportFixture(t, 10)

		_, err := fx.service.Run(context.Background(), RunInput{
			PeriodID:   fx.periodID,
			Level:      registration.LevelSecundario,
			FileName:   "puntajes.csv",
			ImportedBy: uuid.Nil,
			Data:       []byte(sheetHeader() + "\n"),
		})

		assert.Equal(t, shared.ErrUnauthorized, err)
		assert.Empty(t, fx.historyRepo.saved)
	})
}
