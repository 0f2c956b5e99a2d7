package bulk

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHistory(t *testing.T) *ImportHistory {
	t.Helper()
	h, err := NewImportHistory(ImportEntityEvaluations, uuid.New(), "padron_2025.csv", 2048, uuid.New())
	require.NoError(t, err)
	return h
}

func TestImportStatus(t *testing.T) {
	tests := []struct {
		name     string
		status   ImportStatus
		valid    bool
		terminal bool
	}{
		{"pending", ImportStatusPending, true, false},
		{"processing", ImportStatusProcessing, true, false},
		{"completed", ImportStatusCompleted, true, true},
		{"failed", ImportStatusFailed, true, true},
		{"cancelled", ImportStatusCancelled, true, true},
		{"invalid", ImportStatus("invalid"), false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.IsValid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestNewImportHistory(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		h := newHistory(t)
		assert.Equal(t, ImportStatusPending, h.Status)
		assert.NotNil(t, h.GetCreatedBy())
	})

	t.Run("invalid entity type", func(t *testing.T) {
		_, err := NewImportHistory(ImportEntityType("products"), uuid.New(), "x.csv", 1, uuid.New())
		assert.Error(t, err)
	})

	t.Run("missing period", func(t *testing.T) {
		_, err := NewImportHistory(ImportEntityEvaluations, uuid.Nil, "x.csv", 1, uuid.New())
		assert.Error(t, err)
	})

	t.Run("empty file name", func(t *testing.T) {
		_, err := NewImportHistory(ImportEntityEvaluations, uuid.New(), "", 1, uuid.New())
		assert.Error(t, err)
	})
}

func TestImportHistoryLifecycle(t *testing.T) {
	t.Run("pending to processing to completed", func(t *testing.T) {
		h := newHistory(t)
		require.NoError(t, h.StartProcessing(100))
		assert.Equal(t, ImportStatusProcessing, h.Status)
		assert.NotNil(t, h.StartedAt)

		require.NoError(t, h.Complete(90, 6, 4, []ImportErrorDetail{
			{Row: 3, Legajo: "123", Code: "NOT_FOUND", Message: "aspirante no encontrado"},
		}))
		assert.Equal(t, ImportStatusCompleted, h.Status)
		assert.Equal(t, 90, h.ImportedRows)
		assert.Equal(t, 6, h.SkippedRows)
		assert.Equal(t, 4, h.ErrorRows)
		assert.True(t, h.HasErrors())
		assert.InDelta(t, 90.0, h.SuccessRate(), 0.001)
	})

	t.Run("all rows failing marks the run failed", func(t *testing.T) {
		h := newHistory(t)
		require.NoError(t, h.StartProcessing(5))
		require.NoError(t, h.Complete(0, 0, 5, nil))
		assert.Equal(t, ImportStatusFailed, h.Status)
	})

	t.Run("cannot complete before starting", func(t *testing.T) {
		h := newHistory(t)
		assert.Error(t, h.Complete(1, 0, 0, nil))
	})

	t.Run("cancel is rejected on terminal state", func(t *testing.T) {
		h := newHistory(t)
		require.NoError(t, h.StartProcessing(1))
		require.NoError(t, h.Complete(1, 0, 0, nil))
		assert.Error(t, h.Cancel())
	})
}

func TestImportHistoryErrorDetailsJSON(t *testing.T) {
	h := newHistory(t)
	require.NoError(t, h.StartProcessing(2))
	require.NoError(t, h.Complete(1, 0, 1, []ImportErrorDetail{
		{Row: 2, Legajo: "999", Code: "NOT_FOUND", Message: "aspirante no encontrado"},
	}))

	data, err := h.ErrorDetailsJSON()
	require.NoError(t, err)

	var restored ImportHistory
	require.NoError(t, restored.SetErrorDetailsFromJSON(data))
	require.Len(t, restored.ErrorDetails, 1)
	assert.Equal(t, "999", restored.ErrorDetails[0].Legajo)

	t.Run("empty round trip", func(t *testing.T) {
		var empty ImportHistory
		require.NoError(t, empty.SetErrorDetailsFromJSON(""))
		assert.Empty(t, empty.ErrorDetails)
	})
}
