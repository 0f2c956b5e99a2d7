package progress

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junta/backend/internal/domain/shared"
)

func TestMemoryStore_PublishAndGet(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	importID := uuid.New()

	snap := Snapshot{
		ImportID:      importID,
		Status:        "processing",
		Percentage:    40,
		ProcessedRows: 4,
		TotalRows:     10,
		ImportedRows:  3,
		ErrorRows:     1,
	}
	require.NoError(t, store.Publish(ctx, snap))

	got, err := store.Get(ctx, importID)
	require.NoError(t, err)
	assert.Equal(t, 40, got.Percentage)
	assert.Equal(t, "processing", got.Status)
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt is stamped on publish")
}

func TestMemoryStore_LatestWins(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	importID := uuid.New()

	require.NoError(t, store.Publish(ctx, Snapshot{ImportID: importID, Percentage: 10}))
	require.NoError(t, store.Publish(ctx, Snapshot{ImportID: importID, Percentage: 90}))

	got, err := store.Get(ctx, importID)
	require.NoError(t, err)
	assert.Equal(t, 90, got.Percentage)
}

func TestMemoryStore_UnknownImport(t *testing.T) {
	store := NewMemoryStore(time.Minute)

	_, err := store.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(10 * time.Millisecond)
	ctx := context.Background()
	importID := uuid.New()

	require.NoError(t, store.Publish(ctx, Snapshot{ImportID: importID, Percentage: 100}))
	time.Sleep(25 * time.Millisecond)

	_, err := store.Get(ctx, importID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	importID := uuid.New()

	require.NoError(t, store.Publish(ctx, Snapshot{ImportID: importID, Percentage: 50}))

	first, err := store.Get(ctx, importID)
	require.NoError(t, err)
	first.Percentage = 99

	second, err := store.Get(ctx, importID)
	require.NoError(t, err)
	assert.Equal(t, 50, second.Percentage)
}
