package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gomexpay/edenred/provider"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStoreSaveAndList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := provider.OperationLog{
		ID:         "op-1",
		Provider:   "edenred",
		Operation:  "authorize",
		CardToken:  "tok_1",
		Identifier: "auth_1",
		Amount:     1000,
		Success:    true,
		DurationMs: 42,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, s.SaveOperation(ctx, entry))

	entries, err := s.ListOperations(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.Equal(t, "op-1", got.ID)
	assert.Equal(t, "edenred", got.Provider)
	assert.Equal(t, "authorize", got.Operation)
	assert.Equal(t, "tok_1", got.CardToken)
	assert.Equal(t, "auth_1", got.Identifier)
	assert.Equal(t, int64(1000), got.Amount)
	assert.True(t, got.Success)
	assert.Equal(t, int64(42), got.DurationMs)
	assert.WithinDuration(t, entry.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestSQLiteStoreFailureEntry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	entry := provider.OperationLog{
		ID:           "op-2",
		Provider:     "edenred",
		Operation:    "capture",
		Success:      false,
		ErrorMessage: "104: declined",
		CreatedAt:    time.Now().UTC(),
	}
	require.NoError(t, s.SaveOperation(ctx, entry))

	entries, err := s.ListOperations(ctx, "edenred", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Success)
	assert.Equal(t, "104: declined", entries[0].ErrorMessage)
}

func TestSQLiteStoreProviderFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	require.NoError(t, s.SaveOperation(ctx, provider.OperationLog{ID: "a", Provider: "edenred", Operation: "pay", Success: true, CreatedAt: now}))
	require.NoError(t, s.SaveOperation(ctx, provider.OperationLog{ID: "b", Provider: "other", Operation: "pay", Success: true, CreatedAt: now}))

	entries, err := s.ListOperations(ctx, "edenred", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a", entries[0].ID)

	all, err := s.ListOperations(ctx, "", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestSQLiteStoreOrderingAndLimit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, s.SaveOperation(ctx, provider.OperationLog{
			ID: id, Provider: "edenred", Operation: "pay", Success: true,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	entries, err := s.ListOperations(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "new", entries[0].ID)
	assert.Equal(t, "mid", entries[1].ID)
}

func TestSQLiteStorePing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}
