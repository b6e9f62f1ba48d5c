package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// runStoreContract hành vi chung mọi IRecordStore phải thỏa
func runStoreContract(t *testing.T, store IRecordStore) {
	t.Helper()
	ctx := context.Background()

	_, found, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "k", []byte(`[{"a":1}]`)))
	data, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"a":1}]`, string(data))

	// Ghi đè
	require.NoError(t, store.Set(ctx, "k", []byte(`[]`)))
	data, _, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	require.NoError(t, store.Delete(ctx, "k"))
	_, found, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)

	stats := store.Stats()
	assert.NotEmpty(t, stats.Backend)
	assert.Equal(t, int64(4), stats.Reads)
	assert.Equal(t, int64(2), stats.Writes)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	runStoreContract(t, store)
	assert.Equal(t, "memory", store.Stats().Backend)
	assert.NoError(t, store.Close())
}

func TestMemoryStore_CopiesBlobs(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	in := []byte("abc")
	require.NoError(t, store.Set(ctx, "k", in))
	in[0] = 'x'

	out, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[0] = 'y'
	again, _, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "records.db")

	store, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	runStoreContract(t, store)
	assert.Equal(t, "sqlite", store.Stats().Backend)
	require.NoError(t, store.Close())
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "records.db")

	store, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, DefaultStoreKey, []byte(`[{"id":"1"}]`)))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path, zap.NewNop())
	require.NoError(t, err)
	defer reopened.Close()

	data, found, err := reopened.Get(ctx, DefaultStoreKey)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, string(data))
}

func TestHybridStore(t *testing.T) {
	store := NewHybridStore(NewMemoryStore(), NewMemoryStore(), zap.NewNop())

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte("v")))
	data, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "v", string(data))

	assert.Equal(t, "hybrid(memory+memory)", store.Stats().Backend)
	assert.NoError(t, store.Close())
}

func TestHybridStore_FallbackSyncsPrimary(t *testing.T) {
	ctx := context.Background()
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	require.NoError(t, secondary.Set(ctx, "k", []byte("durable")))

	store := NewHybridStore(primary, secondary, zap.NewNop())

	data, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "durable", string(data))

	assert.Eventually(t, func() bool {
		got, ok, _ := primary.Get(ctx, "k")
		return ok && string(got) == "durable"
	}, time.Second, 10*time.Millisecond)
}

func TestHybridStore_PrimaryErrorFallsBack(t *testing.T) {
	ctx := context.Background()
	primary := &failingStore{MemoryStore: NewMemoryStore(), getErr: errors.New("redis down")}
	secondary := NewMemoryStore()
	require.NoError(t, secondary.Set(ctx, "k", []byte("v")))

	store := NewHybridStore(primary, secondary, zap.NewNop())

	data, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", string(data))
}

func TestHybridStore_SetReportsFailure(t *testing.T) {
	ctx := context.Background()
	secondary := &failingStore{MemoryStore: NewMemoryStore(), setErr: errors.New("mongo down")}
	store := NewHybridStore(NewMemoryStore(), secondary, zap.NewNop())

	err := store.Set(ctx, "k", []byte("v"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secondary")
}
