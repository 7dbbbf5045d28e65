//go:build !without_sqlite

package vectorstore_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/soontechgroup/ai-agents-sub001/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqliteStore(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) vectorstore.Store {
		store, err := vectorstore.NewSqliteStore(filepath.Join(t.TempDir(), "vectors.db"), 256)
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store
	})
}

func TestSqliteStore_RejectsDimensionMismatch(t *testing.T) {
	store, err := vectorstore.NewSqliteStore(filepath.Join(t.TempDir(), "vectors.db"), 4)
	require.NoError(t, err)
	defer store.Close()

	err = store.Upsert(t.Context(), vectorstore.CollectionEntities, vectorstore.Record{ID: "x", OwnerID: 1, Embedding: []float32{1, 2}})
	assert.Error(t, err)
}

func TestSqliteStore_QueryLargeOwner(t *testing.T) {
	if testing.Short() {
		t.Skip("inserts more records than sqlite allows bound variables")
	}

	store, err := vectorstore.NewSqliteStore(filepath.Join(t.TempDir(), "vectors.db"), 2)
	require.NoError(t, err)
	defer store.Close()

	records := make([]vectorstore.Record, 33000)
	for i := range records {
		records[i] = vectorstore.Record{
			ID:        fmt.Sprintf("m%d", i),
			OwnerID:   1,
			Content:   fmt.Sprintf("memory %d", i),
			Embedding: []float32{1, float32(i + 1)},
		}
	}
	require.NoError(t, store.Upsert(t.Context(), vectorstore.CollectionConversationMemory, records...))
	require.NoError(t, store.Upsert(t.Context(), vectorstore.CollectionConversationMemory,
		vectorstore.Record{ID: "other", OwnerID: 2, Content: "other owner", Embedding: []float32{1, 0}},
	))

	matches, err := store.Query(t.Context(), vectorstore.CollectionConversationMemory, 1, []float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, "m0", matches[0].ID)
	for _, m := range matches {
		assert.EqualValues(t, 1, m.OwnerID)
	}

	require.NoError(t, store.DeleteOwner(t.Context(), vectorstore.CollectionConversationMemory, 1))
	matches, err = store.Query(t.Context(), vectorstore.CollectionConversationMemory, 1, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Empty(t, matches)

	matches, err = store.Query(t.Context(), vectorstore.CollectionConversationMemory, 2, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}
