package filestore_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/filestore"
)

func TestStore_MissingFileIsEmpty(t *testing.T) {
	s, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	recs, err := s.Load(context.Background(), repository.CollectionProducts)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestStore_SaveBatchAndLoad(t *testing.T) {
	dir := t.TempDir()
	s, err := filestore.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.SaveBatch(ctx, map[repository.Collection][]json.RawMessage{
		repository.CollectionMovements: {json.RawMessage(`{"id":1}`), json.RawMessage(`{"id":2}`)},
		repository.CollectionSettings:  {json.RawMessage(`{"currency":"$"}`)},
	}))

	recs, err := s.Load(ctx, repository.CollectionMovements)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.JSONEq(t, `{"id":2}`, string(recs[1]))

	// settings.json es un objeto, como lo escriben las versiones anteriores
	raw, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency":"$"}`, string(raw))

	recs, err = s.Load(ctx, repository.CollectionSettings)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.JSONEq(t, `{"currency":"$"}`, string(recs[0]))

	// sin temporales sobrantes
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestStore_SaveEmptyCollection(t *testing.T) {
	dir := t.TempDir()
	s, err := filestore.New(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, repository.CollectionSales, nil))
	raw, err := os.ReadFile(filepath.Join(dir, "sales.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestStore_CorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.json"), []byte(`[{"id":`), 0o644))
	s, err := filestore.New(dir)
	require.NoError(t, err)

	_, err = s.Load(context.Background(), repository.CollectionProducts)
	assert.Error(t, err)
}
