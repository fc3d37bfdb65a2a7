package postgres_test

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Requiere una base de datos real: TEST_DATABASE_URL=postgres://... go test ./...
func newTestStore(t *testing.T) *postgres.CollectionStore {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `DROP TABLE IF EXISTS stock_collections`)
	require.NoError(t, err)
	s := postgres.NewCollectionStore(pool)
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestCollectionStore_SaveBatchAndStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	recs, err := s.Load(ctx, repository.CollectionSales)
	require.NoError(t, err)
	assert.Empty(t, recs)

	require.NoError(t, s.SaveBatch(ctx, map[repository.Collection][]json.RawMessage{
		repository.CollectionSales: {
			json.RawMessage(`{"id":"a","total":"400.00"}`),
			json.RawMessage(`{"id":"b","total":"99.5"}`),
		},
		repository.CollectionProducts: {json.RawMessage(`{"id":"p","sku":"SOL-100W"}`)},
	}))

	recs, err = s.Load(ctx, repository.CollectionSales)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.JSONEq(t, `{"id":"a","total":"400.00"}`, string(recs[0]))

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 2)
	assert.Equal(t, repository.CollectionProducts, stats[0].Name)
	assert.Equal(t, "0.00", stats[0].ValueTotal.StringFixed(2))
	assert.Equal(t, 2, stats[1].Records)
	assert.Equal(t, "499.50", stats[1].ValueTotal.StringFixed(2))
}
