package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// failingGateway falla en SaveBatch cuando fail está activo.
type failingGateway struct {
	*memory.Gateway
	fail atomic.Bool
}

func (g *failingGateway) SaveBatch(ctx context.Context, batch map[repository.Collection][]json.RawMessage) error {
	if g.fail.Load() {
		return errors.New("disco lleno")
	}
	return g.Gateway.SaveBatch(ctx, batch)
}

var fixedNow = time.Date(2025, 7, 21, 10, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, gw repository.StorageGateway) *store.Store {
	t.Helper()
	return store.New(gw, zerolog.Nop(), store.WithClock(func() time.Time { return fixedNow }))
}

func newProduct(t *testing.T, sku string, stock int) *entity.Product {
	t.Helper()
	p, err := entity.NewProduct(entity.ProductSpec{
		SKU: sku, Name: sku, Category: "Solar", Stock: stock,
		Cost: decimal.NewFromInt(50), Price: decimal.NewFromInt(80),
	}, fixedNow)
	require.NoError(t, err)
	return p
}

// ─────────────────────────────────────────────────────────────────────────────
// Run
// ─────────────────────────────────────────────────────────────────────────────

func TestRun_PublishesAfterPersist(t *testing.T) {
	gw := memory.NewGateway()
	s := newTestStore(t, gw)
	p := newProduct(t, "SOL-100W", 20)

	err := s.Run(context.Background(), func(tx *store.Tx) error {
		tx.PutProduct(p)
		tx.AppendMovement(entity.Movement{ProductID: p.ID, Type: entity.MovementAdd, Quantity: 5})
		return nil
	})
	require.NoError(t, err)

	snap := s.Snapshot()
	got := snap.Product(p.ID)
	require.NotNil(t, got)
	assert.Equal(t, int64(1), got.Version)
	movs := snap.Movements()
	require.Len(t, movs, 1)
	assert.Equal(t, int64(1), movs[0].ID)
	assert.Equal(t, fixedNow, movs[0].Date)
	assert.Equal(t, 1, gw.Saves())

	recs, err := gw.Load(context.Background(), repository.CollectionProducts)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}

func TestRun_FnErrorLeavesNoEffects(t *testing.T) {
	gw := memory.NewGateway()
	s := newTestStore(t, gw)
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(tx *store.Tx) error {
		tx.PutProduct(newProduct(t, "X", 1))
		tx.NextOrderNumber()
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, s.Snapshot().Products())
	assert.Equal(t, entity.OrderNumberBase, s.Snapshot().LastOrderSeq())
	assert.Equal(t, 0, gw.Saves())
}

func TestRun_PersistFailureDoesNotPublish(t *testing.T) {
	gw := &failingGateway{Gateway: memory.NewGateway()}
	s := newTestStore(t, gw)
	gw.fail.Store(true)

	err := s.Run(context.Background(), func(tx *store.Tx) error {
		tx.PutProduct(newProduct(t, "X", 1))
		tx.NextOrderNumber()
		return nil
	})
	require.Error(t, err)
	assert.Empty(t, s.Snapshot().Products())
	assert.Equal(t, entity.OrderNumberBase, s.Snapshot().LastOrderSeq())

	// El número de pedido no quedó consumido
	gw.fail.Store(false)
	var order string
	require.NoError(t, s.Run(context.Background(), func(tx *store.Tx) error {
		order = tx.NextOrderNumber()
		tx.PutSettings(tx.Settings())
		return nil
	}))
	assert.Equal(t, "ORD-1001", order)
}

func TestRun_VersionIncrementsOnUpdate(t *testing.T) {
	s := newTestStore(t, memory.NewGateway())
	p := newProduct(t, "X", 3)
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(tx *store.Tx) error { tx.PutProduct(p); return nil }))

	require.NoError(t, s.Run(ctx, func(tx *store.Tx) error {
		cur := tx.Product(p.ID)
		require.NoError(t, tx.CheckVersion(p.ID, 1))
		cur.Stock = 7
		tx.PutProduct(cur)
		tx.PutProduct(cur) // segunda escritura en la misma unidad no vuelve a incrementar
		return nil
	}))
	got := s.Snapshot().Product(p.ID)
	assert.Equal(t, int64(2), got.Version)
	assert.Equal(t, 7, got.Stock)

	err := s.Run(ctx, func(tx *store.Tx) error { return tx.CheckVersion(p.ID, 1) })
	assert.ErrorIs(t, err, store.ErrStale)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRun_SnapshotIsIsolated(t *testing.T) {
	s := newTestStore(t, memory.NewGateway())
	p := newProduct(t, "X", 3)
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(tx *store.Tx) error { tx.PutProduct(p); return nil }))

	before := s.Snapshot()
	require.NoError(t, s.Run(ctx, func(tx *store.Tx) error {
		require.True(t, tx.DeleteProduct(p.ID))
		return nil
	}))
	assert.NotNil(t, before.Product(p.ID), "la instantánea previa no cambia")
	assert.Nil(t, s.Snapshot().Product(p.ID))

	// Mutar una copia devuelta no afecta el estado
	before.Product(p.ID).Stock = 999
	assert.Equal(t, 3, before.Product(p.ID).Stock)
}

func TestRun_ReplaceDerivesCounters(t *testing.T) {
	s := newTestStore(t, memory.NewGateway())
	p := newProduct(t, "X", 3)
	sale, err := entity.NewSale("s1", "ORD-1042", "Ana", []entity.SaleItem{
		{ProductID: p.ID, Quantity: 1, Price: decimal.NewFromInt(80)},
	}, fixedNow)
	require.NoError(t, err)

	var next string
	require.NoError(t, s.Run(context.Background(), func(tx *store.Tx) error {
		tx.Replace([]*entity.Product{p},
			[]entity.Movement{{ID: 7, ProductID: p.ID, Type: entity.MovementAdd, Quantity: 1, Date: fixedNow}},
			[]entity.Sale{*sale}, entity.DefaultSettings())
		next = tx.NextOrderNumber()
		m := tx.AppendMovement(entity.Movement{ProductID: p.ID, Type: entity.MovementRemove, Quantity: 1})
		assert.Equal(t, int64(8), m.ID)
		return nil
	}))
	assert.Equal(t, "ORD-1043", next)
	assert.Len(t, s.Snapshot().Movements(), 2)
}

// ─────────────────────────────────────────────────────────────────────────────
// Load
// ─────────────────────────────────────────────────────────────────────────────

func TestLoad_RoundTripThroughGateway(t *testing.T) {
	gw := memory.NewGateway()
	s := newTestStore(t, gw)
	p := newProduct(t, "SOL-100W", 20)
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(tx *store.Tx) error {
		tx.PutProduct(p)
		tx.AppendMovement(entity.Movement{ProductID: p.ID, Type: entity.MovementRemove, Quantity: 2})
		sale, err := entity.NewSale("s1", tx.NextOrderNumber(), "Ana", []entity.SaleItem{
			{ProductID: p.ID, Quantity: 2, Price: decimal.NewFromInt(80)},
		}, tx.Now())
		require.NoError(t, err)
		tx.AppendSale(*sale)
		settings := tx.Settings()
		settings.CompanyName = "Otra"
		tx.PutSettings(settings)
		return nil
	}))

	reloaded := newTestStore(t, gw)
	require.NoError(t, reloaded.Load(ctx))
	snap := reloaded.Snapshot()
	require.NotNil(t, snap.Product(p.ID))
	assert.Len(t, snap.Movements(), 1)
	require.Len(t, snap.Sales(), 1)
	assert.Equal(t, "ORD-1001", snap.Sales()[0].OrderNumber)
	assert.Equal(t, "Otra", snap.Settings().CompanyName)
	assert.Equal(t, int64(1001), snap.LastOrderSeq())
}

func TestRun_ClockGoingBackwardsKeepsHistoryOrdered(t *testing.T) {
	now := fixedNow
	s := store.New(memory.NewGateway(), zerolog.Nop(), store.WithClock(func() time.Time { return now }))
	ctx := context.Background()
	p := newProduct(t, "X", 3)
	require.NoError(t, s.Run(ctx, func(tx *store.Tx) error {
		tx.PutProduct(p)
		tx.AppendMovement(entity.Movement{ProductID: p.ID, Type: entity.MovementAdd, Quantity: 2})
		return nil
	}))

	now = fixedNow.Add(-time.Hour)
	require.NoError(t, s.Run(ctx, func(tx *store.Tx) error {
		assert.Equal(t, fixedNow, tx.Now())
		tx.AppendMovement(entity.Movement{ProductID: p.ID, Type: entity.MovementAdjust, Quantity: 1})
		return nil
	}))

	movs := s.Snapshot().MovementsFor(p.ID)
	require.Len(t, movs, 2)
	assert.False(t, movs[1].Date.Before(movs[0].Date))

	// sin movimientos más recientes el reloj se respeta
	now = fixedNow.Add(time.Hour)
	require.NoError(t, s.Run(ctx, func(tx *store.Tx) error {
		assert.Equal(t, fixedNow.Add(time.Hour), tx.Now())
		return nil
	}))
}
