package stock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

func intPtr(n int) *int { return &n }

var t0 = time.Date(2025, 7, 21, 9, 0, 0, 0, time.UTC)

func mov(id int64, kind entity.MovementType, qty int, minutes int) entity.Movement {
	return entity.Movement{ID: id, ProductID: "p1", Type: kind, Quantity: qty, Date: t0.Add(time.Duration(minutes) * time.Minute)}
}

// ─── Clasificación ───────────────────────────────────────────────────────────

func TestClassify_DefaultThresholds(t *testing.T) {
	s := entity.DefaultSettings() // bajo 5, crítico 2
	cases := []struct {
		stock int
		want  stock.Status
	}{
		{0, stock.StatusCritical},
		{2, stock.StatusCritical},
		{3, stock.StatusLow},
		{5, stock.StatusLow},
		{6, stock.StatusInStock},
	}
	for _, c := range cases {
		p := &entity.Product{Stock: c.stock}
		assert.Equal(t, c.want, stock.Classify(p, s), "stock %d", c.stock)
	}
}

func TestClassify_PerFieldOverride(t *testing.T) {
	s := entity.DefaultSettings()
	// solo se sobreescribe el umbral bajo; el crítico sigue siendo el global
	p := &entity.Product{Stock: 8, LowStockThreshold: intPtr(10)}
	low, critical := stock.Thresholds(p, s)
	assert.Equal(t, 10, low)
	assert.Equal(t, 2, critical)
	assert.Equal(t, stock.StatusLow, stock.Classify(p, s))

	p = &entity.Product{Stock: 4, CriticalStockThreshold: intPtr(4)}
	assert.Equal(t, stock.StatusCritical, stock.Classify(p, s))
}

func TestParseStatus(t *testing.T) {
	st, err := stock.ParseStatus("low")
	require.NoError(t, err)
	assert.Equal(t, stock.StatusLow, st)

	st, err = stock.ParseStatus("")
	require.NoError(t, err)
	assert.Equal(t, stock.Status(""), st)

	_, err = stock.ParseStatus("agotado")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.True(t, stock.StatusCritical.NeedsAttention())
	assert.False(t, stock.StatusInStock.NeedsAttention())
}

// ─── Movimientos ─────────────────────────────────────────────────────────────

func TestNext(t *testing.T) {
	n, err := stock.Next("p1", 10, entity.MovementAdd, 5)
	require.NoError(t, err)
	assert.Equal(t, 15, n)

	n, err = stock.Next("p1", 10, entity.MovementAdjust, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = stock.Next("p1", 3, entity.MovementRemove, 4)
	assert.Equal(t, 3, n)
	var ise *domain.InsufficientStockError
	require.True(t, errors.As(err, &ise))
	assert.Equal(t, 3, ise.Available)
	assert.Equal(t, 4, ise.Requested)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	_, err = stock.Next("p1", 3, entity.MovementRemove, 0)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	_, err = stock.Next("p1", 3, entity.MovementAdjust, -1)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReplay_ChronologicalOrder(t *testing.T) {
	// registrados fuera de orden: el ajuste es el último en el tiempo
	movs := []entity.Movement{
		mov(3, entity.MovementAdjust, 7, 30),
		mov(1, entity.MovementAdd, 4, 10),
		mov(2, entity.MovementRemove, 5, 20),
	}
	assert.Equal(t, 7, stock.Replay(20, movs))
	assert.Equal(t, -13, stock.NetEffect(20, movs))
	// la entrada no se modifica
	assert.Equal(t, int64(3), movs[0].ID)
}

func TestSortChronological_TieBreakByID(t *testing.T) {
	movs := []entity.Movement{mov(2, entity.MovementAdd, 1, 0), mov(1, entity.MovementRemove, 1, 0)}
	stock.SortChronological(movs)
	assert.Equal(t, int64(1), movs[0].ID)
}

func TestDeriveInitial(t *testing.T) {
	movs := []entity.Movement{mov(1, entity.MovementAdd, 4, 1), mov(2, entity.MovementRemove, 5, 2)}
	initial, ok := stock.DeriveInitial(19, movs)
	require.True(t, ok)
	assert.Equal(t, 20, initial)
	assert.True(t, stock.Consistent(20, 19, movs))
	assert.False(t, stock.Consistent(10, 19, movs))

	// antes del primer ajuste se necesita al menos 3 unidades
	movs = []entity.Movement{
		mov(1, entity.MovementRemove, 3, 1),
		mov(2, entity.MovementAdjust, 10, 2),
		mov(3, entity.MovementAdd, 2, 3),
	}
	initial, ok = stock.DeriveInitial(12, movs)
	require.True(t, ok)
	assert.Equal(t, 3, initial)

	// el ajuste fija 10: ningún inicial reproduce 7
	_, ok = stock.DeriveInitial(7, []entity.Movement{mov(1, entity.MovementAdjust, 10, 1)})
	assert.False(t, ok)

	initial, ok = stock.DeriveInitial(5, nil)
	require.True(t, ok)
	assert.Equal(t, 5, initial)
}

func TestWeightedAverageCost(t *testing.T) {
	// 10 @ 50 + 10 @ 70 = 60
	got := stock.WeightedAverageCost(10, decimal.NewFromInt(50), 10, decimal.NewFromInt(70))
	assert.True(t, got.Equal(decimal.NewFromInt(60)), got.String())

	// sin stock previo el costo es el de la entrada
	got = stock.WeightedAverageCost(0, decimal.NewFromInt(99), 4, decimal.RequireFromString("12.5"))
	assert.True(t, got.Equal(decimal.RequireFromString("12.5")), got.String())

	// 3 @ 10 + 1 @ 11 = 10.25
	got = stock.WeightedAverageCost(3, decimal.NewFromInt(10), 1, decimal.NewFromInt(11))
	assert.Equal(t, "10.25", got.StringFixed(2))

	assert.True(t, stock.WeightedAverageCost(0, decimal.NewFromInt(5), 0, decimal.NewFromInt(5)).IsZero())
}
