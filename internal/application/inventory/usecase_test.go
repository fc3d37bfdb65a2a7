package inventory_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

func TestUseCase_UpdateProductWithStockRecordsAdjust(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.uc.CreateProduct(ctx, dto.CreateProductRequest{
		SKU: "SOL-100W", Name: "Panel 100W", Category: "Paneles", Stock: 20,
		Cost: decimal.NewFromInt(50), Price: decimal.NewFromInt(80),
	})
	require.NoError(t, err)
	assert.Equal(t, "InStock", created.Status)

	updated, err := f.uc.UpdateProduct(ctx, created.ID, dto.UpdateProductRequest{
		SKU: "SOL-100W", Name: "Panel 100W", Category: "Paneles", Stock: intPtr(12),
		Cost: decimal.NewFromInt(50), Price: decimal.NewFromInt(85), Version: created.Version,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Stock)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(85)))
	assert.Equal(t, created.Version+1, updated.Version, "una sola versión por unidad de trabajo")

	movs, err := f.uc.ProductMovements(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, movs.Items, 1)
	assert.Equal(t, "adjust", movs.Items[0].Type)
	assert.Equal(t, 12, movs.Items[0].Quantity)
	assertReplayConsistent(t, f)

	// Mismo stock: no genera movimiento
	_, err = f.uc.UpdateProduct(ctx, created.ID, dto.UpdateProductRequest{
		SKU: "SOL-100W", Name: "Panel", Stock: intPtr(12),
		Cost: decimal.NewFromInt(50), Price: decimal.NewFromInt(85),
	})
	require.NoError(t, err)
	movs, err = f.uc.ProductMovements(ctx, created.ID)
	require.NoError(t, err)
	assert.Len(t, movs.Items, 1)
}

func TestUseCase_UpdateProductFailureIsAtomic(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, err := f.uc.CreateProduct(ctx, dto.CreateProductRequest{SKU: "A", Name: "A", Stock: 1})
	require.NoError(t, err)
	_, err = f.uc.CreateProduct(ctx, dto.CreateProductRequest{SKU: "B", Name: "B", Stock: 1})
	require.NoError(t, err)

	_, err = f.uc.UpdateProduct(ctx, a.ID, dto.UpdateProductRequest{SKU: "B", Name: "A", Stock: intPtr(9)})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	got, err := f.uc.GetProduct(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Stock)
	assert.Empty(t, f.st.Snapshot().Movements())
}

func TestUseCase_RecordMovement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, dto.CreateProductRequest{SKU: "INV-1KW", Name: "Inversor", Stock: 10})
	require.NoError(t, err)

	out, err := f.uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductID: p.ID, Type: "ADD", Quantity: 5, Notes: " compra "})
	require.NoError(t, err)
	assert.Equal(t, 15, out.Product.Stock)
	assert.Equal(t, "compra", out.Movement.Notes)
	assert.Equal(t, "Inversor", out.Movement.ProductName)

	_, err = f.uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductID: p.ID, Type: "transfer", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductID: p.ID, Type: "remove", Quantity: 16})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestUseCase_ListMovementsRangeAndOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, dto.CreateProductRequest{SKU: "X", Name: "X", Stock: 0})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := f.uc.RecordMovement(ctx, dto.RecordMovementRequest{ProductID: p.ID, Type: "add", Quantity: i + 1})
		require.NoError(t, err)
	}

	desc, err := f.uc.ListMovements(ctx, dto.MovementListRequest{})
	require.NoError(t, err)
	require.Len(t, desc.Items, 3)
	assert.Equal(t, 3, desc.Items[0].Quantity)

	asc, err := f.uc.ListMovements(ctx, dto.MovementListRequest{Order: "asc", Limit: 2})
	require.NoError(t, err)
	require.Len(t, asc.Items, 2)
	assert.Equal(t, 1, asc.Items[0].Quantity)

	none, err := f.uc.ListMovements(ctx, dto.MovementListRequest{From: "2030-01-01"})
	require.NoError(t, err)
	assert.Empty(t, none.Items)

	day, err := f.uc.ListMovements(ctx, dto.MovementListRequest{From: "2025-07-21", To: "2025-07-21"})
	require.NoError(t, err)
	assert.Len(t, day.Items, 3)

	_, err = f.uc.ListMovements(ctx, dto.MovementListRequest{Order: "sideways"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.ListMovements(ctx, dto.MovementListRequest{From: "ayer"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUseCase_ProductStatusUsesOverrides(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.uc.CreateProduct(ctx, dto.CreateProductRequest{SKU: "X", Name: "X", Stock: 3, CriticalStockThreshold: intPtr(3)})
	require.NoError(t, err)

	st, err := f.uc.ProductStatus(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Critical", st.Status)
	assert.Equal(t, 5, st.LowThreshold, "low proviene de la configuración global")
	assert.Equal(t, 3, st.CriticalThreshold)

	_, err = f.uc.ProductStatus(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
