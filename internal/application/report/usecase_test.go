package report_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/report"
	"github.com/jhoicas/stock-ledger/internal/application/sales"
	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	st      *store.Store
	now     *time.Time
	catalog *inventory.ProductCatalog
	sales   *sales.SaleTransaction
	uc      *report.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	now := time.Date(2025, 7, 21, 12, 0, 0, 0, time.UTC) // lunes, 2025-W30
	f := &fixture{now: &now}
	f.st = store.New(memory.NewGateway(), zerolog.Nop(), store.WithClock(func() time.Time { return *f.now }))
	ledger := inventory.NewMovementLedger(f.st)
	f.catalog = inventory.NewProductCatalog(f.st, ledger, zerolog.Nop())
	f.sales = sales.NewSaleTransaction(f.st, f.catalog, zerolog.Nop())
	f.uc = report.NewUseCase(f.st, nil, zerolog.Nop())
	return f
}

func (f *fixture) product(t *testing.T, sku, category string, stock int, cost, price int64) *entity.Product {
	t.Helper()
	p, err := f.catalog.Create(context.Background(), entity.ProductSpec{
		SKU: sku, Name: sku, Category: category, Stock: stock,
		Cost: decimal.NewFromInt(cost), Price: decimal.NewFromInt(price),
	})
	require.NoError(t, err)
	return p
}

func (f *fixture) sell(t *testing.T, at time.Time, p *entity.Product, qty int) {
	t.Helper()
	*f.now = at
	_, err := f.sales.Complete(context.Background(), "Cliente", []entity.SaleItem{
		{ProductID: p.ID, Quantity: qty, Price: p.Price},
	})
	require.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reportes de ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesReport_WeekFilter(t *testing.T) {
	f := newFixture(t)
	panel := f.product(t, "SOL-100W", "Paneles", 20, 50, 80)
	f.sell(t, time.Date(2025, 7, 21, 10, 0, 0, 0, time.UTC), panel, 2) // W30
	f.sell(t, time.Date(2025, 7, 20, 10, 0, 0, 0, time.UTC), panel, 1) // domingo, W29

	w30, err := f.uc.SalesReport(context.Background(), dto.PeriodRequest{PeriodType: "week", PeriodValue: "2025-W30"})
	require.NoError(t, err)
	assert.Equal(t, 1, w30.SalesCount)
	assert.Equal(t, "160.00", w30.TotalRevenue.StringFixed(2))
	require.Len(t, w30.Products, 1)
	assert.Equal(t, 2, w30.Products[0].QuantitySold)

	w29, err := f.uc.SalesReport(context.Background(), dto.PeriodRequest{PeriodType: "week", PeriodValue: "2025-W29"})
	require.NoError(t, err)
	assert.Equal(t, 1, w29.SalesCount)

	all, err := f.uc.SalesReport(context.Background(), dto.PeriodRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.SalesCount)
	assert.Equal(t, "Todo el historial", all.Period)
	assert.True(t, all.Sales[0].Date.After(all.Sales[1].Date), "más recientes primero")

	_, err = f.uc.SalesReport(context.Background(), dto.PeriodRequest{PeriodType: "month", PeriodValue: "julio"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPerformance_RankedWithUnknownProducts(t *testing.T) {
	f := newFixture(t)
	panel := f.product(t, "SOL-100W", "Paneles", 20, 50, 80)
	inv := f.product(t, "INV-1KW", "Inversores", 10, 120, 200)
	f.sell(t, *f.now, panel, 1)
	f.sell(t, *f.now, inv, 1)
	require.NoError(t, f.catalog.Delete(context.Background(), inv.ID))

	perf, err := f.uc.Performance(context.Background(), dto.PeriodRequest{PeriodType: "day", PeriodValue: "2025-07-21"})
	require.NoError(t, err)
	require.Len(t, perf.Rows, 2)
	assert.Equal(t, dto.UnknownProductName, perf.Rows[0].ProductName, "el inversor eliminado sigue primero por ingreso")
	assert.Equal(t, "SOL-100W", perf.Rows[1].ProductName)
	assert.Equal(t, "280.00", perf.TotalRevenue.StringFixed(2))
}

// ──────────────────────────────────────────────────────────────────────────────
// Inventario y stock bajo
// ──────────────────────────────────────────────────────────────────────────────

func TestInventoryAndLowStock(t *testing.T) {
	f := newFixture(t)
	f.product(t, "SOL-100W", "Paneles", 20, 50, 80)
	f.product(t, "INV-1KW", "Inversores", 10, 120, 200)
	f.product(t, "BAT-200AH", "Baterías", 15, 90, 150)
	f.product(t, "CAB-10M", "Cables", 3, 5, 10)
	f.product(t, "CON-MC4", "Cables", 2, 1, 3)

	inv, err := f.uc.Inventory(context.Background())
	require.NoError(t, err)
	// 20×50 + 10×120 + 15×90 + 3×5 + 2×1
	assert.Equal(t, "3567.00", inv.TotalValue.StringFixed(2))
	assert.Equal(t, 50, inv.TotalUnits)
	assert.Equal(t, "Solar Solutions", inv.CompanyName)

	low, err := f.uc.LowStock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, low.Critical)
	assert.Equal(t, 1, low.Low)
	require.Len(t, low.Items, 2)
	assert.Equal(t, "CON-MC4", low.Items[0].SKU, "críticos primero")
	assert.Equal(t, "Critical", low.Items[0].Status)
	assert.Equal(t, "Low", low.Items[1].Status)

	_, err = f.uc.InventoryPDF(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstreamUnavailable)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	panel := f.product(t, "SOL-100W", "Paneles", 20, 50, 80)
	f.product(t, "CON-MC4", "Cables", 2, 1, 3)
	f.sell(t, time.Date(2025, 7, 19, 9, 0, 0, 0, time.UTC), panel, 1)
	f.sell(t, time.Date(2025, 7, 21, 9, 0, 0, 0, time.UTC), panel, 2)

	d, err := f.uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.TotalProducts)
	assert.Equal(t, 1, d.LowStockCount)
	assert.Equal(t, "160.00", d.TodaySales.StringFixed(2))
	assert.Equal(t, 1, d.TodaySalesCount)
	require.Len(t, d.Last7Days, 7)
	assert.Equal(t, "2025-07-15", d.Last7Days[0].Date)
	assert.Equal(t, "2025-07-21", d.Last7Days[6].Date)
	assert.Equal(t, "80.00", d.Last7Days[4].Total.StringFixed(2))
	assert.True(t, d.Last7Days[5].Total.IsZero())
	require.Len(t, d.RecentMovements, 2)
	assert.Equal(t, 2, d.RecentMovements[0].Quantity)
	require.Len(t, d.StockByCategory, 2)
	assert.Equal(t, dto.CategoryStockDTO{Category: "Cables", Stock: 2}, d.StockByCategory[0])
	// 17×50 + 2×1
	assert.Equal(t, "852.00", d.InventoryValue.StringFixed(2))
}
