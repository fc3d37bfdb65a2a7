package report_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/report"
)

func sale(order string, date time.Time, items ...entity.SaleItem) entity.Sale {
	return entity.Sale{ID: order, OrderNumber: order, Date: date, Customer: "Ana", Items: items, Total: entity.ComputeTotal(items)}
}

func item(id string, qty int, price string) entity.SaleItem {
	return entity.SaleItem{ProductID: id, Quantity: qty, Price: decimal.RequireFromString(price)}
}

// ─── Períodos ────────────────────────────────────────────────────────────────

func TestISOWeekKey(t *testing.T) {
	assert.Equal(t, "2025-W30", report.ISOWeekKey(time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-W30", report.ISOWeekKey(time.Date(2025, 7, 27, 23, 59, 0, 0, time.UTC)))
	// fin de año: la semana pertenece al año de su jueves
	assert.Equal(t, "2025-W01", report.ISOWeekKey(time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2020-W53", report.ISOWeekKey(time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC)))
}

func TestPeriod_WeekFilter(t *testing.T) {
	monday := time.Date(2025, 7, 21, 10, 0, 0, 0, time.UTC)
	sales := []entity.Sale{
		sale("ORD-1001", monday, item("p1", 1, "10")),
		sale("ORD-1002", monday.AddDate(0, 0, -1), item("p1", 1, "10")), // domingo de W29
	}
	w30, err := report.FilterByPeriod(sales, "week", "2025-W30")
	require.NoError(t, err)
	require.Len(t, w30, 1)
	assert.Equal(t, "ORD-1001", w30[0].OrderNumber)

	w29, err := report.FilterByPeriod(sales, "week", "2025-W29")
	require.NoError(t, err)
	require.Len(t, w29, 1)
	assert.Equal(t, "ORD-1002", w29[0].OrderNumber)
}

func TestPeriod_UsesUTC(t *testing.T) {
	bogota := time.FixedZone("COT", -5*3600)
	// 2025-07-21 22:00 en Bogotá es 2025-07-22 en UTC
	d := time.Date(2025, 7, 21, 22, 0, 0, 0, bogota)
	p, err := report.ParsePeriod("day", "2025-07-22")
	require.NoError(t, err)
	assert.True(t, p.Contains(d))
}

func TestParsePeriod(t *testing.T) {
	for _, c := range []struct{ typ, value string }{
		{"day", "2025-07-21"}, {"week", "2025-W30"}, {"week", "2025-W01"}, {"week", "2020-W53"}, {"month", "2025-07"}, {"year", "2025"}, {"all", ""}, {"", "cualquiera"},
	} {
		_, err := report.ParsePeriod(c.typ, c.value)
		assert.NoError(t, err, "%s %s", c.typ, c.value)
	}
	for _, c := range []struct{ typ, value string }{
		{"day", "21/07/2025"}, {"week", "30"}, {"week", "2025-W00"}, {"week", "2025-W99"}, {"week", "2025-W53"}, {"month", "2025-13"}, {"year", "25"}, {"quarter", "2025-Q1"},
	} {
		_, err := report.ParsePeriod(c.typ, c.value)
		assert.True(t, errors.Is(err, domain.ErrInvalidInput), "%s %s", c.typ, c.value)
	}

	all, err := report.ParsePeriod("ALL", "")
	require.NoError(t, err)
	assert.Equal(t, "Todo el historial", all.Label())
}

// ─── Agregados ───────────────────────────────────────────────────────────────

func TestAggregate_Ranked(t *testing.T) {
	d := time.Date(2025, 7, 21, 10, 0, 0, 0, time.UTC)
	sum := report.Aggregate([]entity.Sale{
		sale("ORD-1001", d, item("p1", 5, "80"), item("p2", 1, "200")),
		sale("ORD-1002", d, item("p2", 2, "200")),
	})
	assert.Equal(t, 2, sum.Count)
	assert.Equal(t, "1000.00", sum.Revenue.StringFixed(2))

	ranked := sum.Ranked()
	require.Len(t, ranked, 2)
	assert.Equal(t, "p2", ranked[0].ProductID)
	assert.Equal(t, 3, ranked[0].QuantitySold)
	assert.Equal(t, "600.00", ranked[0].Revenue.StringFixed(2))
}

func TestInventoryValuation(t *testing.T) {
	products := []*entity.Product{
		{Stock: 20, Cost: decimal.NewFromInt(50)},
		{Stock: 10, Cost: decimal.NewFromInt(120)},
		{Stock: 15, Cost: decimal.NewFromInt(90)},
	}
	assert.Equal(t, "3550.00", report.InventoryValuation(products).StringFixed(2))
}

func TestLastDays_FillsGaps(t *testing.T) {
	end := time.Date(2025, 7, 21, 18, 0, 0, 0, time.UTC)
	days := report.LastDays([]entity.Sale{
		sale("ORD-1001", end, item("p1", 1, "10")),
		sale("ORD-1002", end.AddDate(0, 0, -2), item("p1", 2, "10")),
		sale("ORD-1003", end.AddDate(0, 0, -9), item("p1", 3, "10")),
	}, end, 7)

	require.Len(t, days, 7)
	assert.Equal(t, "2025-07-15", days[0].Date)
	assert.Equal(t, "2025-07-21", days[6].Date)
	assert.Equal(t, "10.00", days[6].Total.StringFixed(2))
	assert.Equal(t, "20.00", days[4].Total.StringFixed(2))
	assert.True(t, days[5].Total.IsZero())
}
