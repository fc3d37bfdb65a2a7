package report

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductTotals unidades vendidas e ingreso de un producto.
type ProductTotals struct {
	ProductID    string
	QuantitySold int
	Revenue      decimal.Decimal
}

// Summary agregado de un conjunto de ventas.
type Summary struct {
	Revenue   decimal.Decimal
	Count     int
	ByProduct map[string]ProductTotals
}

// Aggregate suma ingresos, cantidad de ventas y totales por producto.
// El ingreso por producto se calcula desde las líneas (cantidad × precio).
func Aggregate(sales []entity.Sale) Summary {
	sum := Summary{Revenue: decimal.Zero, ByProduct: make(map[string]ProductTotals)}
	for _, s := range sales {
		sum.Count++
		sum.Revenue = sum.Revenue.Add(s.Total)
		for _, it := range s.Items {
			pt := sum.ByProduct[it.ProductID]
			pt.ProductID = it.ProductID
			pt.QuantitySold += it.Quantity
			pt.Revenue = pt.Revenue.Add(it.LineTotal())
			sum.ByProduct[it.ProductID] = pt
		}
	}
	return sum
}

// Ranked totales por producto ordenados por ingreso descendente (desempate por ID).
func (s Summary) Ranked() []ProductTotals {
	out := make([]ProductTotals, 0, len(s.ByProduct))
	for _, pt := range s.ByProduct {
		out = append(out, pt)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

// InventoryValuation Σ stock × costo.
func InventoryValuation(products []*entity.Product) decimal.Decimal {
	total := decimal.Zero
	for _, p := range products {
		total = total.Add(p.Value())
	}
	return total
}

// DailyTotal total vendido en una fecha (YYYY-MM-DD, UTC).
type DailyTotal struct {
	Date  string
	Total decimal.Decimal
}

// DailyTotals agrupa ventas por día calendario UTC, ordenado por fecha ascendente.
func DailyTotals(sales []entity.Sale) []DailyTotal {
	byDay := make(map[string]decimal.Decimal)
	for _, s := range sales {
		k := Key(PeriodDay, s.Date)
		byDay[k] = byDay[k].Add(s.Total)
	}
	out := make([]DailyTotal, 0, len(byDay))
	for d, t := range byDay {
		out = append(out, DailyTotal{Date: d, Total: t})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// LastDays totales de los últimos n días terminando en end (incluido), con ceros en días sin ventas.
func LastDays(sales []entity.Sale, end time.Time, n int) []DailyTotal {
	totals := make(map[string]decimal.Decimal)
	for _, d := range DailyTotals(sales) {
		totals[d.Date] = d.Total
	}
	out := make([]DailyTotal, 0, n)
	day := end.UTC()
	for i := n - 1; i >= 0; i-- {
		k := day.AddDate(0, 0, -i).Format("2006-01-02")
		out = append(out, DailyTotal{Date: k, Total: totals[k]})
	}
	return out
}
