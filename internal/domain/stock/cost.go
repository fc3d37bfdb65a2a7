package stock

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada.
// NuevoCosto = ((stock * costo) + (cantidad * costoEntrada)) / (stock + cantidad)
func WeightedAverageCost(current int, cost decimal.Decimal, qty int, unitCost decimal.Decimal) decimal.Decimal {
	if current < 0 {
		current = 0
	}
	sum := decimal.NewFromInt(int64(current + qty))
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := decimal.NewFromInt(int64(current)).Mul(cost).
		Add(decimal.NewFromInt(int64(qty)).Mul(unitCost))
	return num.Div(sum).Round(2)
}
