package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// HistoryPoint venta histórica enviada al pronóstico (fecha YYYY-MM-DD).
type HistoryPoint struct {
	Date  string          `json:"ds"`
	Total decimal.Decimal `json:"y"`
}

// ForecastPoint valor proyectado para una fecha.
type ForecastPoint struct {
	Date  string          `json:"date"`
	Value decimal.Decimal `json:"forecast"`
}

// ForecastGateway puerto de salida hacia el proceso externo de pronóstico.
// Es una caja negra: recibe el historial y devuelve la serie proyectada.
// El contexto debe llevar un timeout; los errores envuelven domain.ErrUpstreamUnavailable.
type ForecastGateway interface {
	Forecast(ctx context.Context, history []HistoryPoint) ([]ForecastPoint, error)
}
