package forecast

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ ports.ForecastGateway = Disabled{}

// Disabled se usa cuando no hay URL ni comando configurado.
type Disabled struct{}

func (Disabled) Forecast(context.Context, []ports.HistoryPoint) ([]ports.ForecastPoint, error) {
	return nil, fmt.Errorf("%w: pronóstico no configurado", domain.ErrUpstreamUnavailable)
}
