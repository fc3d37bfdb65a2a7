package report

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	domreport "github.com/jhoicas/stock-ledger/internal/domain/report"
)

// DefaultForecastTimeout tiempo máximo de espera al proceso de pronóstico.
const DefaultForecastTimeout = 10 * time.Second

const degradedMessage = "pronóstico no disponible"

// ForecastUseCase consulta el pronóstico externo. Nunca bloquea más que el timeout
// y ante cualquier falla devuelve una serie vacía marcada como degradada.
type ForecastUseCase struct {
	st      inventory.StateStore
	gateway ports.ForecastGateway
	timeout time.Duration
	log     zerolog.Logger
}

// NewForecastUseCase construye el caso de uso; timeout <= 0 usa DefaultForecastTimeout.
func NewForecastUseCase(st inventory.StateStore, gateway ports.ForecastGateway, timeout time.Duration, log zerolog.Logger) *ForecastUseCase {
	if timeout <= 0 {
		timeout = DefaultForecastTimeout
	}
	return &ForecastUseCase{st: st, gateway: gateway, timeout: timeout, log: log}
}

// History un punto por venta (fecha YYYY-MM-DD, total), en orden cronológico.
func (uc *ForecastUseCase) History() []ports.HistoryPoint {
	all := uc.st.Snapshot().Sales()
	sort.SliceStable(all, func(i, j int) bool { return all[i].Date.Before(all[j].Date) })
	out := make([]ports.HistoryPoint, 0, len(all))
	for _, s := range all {
		out = append(out, ports.HistoryPoint{Date: domreport.Key(domreport.PeriodDay, s.Date), Total: s.Total})
	}
	return out
}

// Forecast serie proyectada. Sin historial devuelve una serie vacía sin consultar.
func (uc *ForecastUseCase) Forecast(ctx context.Context) (*dto.ForecastResponse, error) {
	history := uc.History()
	if len(history) == 0 {
		return &dto.ForecastResponse{Points: []dto.ForecastPointResponse{}}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	points, err := uc.gateway.Forecast(ctx, history)
	if err != nil {
		if !errors.Is(err, domain.ErrUpstreamUnavailable) {
			err = fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
		}
		uc.log.Warn().Err(err).Int("history", len(history)).Msg("pronóstico degradado")
		return &dto.ForecastResponse{
			Points:   []dto.ForecastPointResponse{},
			Degraded: true,
			Message:  degradedMessage,
		}, nil
	}

	out := &dto.ForecastResponse{Points: make([]dto.ForecastPointResponse, 0, len(points))}
	for _, p := range points {
		out.Points = append(out.Points, dto.ForecastPointResponse{Date: p.Date, Forecast: p.Value})
	}
	return out, nil
}
