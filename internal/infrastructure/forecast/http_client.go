package forecast

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ ports.ForecastGateway = (*HTTPClient)(nil)

// HTTPClient envía el historial por POST JSON a un servicio de pronóstico.
type HTTPClient struct {
	url        string
	httpClient *http.Client
}

// NewHTTPClient construye el adaptador. El caso de uso impone además su propio timeout.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forecast POST url con [{ds, y}] y espera [{date, forecast}].
func (c *HTTPClient) Forecast(ctx context.Context, history []ports.HistoryPoint) ([]ports.ForecastPoint, error) {
	body, err := encodeHistory(history)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("forecast: crear HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: forecast: timeout o cancelación: %v", domain.ErrUpstreamUnavailable, ctx.Err())
		}
		return nil, fmt.Errorf("%w: forecast: llamada HTTP fallida: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxOutput))
	if err != nil {
		return nil, fmt.Errorf("%w: forecast: leer respuesta: %v", domain.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: forecast: HTTP %d: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, string(raw))
	}
	return decodeForecast(raw)
}
