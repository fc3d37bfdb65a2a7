package forecast

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// maxOutput límite de lectura de la respuesta del proceso externo.
const maxOutput = 1 << 20

// El proceso espera y como número (no string); decimal serializa entre comillas.
type historyRow struct {
	DS string      `json:"ds"`
	Y  json.Number `json:"y"`
}

func encodeHistory(history []ports.HistoryPoint) ([]byte, error) {
	rows := make([]historyRow, 0, len(history))
	for _, h := range history {
		rows = append(rows, historyRow{DS: h.Date, Y: json.Number(h.Total.String())})
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("forecast: serializar historial: %w", err)
	}
	return body, nil
}

// decodeForecast acepta [{date, forecast}]. Si la salida trae texto previo,
// usa la última línea no vacía.
func decodeForecast(raw []byte) ([]ports.ForecastPoint, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: forecast: salida vacía", domain.ErrUpstreamUnavailable)
	}
	var points []ports.ForecastPoint
	err := json.Unmarshal(raw, &points)
	if err != nil {
		if i := bytes.LastIndexByte(raw, '\n'); i >= 0 {
			err = json.Unmarshal(bytes.TrimSpace(raw[i+1:]), &points)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: forecast: salida inválida: %v", domain.ErrUpstreamUnavailable, err)
	}
	if points == nil {
		points = []ports.ForecastPoint{}
	}
	return points, nil
}
