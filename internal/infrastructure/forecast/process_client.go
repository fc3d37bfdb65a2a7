package forecast

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ ports.ForecastGateway = (*ProcessClient)(nil)

// waitDelay espera máxima por los pipes tras matar el proceso (hijos que heredan stdout).
const waitDelay = time.Second

// ProcessClient ejecuta un comando local (ej. "python3 sales_forecast.py"):
// historial JSON por stdin, serie JSON por stdout.
type ProcessClient struct {
	name string
	args []string
	dir  string
	log  zerolog.Logger
}

// NewProcessClient separa command por espacios; dir es el directorio de trabajo (vacío = actual).
func NewProcessClient(command, dir string, log zerolog.Logger) (*ProcessClient, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, fmt.Errorf("forecast: comando vacío")
	}
	return &ProcessClient{name: fields[0], args: fields[1:], dir: dir, log: log}, nil
}

// Forecast el proceso se mata al vencer ctx.
func (c *ProcessClient) Forecast(ctx context.Context, history []ports.HistoryPoint) ([]ports.ForecastPoint, error) {
	body, err := encodeHistory(history)
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, c.name, c.args...)
	cmd.Dir = c.dir
	cmd.Stdin = bytes.NewReader(body)
	cmd.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &limitedBuffer{buf: &stdout, max: maxOutput}
	cmd.Stderr = &limitedBuffer{buf: &stderr, max: maxOutput}

	runErr := cmd.Run()
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		c.log.Debug().Str("stderr", msg).Msg("salida de diagnóstico del pronóstico")
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w: forecast: timeout o cancelación: %v", domain.ErrUpstreamUnavailable, ctx.Err())
	}

	// La salida vale aunque el proceso haya escrito advertencias o terminado con código != 0.
	points, err := decodeForecast(stdout.Bytes())
	if err != nil && runErr != nil {
		return nil, fmt.Errorf("%w: forecast: proceso: %v (%s)", domain.ErrUpstreamUnavailable, runErr, strings.TrimSpace(stderr.String()))
	}
	return points, err
}

// limitedBuffer descarta lo que exceda max.
type limitedBuffer struct {
	buf *bytes.Buffer
	max int
}

func (w *limitedBuffer) Write(p []byte) (int, error) {
	if room := w.max - w.buf.Len(); room > 0 {
		if len(p) > room {
			w.buf.Write(p[:room])
		} else {
			w.buf.Write(p)
		}
	}
	return len(p), nil
}
