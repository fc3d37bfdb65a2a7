package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// PeriodRequest filtro de período (day, week, month, year, all).
type PeriodRequest struct {
	PeriodType  string `query:"period_type"`
	PeriodValue string `query:"period_value"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HealthResponse salida de GET /health.
type HealthResponse struct {
	Status      string                       `json:"status"`
	Storage     string                       `json:"storage"`
	Time        time.Time                    `json:"time"`
	Collections []repository.CollectionStats `json:"collections,omitempty"`
}
