package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// CompleteSaleRequest body para POST /api/sales.
type CompleteSaleRequest struct {
	Customer string            `json:"customer"`
	Items    []SaleItemRequest `json:"items"`
}

// SaleItemResponse línea de venta con el nombre del producto resuelto.
type SaleItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID          string             `json:"id"`
	OrderNumber string             `json:"order_number"`
	Date        time.Time          `json:"date"`
	Customer    string             `json:"customer"`
	Items       []SaleItemResponse `json:"items"`
	Total       decimal.Decimal    `json:"total"`
}

// SaleListResponse ventas de un período, más recientes primero.
type SaleListResponse struct {
	Period string         `json:"period"`
	Items  []SaleResponse `json:"items"`
	Total  int            `json:"total"`
}

// ForecastPointResponse valor proyectado para una fecha.
type ForecastPointResponse struct {
	Date     string          `json:"date"`
	Forecast decimal.Decimal `json:"forecast"`
}

// ForecastResponse serie proyectada. Degraded indica que el servicio externo falló
// y la serie viene vacía.
type ForecastResponse struct {
	Points   []ForecastPointResponse `json:"points"`
	Degraded bool                    `json:"degraded"`
	Message  string                  `json:"message,omitempty"`
}
