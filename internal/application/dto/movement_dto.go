package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordMovementRequest body para POST /api/movements.
// En add/remove Quantity es la cantidad; en adjust es el nuevo stock absoluto.
type RecordMovementRequest struct {
	ProductID string `json:"product_id"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Notes     string `json:"notes"`
	// UnitCost opcional en add: el costo del producto pasa a ser el promedio ponderado.
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// MovementListRequest filtros de GET /api/movements. Fechas YYYY-MM-DD o RFC3339.
type MovementListRequest struct {
	From  string `query:"from"`
	To    string `query:"to"`
	Order string `query:"order"` // asc | desc (por defecto desc)
	Limit int    `query:"limit"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID          int64     `json:"id"`
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Type        string    `json:"type"`
	Quantity    int       `json:"quantity"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	Reference   string    `json:"reference,omitempty"`

	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
}

// MovementListResponse lista de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Total int                `json:"total"`
}

// RecordMovementResponse movimiento registrado y stock resultante.
type RecordMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	Product  ProductResponse  `json:"product"`
}

// ReconcileResponse diagnóstico de reproducción del historial de un producto.
type ReconcileResponse struct {
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	InitialStock int    `json:"initial_stock"`
	Replayed     int    `json:"replayed"`
	CurrentStock int    `json:"current_stock"`
	Discrepancy  int    `json:"discrepancy"`
	Consistent   bool   `json:"consistent"`
}

// ReconcileListResponse diagnóstico de todo el catálogo.
type ReconcileListResponse struct {
	Items        []ReconcileResponse `json:"items"`
	Inconsistent int                 `json:"inconsistent"`
}
