package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// MovementType tipo de movimiento de stock.
type MovementType string

// Tipos de movimiento. Quantity es positiva en add/remove; en adjust es el nuevo stock absoluto.
const (
	MovementAdd    MovementType = "add"    // entrada
	MovementRemove MovementType = "remove" // salida
	MovementAdjust MovementType = "adjust" // ajuste a valor absoluto
)

// ParseMovementType valida el tipo recibido desde la API.
func ParseMovementType(s string) (MovementType, error) {
	switch t := MovementType(strings.ToLower(strings.TrimSpace(s))); t {
	case MovementAdd, MovementRemove, MovementAdjust:
		return t, nil
	}
	return "", domain.Invalid("tipo de movimiento desconocido %q", s)
}

// Movement registro inmutable del historial de stock (solo se agrega, nunca se edita).
type Movement struct {
	ID        int64        `json:"id"` // asignado de forma monótona por el ledger
	ProductID string       `json:"productId"`
	Type      MovementType `json:"type"`
	Quantity  int          `json:"quantity"`
	Date      time.Time    `json:"date"`
	Notes     string       `json:"notes,omitempty"`
	Reference string       `json:"reference,omitempty"` // número de pedido si viene de una venta
	// UnitCost costo unitario de una entrada; recalcula el costo promedio del producto.
	UnitCost *decimal.Decimal `json:"unitCost,omitempty"`
}

// Validate verifica tipo y cantidad según la asimetría add/remove vs adjust.
func (m Movement) Validate() error {
	if m.ProductID == "" {
		return domain.Invalid("productId requerido")
	}
	switch m.Type {
	case MovementAdd, MovementRemove:
		if m.Quantity <= 0 {
			return domain.Invalid("quantity debe ser mayor que cero")
		}
	case MovementAdjust:
		if m.Quantity < 0 {
			return domain.Invalid("quantity de ajuste no puede ser negativa")
		}
	default:
		return domain.Invalid("tipo de movimiento desconocido %q", m.Type)
	}
	if m.UnitCost != nil {
		if m.Type != MovementAdd {
			return domain.Invalid("unitCost solo aplica a entradas (add)")
		}
		if m.UnitCost.IsNegative() {
			return domain.Invalid("unitCost no puede ser negativo")
		}
	}
	return nil
}
