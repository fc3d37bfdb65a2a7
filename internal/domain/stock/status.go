// Package stock contiene los servicios de dominio puros sobre el stock:
// clasificación por umbrales y reproducción del historial de movimientos.
package stock

import (
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Status nivel de stock de un producto.
type Status string

const (
	StatusCritical Status = "Critical"
	StatusLow      Status = "Low"
	StatusInStock  Status = "InStock"
)

// Thresholds resuelve los umbrales efectivos campo por campo:
// el producto puede sobreescribir solo uno de los dos.
func Thresholds(p *entity.Product, s entity.Settings) (low, critical int) {
	low, critical = s.LowStockThreshold, s.CriticalStockThreshold
	if p.LowStockThreshold != nil {
		low = *p.LowStockThreshold
	}
	if p.CriticalStockThreshold != nil {
		critical = *p.CriticalStockThreshold
	}
	return low, critical
}

// Classify Critical si stock <= crítico, Low si stock <= bajo, si no InStock.
func Classify(p *entity.Product, s entity.Settings) Status {
	low, critical := Thresholds(p, s)
	switch {
	case p.Stock <= critical:
		return StatusCritical
	case p.Stock <= low:
		return StatusLow
	default:
		return StatusInStock
	}
}

// NeedsAttention verdadero para Low y Critical (listado de stock bajo).
func (s Status) NeedsAttention() bool {
	return s == StatusLow || s == StatusCritical
}

// ParseStatus acepta el nombre del estado sin distinguir mayúsculas; "" no filtra.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return "", nil
	case "critical":
		return StatusCritical, nil
	case "low":
		return StatusLow, nil
	case "instock", "in_stock":
		return StatusInStock, nil
	}
	return "", domain.Invalid("status %q desconocido", s)
}
