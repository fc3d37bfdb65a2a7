package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Product representa un producto del catálogo con su contador de stock.
// Stock solo cambia vía movimientos; InitialStock es el stock con el que se creó
// y sirve de base para reproducir el historial de movimientos.
type Product struct {
	ID                     string          `json:"id"`
	SKU                    string          `json:"sku"` // único en el catálogo
	Name                   string          `json:"name"`
	Category               string          `json:"category"`
	Description            string          `json:"description,omitempty"`
	Stock                  int             `json:"stock"`
	InitialStock           int             `json:"initialStock"`
	Cost                   decimal.Decimal `json:"cost"`
	Price                  decimal.Decimal `json:"price"` // precio de venta
	LowStockThreshold      *int            `json:"lowStockThreshold,omitempty"`
	CriticalStockThreshold *int            `json:"criticalStockThreshold,omitempty"`
	Version                int64           `json:"version"` // control de concurrencia optimista
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

// ProductSpec campos editables de un producto, validados antes de crear o actualizar.
type ProductSpec struct {
	SKU                    string
	Name                   string
	Category               string
	Description            string
	Stock                  int
	Cost                   decimal.Decimal
	Price                  decimal.Decimal
	LowStockThreshold      *int
	CriticalStockThreshold *int
}

// Validate verifica campos requeridos y que los valores numéricos no sean negativos.
func (s ProductSpec) Validate() error {
	if strings.TrimSpace(s.SKU) == "" {
		return domain.Invalid("sku requerido")
	}
	if strings.TrimSpace(s.Name) == "" {
		return domain.Invalid("name requerido")
	}
	if s.Stock < 0 {
		return domain.Invalid("stock no puede ser negativo")
	}
	if s.Cost.IsNegative() {
		return domain.Invalid("cost no puede ser negativo")
	}
	if s.Price.IsNegative() {
		return domain.Invalid("price no puede ser negativo")
	}
	if s.LowStockThreshold != nil && *s.LowStockThreshold < 0 {
		return domain.Invalid("lowStockThreshold no puede ser negativo")
	}
	if s.CriticalStockThreshold != nil && *s.CriticalStockThreshold < 0 {
		return domain.Invalid("criticalStockThreshold no puede ser negativo")
	}
	return nil
}

// NewProduct construye un producto validado con ID nuevo. InitialStock = Stock.
func NewProduct(spec ProductSpec, now time.Time) (*Product, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	p := &Product{
		ID:           uuid.New().String(),
		Stock:        spec.Stock,
		InitialStock: spec.Stock,
		Version:      1,
		CreatedAt:    now,
	}
	p.apply(spec, now)
	return p, nil
}

// ApplySpec reemplaza los campos editables. El stock no se toca: se maneja vía movimientos.
func (p *Product) ApplySpec(spec ProductSpec, now time.Time) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	p.apply(spec, now)
	return nil
}

func (p *Product) apply(spec ProductSpec, now time.Time) {
	p.SKU = strings.TrimSpace(spec.SKU)
	p.Name = strings.TrimSpace(spec.Name)
	p.Category = strings.TrimSpace(spec.Category)
	p.Description = spec.Description
	p.Cost = spec.Cost
	p.Price = spec.Price
	p.LowStockThreshold = copyInt(spec.LowStockThreshold)
	p.CriticalStockThreshold = copyInt(spec.CriticalStockThreshold)
	p.UpdatedAt = now
}

// Value devuelve stock × costo.
func (p *Product) Value() decimal.Decimal {
	return p.Cost.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// Clone copia profunda (los umbrales son punteros).
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	c := *p
	c.LowStockThreshold = copyInt(p.LowStockThreshold)
	c.CriticalStockThreshold = copyInt(p.CriticalStockThreshold)
	return &c
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
