package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. Stock es el stock inicial.
type CreateProductRequest struct {
	SKU                    string          `json:"sku"`
	Name                   string          `json:"name"`
	Category               string          `json:"category"`
	Description            string          `json:"description"`
	Stock                  int             `json:"stock"`
	Cost                   decimal.Decimal `json:"cost"`
	Price                  decimal.Decimal `json:"price"`
	LowStockThreshold      *int            `json:"low_stock_threshold"`
	CriticalStockThreshold *int            `json:"critical_stock_threshold"`
}

// Spec convierte la entrada en los campos editables del dominio.
func (r CreateProductRequest) Spec() entity.ProductSpec {
	return entity.ProductSpec{
		SKU:                    r.SKU,
		Name:                   r.Name,
		Category:               r.Category,
		Description:            r.Description,
		Stock:                  r.Stock,
		Cost:                   r.Cost,
		Price:                  r.Price,
		LowStockThreshold:      r.LowStockThreshold,
		CriticalStockThreshold: r.CriticalStockThreshold,
	}
}

// UpdateProductRequest reemplaza los campos editables. Si Stock viene y difiere del
// actual se registra un movimiento de ajuste. Version (opcional) activa el control optimista.
type UpdateProductRequest struct {
	SKU                    string          `json:"sku"`
	Name                   string          `json:"name"`
	Category               string          `json:"category"`
	Description            string          `json:"description"`
	Stock                  *int            `json:"stock"`
	Cost                   decimal.Decimal `json:"cost"`
	Price                  decimal.Decimal `json:"price"`
	LowStockThreshold      *int            `json:"low_stock_threshold"`
	CriticalStockThreshold *int            `json:"critical_stock_threshold"`
	Version                int64           `json:"version"`
}

// Spec campos editables (el stock se maneja aparte).
func (r UpdateProductRequest) Spec() entity.ProductSpec {
	return entity.ProductSpec{
		SKU:                    r.SKU,
		Name:                   r.Name,
		Category:               r.Category,
		Description:            r.Description,
		Cost:                   r.Cost,
		Price:                  r.Price,
		LowStockThreshold:      r.LowStockThreshold,
		CriticalStockThreshold: r.CriticalStockThreshold,
	}
}

// ProductFilter filtros de GET /api/products.
type ProductFilter struct {
	Category string `query:"category"`
	Query    string `query:"q"`
	Status   string `query:"status"` // Critical, Low, InStock
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                     string          `json:"id"`
	SKU                    string          `json:"sku"`
	Name                   string          `json:"name"`
	Category               string          `json:"category"`
	Description            string          `json:"description"`
	Stock                  int             `json:"stock"`
	InitialStock           int             `json:"initial_stock"`
	Cost                   decimal.Decimal `json:"cost"`
	Price                  decimal.Decimal `json:"price"`
	Value                  decimal.Decimal `json:"value"`
	Status                 string          `json:"status"`
	LowStockThreshold      *int            `json:"low_stock_threshold,omitempty"`
	CriticalStockThreshold *int            `json:"critical_stock_threshold,omitempty"`
	Version                int64           `json:"version"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Total int               `json:"total"`
}

// StockStatusResponse salida de GET /api/products/:id/status.
type StockStatusResponse struct {
	ProductID         string `json:"product_id"`
	Stock             int    `json:"stock"`
	Status            string `json:"status"`
	LowThreshold      int    `json:"low_threshold"`
	CriticalThreshold int    `json:"critical_threshold"`
}
