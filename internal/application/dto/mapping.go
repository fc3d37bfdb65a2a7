package dto

import (
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// UnknownProductName etiqueta para referencias a productos eliminados.
const UnknownProductName = "producto desconocido"

// NewProductResponse mapea la entidad; status es la clasificación ya calculada.
func NewProductResponse(p *entity.Product, status string) ProductResponse {
	return ProductResponse{
		ID:                     p.ID,
		SKU:                    p.SKU,
		Name:                   p.Name,
		Category:               p.Category,
		Description:            p.Description,
		Stock:                  p.Stock,
		InitialStock:           p.InitialStock,
		Cost:                   p.Cost,
		Price:                  p.Price,
		Value:                  p.Value(),
		Status:                 status,
		LowStockThreshold:      p.LowStockThreshold,
		CriticalStockThreshold: p.CriticalStockThreshold,
		Version:                p.Version,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}

// NewMovementResponse mapea el movimiento resolviendo el nombre del producto.
func NewMovementResponse(m entity.Movement, names map[string]string) MovementResponse {
	return MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: ProductName(names, m.ProductID),
		Type:        string(m.Type),
		Quantity:    m.Quantity,
		Date:        m.Date,
		Notes:       m.Notes,
		Reference:   m.Reference,
		UnitCost:    m.UnitCost,
	}
}

// NewSaleResponse mapea la venta resolviendo nombres de productos.
func NewSaleResponse(s entity.Sale, names map[string]string) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, SaleItemResponse{
			ProductID:   it.ProductID,
			ProductName: ProductName(names, it.ProductID),
			Quantity:    it.Quantity,
			Price:       it.Price,
			LineTotal:   it.LineTotal(),
		})
	}
	return SaleResponse{
		ID:          s.ID,
		OrderNumber: s.OrderNumber,
		Date:        s.Date,
		Customer:    s.Customer,
		Items:       items,
		Total:       s.Total,
	}
}

// ProductName nombre del producto o UnknownProductName.
func ProductName(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return UnknownProductName
}

// NewSettingsDTO mapea la configuración.
func NewSettingsDTO(s entity.Settings) SettingsDTO {
	return SettingsDTO{
		CompanyName:            s.CompanyName,
		Currency:               s.Currency,
		LowStockThreshold:      s.LowStockThreshold,
		CriticalStockThreshold: s.CriticalStockThreshold,
	}
}

// Entity convierte la entrada en configuración del dominio.
func (s SettingsDTO) Entity() entity.Settings {
	return entity.Settings{
		CompanyName:            s.CompanyName,
		Currency:               s.Currency,
		LowStockThreshold:      s.LowStockThreshold,
		CriticalStockThreshold: s.CriticalStockThreshold,
	}
}
