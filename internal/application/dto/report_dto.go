package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductPerformanceDTO unidades e ingreso de un producto en el período.
type ProductPerformanceDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// SalesReportDTO respuesta de GET /api/reports/sales.
type SalesReportDTO struct {
	Period       string                  `json:"period"`
	TotalRevenue decimal.Decimal         `json:"total_revenue"`
	SalesCount   int                     `json:"sales_count"`
	Sales        []SaleResponse          `json:"sales"`
	Products     []ProductPerformanceDTO `json:"products"`
}

// PerformanceReportDTO respuesta de GET /api/reports/performance (orden por ingreso).
type PerformanceReportDTO struct {
	Period       string                  `json:"period"`
	TotalRevenue decimal.Decimal         `json:"total_revenue"`
	Rows         []ProductPerformanceDTO `json:"rows"`
}

// InventoryRowDTO fila del reporte de inventario.
type InventoryRowDTO struct {
	ProductID string          `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Stock     int             `json:"stock"`
	Cost      decimal.Decimal `json:"cost"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
	Status    string          `json:"status"`
}

// InventoryReportDTO respuesta de GET /api/reports/inventory.
type InventoryReportDTO struct {
	CompanyName string            `json:"company_name"`
	Currency    string            `json:"currency"`
	GeneratedAt time.Time         `json:"generated_at"`
	Rows        []InventoryRowDTO `json:"rows"`
	TotalUnits  int               `json:"total_units"`
	TotalValue  decimal.Decimal   `json:"total_value"`
}

// LowStockReportDTO productos en estado Low o Critical.
type LowStockReportDTO struct {
	Items    []ProductResponse `json:"items"`
	Critical int               `json:"critical"`
	Low      int               `json:"low"`
}

// DailySalesDTO total vendido en un día.
type DailySalesDTO struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// CategoryStockDTO unidades en stock por categoría.
type CategoryStockDTO struct {
	Category string `json:"category"`
	Stock    int    `json:"stock"`
}

// DashboardDTO respuesta de GET /api/reports/dashboard.
type DashboardDTO struct {
	TotalProducts   int                `json:"total_products"`
	LowStockCount   int                `json:"low_stock_count"`
	TodaySales      decimal.Decimal    `json:"today_sales"`
	TodaySalesCount int                `json:"today_sales_count"`
	InventoryValue  decimal.Decimal    `json:"inventory_value"`
	Last7Days       []DailySalesDTO    `json:"last_7_days"`
	StockByCategory []CategoryStockDTO `json:"stock_by_category"`
	RecentMovements []MovementResponse `json:"recent_movements"`
}
