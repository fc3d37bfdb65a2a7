package ports

import (
	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// ReportRenderer genera documentos imprimibles (PDF) a partir de los DTO de salida.
type ReportRenderer interface {
	// RenderReceipt comprobante de una venta.
	RenderReceipt(sale dto.SaleResponse, settings dto.SettingsDTO) ([]byte, error)
	// RenderInventory reporte de inventario valorizado.
	RenderInventory(report dto.InventoryReportDTO) ([]byte, error)
}
