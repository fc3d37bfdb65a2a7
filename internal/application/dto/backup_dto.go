package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Claves obligatorias del documento de respaldo.
const (
	BackupKeyProducts  = "products"
	BackupKeyMovements = "stockMovements"
	BackupKeySales     = "sales"
	BackupKeySettings  = "settings"
)

// BackupRequiredKeys deben estar todas presentes para restaurar.
var BackupRequiredKeys = []string{BackupKeyProducts, BackupKeyMovements, BackupKeySales, BackupKeySettings}

// FlexibleID acepta IDs numéricos (respaldos antiguos) o de texto.
type FlexibleID string

// UnmarshalJSON admite 12, "12" o "uuid".
func (id *FlexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id inválido %s", string(b))
	}
	if _, err := strconv.ParseFloat(n.String(), 64); err != nil {
		return fmt.Errorf("id inválido %s", string(b))
	}
	*id = FlexibleID(n.String())
	return nil
}

// BackupProduct producto tal como aparece en el respaldo.
type BackupProduct struct {
	ID                     FlexibleID      `json:"id"`
	SKU                    string          `json:"sku"`
	Name                   string          `json:"name"`
	Category               string          `json:"category"`
	Description            string          `json:"description,omitempty"`
	Stock                  int             `json:"stock"`
	InitialStock           *int            `json:"initialStock,omitempty"`
	Cost                   decimal.Decimal `json:"cost"`
	Price                  decimal.Decimal `json:"price"`
	LowStockThreshold      *int            `json:"lowStockThreshold,omitempty"`
	CriticalStockThreshold *int            `json:"criticalStockThreshold,omitempty"`
	CreatedAt              time.Time       `json:"createdAt,omitempty"`
}

// BackupMovement movimiento del respaldo.
type BackupMovement struct {
	ID        FlexibleID `json:"id"`
	ProductID FlexibleID `json:"productId"`
	Type      string     `json:"type"`
	Quantity  int        `json:"quantity"`
	Date      time.Time  `json:"date"`
	Notes     string     `json:"notes,omitempty"`
	Reference string     `json:"reference,omitempty"`

	UnitCost *decimal.Decimal `json:"unitCost,omitempty"`
}

// BackupSaleItem línea de venta del respaldo.
type BackupSaleItem struct {
	ProductID FlexibleID      `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// BackupSale venta del respaldo.
type BackupSale struct {
	ID          FlexibleID       `json:"id"`
	OrderNumber string           `json:"orderNumber"`
	Date        time.Time        `json:"date"`
	Customer    string           `json:"customer"`
	Items       []BackupSaleItem `json:"items"`
	Total       decimal.Decimal  `json:"total"`
}

// BackupDocument documento de GET /api/data/backup y POST /api/data/restore.
type BackupDocument struct {
	Products       []BackupProduct  `json:"products"`
	StockMovements []BackupMovement `json:"stockMovements"`
	Sales          []BackupSale     `json:"sales"`
	Settings       entity.Settings  `json:"settings"`
	ExportedAt     *time.Time       `json:"exportedAt,omitempty"`
}
