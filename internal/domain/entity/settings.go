package entity

import (
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// Settings configuración global (singleton). Los umbrales aplican cuando el producto no los sobreescribe.
type Settings struct {
	CompanyName            string `json:"companyName"`
	Currency               string `json:"currency"`
	LowStockThreshold      int    `json:"lowStockThreshold"`
	CriticalStockThreshold int    `json:"criticalStockThreshold"`
}

// DefaultSettings valores iniciales tras un reset.
func DefaultSettings() Settings {
	return Settings{
		CompanyName:            "Solar Solutions",
		Currency:               "$",
		LowStockThreshold:      5,
		CriticalStockThreshold: 2,
	}
}

// Validate umbrales no negativos y moneda presente.
func (s Settings) Validate() error {
	if strings.TrimSpace(s.Currency) == "" {
		return domain.Invalid("currency requerido")
	}
	if s.LowStockThreshold < 0 || s.CriticalStockThreshold < 0 {
		return domain.Invalid("los umbrales de stock no pueden ser negativos")
	}
	return nil
}
