package dto

// SettingsDTO entrada y salida de /api/settings.
type SettingsDTO struct {
	CompanyName            string `json:"company_name"`
	Currency               string `json:"currency"`
	LowStockThreshold      int    `json:"low_stock_threshold"`
	CriticalStockThreshold int    `json:"critical_stock_threshold"`
}

// ResetResponse resultado de las operaciones de /api/data.
type ResetResponse struct {
	Message   string `json:"message"`
	Products  int    `json:"products"`
	Movements int    `json:"movements"`
	Sales     int    `json:"sales"`
}
