package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// OrderNumberBase el primer pedido es ORD-1001, como en los datos históricos.
const OrderNumberBase int64 = 1000

const orderNumberPrefix = "ORD-"

// SaleItem línea de una venta al precio acordado.
type SaleItem struct {
	ProductID string          `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// LineTotal cantidad × precio.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Validate cantidad positiva y precio no negativo.
func (i SaleItem) Validate() error {
	if i.ProductID == "" {
		return domain.Invalid("productId requerido en cada ítem")
	}
	if i.Quantity <= 0 {
		return domain.Invalid("quantity debe ser mayor que cero")
	}
	if i.Price.IsNegative() {
		return domain.Invalid("price no puede ser negativo")
	}
	return nil
}

// Sale venta completada. Inmutable una vez creada.
type Sale struct {
	ID          string          `json:"id"`
	OrderNumber string          `json:"orderNumber"`
	Date        time.Time       `json:"date"`
	Customer    string          `json:"customer"`
	Items       []SaleItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
}

// ComputeTotal Σ cantidad × precio redondeado a 2 decimales.
func ComputeTotal(items []SaleItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total.Round(2)
}

// ValidateSaleInput cliente no vacío, al menos un ítem y cada ítem válido.
func ValidateSaleInput(customer string, items []SaleItem) error {
	if strings.TrimSpace(customer) == "" {
		return domain.Invalid("customer requerido")
	}
	if len(items) == 0 {
		return domain.Invalid("la venta debe tener al menos un ítem")
	}
	for _, it := range items {
		if err := it.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// NewSale construye una venta validada calculando el total.
func NewSale(id, orderNumber, customer string, items []SaleItem, date time.Time) (*Sale, error) {
	if err := ValidateSaleInput(customer, items); err != nil {
		return nil, err
	}
	if _, ok := ParseOrderNumber(orderNumber); !ok {
		return nil, domain.Invalid("orderNumber inválido %q", orderNumber)
	}
	lines := make([]SaleItem, len(items))
	copy(lines, items)
	return &Sale{
		ID:          id,
		OrderNumber: orderNumber,
		Date:        date,
		Customer:    strings.TrimSpace(customer),
		Items:       lines,
		Total:       ComputeTotal(lines),
	}, nil
}

// Validate revalida una venta existente (restauración): entrada y total exacto.
func (s *Sale) Validate() error {
	if err := ValidateSaleInput(s.Customer, s.Items); err != nil {
		return err
	}
	if _, ok := ParseOrderNumber(s.OrderNumber); !ok {
		return domain.Invalid("orderNumber inválido %q", s.OrderNumber)
	}
	if want := ComputeTotal(s.Items); !s.Total.Round(2).Equal(want) {
		return domain.Invalid("total %s no coincide con la suma de líneas %s", s.Total.StringFixed(2), want.StringFixed(2))
	}
	return nil
}

// Clone copia la venta con sus ítems.
func (s *Sale) Clone() *Sale {
	if s == nil {
		return nil
	}
	c := *s
	c.Items = make([]SaleItem, len(s.Items))
	copy(c.Items, s.Items)
	return &c
}

// FormatOrderNumber ORD-<seq>.
func FormatOrderNumber(seq int64) string {
	return fmt.Sprintf("%s%d", orderNumberPrefix, seq)
}

// ParseOrderNumber extrae la secuencia numérica de ORD-<seq>.
func ParseOrderNumber(s string) (int64, bool) {
	if !strings.HasPrefix(s, orderNumberPrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(s, orderNumberPrefix), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
