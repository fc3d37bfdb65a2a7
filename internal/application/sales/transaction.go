// Package sales implementa la transacción de venta: valida, descuenta stock,
// registra movimientos y guarda la venta en una sola unidad de trabajo.
package sales

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SaleTransaction completa ventas de forma atómica: o se aplican todos los efectos
// (stock, movimientos, venta, número de pedido) o ninguno.
type SaleTransaction struct {
	st      inventory.StateStore
	catalog *inventory.ProductCatalog
	log     zerolog.Logger
}

// NewSaleTransaction construye la transacción sobre el catálogo.
func NewSaleTransaction(st inventory.StateStore, catalog *inventory.ProductCatalog, log zerolog.Logger) *SaleTransaction {
	return &SaleTransaction{st: st, catalog: catalog, log: log}
}

// SaleNote nota del movimiento generado por una venta.
func SaleNote(customer, orderNumber string) string {
	return fmt.Sprintf("Vendido a %s (Pedido: %s)", customer, orderNumber)
}

// Complete valida la entrada y, dentro de una sola unidad de trabajo, verifica el stock
// de todos los productos antes de descontar cualquiera de ellos.
func (t *SaleTransaction) Complete(ctx context.Context, customer string, items []entity.SaleItem) (*entity.Sale, error) {
	if err := entity.ValidateSaleInput(customer, items); err != nil {
		return nil, err
	}
	customer = strings.TrimSpace(customer)
	ids, required := requiredQuantities(items)

	var sale *entity.Sale
	err := t.st.Run(ctx, func(tx *store.Tx) error {
		for _, id := range ids {
			if err := checkAvailable(id, tx.Product(id), required[id]); err != nil {
				return err
			}
		}
		orderNumber := tx.NextOrderNumber()
		s, err := entity.NewSale(uuid.New().String(), orderNumber, customer, items, tx.Now())
		if err != nil {
			return err
		}
		for _, it := range s.Items {
			if _, _, err := t.catalog.AdjustStockTx(tx, inventory.StockChange{
				ProductID: it.ProductID,
				Kind:      entity.MovementRemove,
				Quantity:  it.Quantity,
				Notes:     SaleNote(customer, orderNumber),
				Reference: orderNumber,
			}); err != nil {
				return err
			}
		}
		tx.AppendSale(*s)
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	t.log.Info().
		Str("sale_id", sale.ID).
		Str("order", sale.OrderNumber).
		Int("items", len(sale.Items)).
		Str("total", sale.Total.StringFixed(2)).
		Msg("venta completada")
	return sale, nil
}

// requiredQuantities suma cantidades de ítems repetidos, conservando el orden de aparición.
func requiredQuantities(items []entity.SaleItem) ([]string, map[string]int) {
	ids := make([]string, 0, len(items))
	required := make(map[string]int, len(items))
	for _, it := range items {
		if _, seen := required[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		required[it.ProductID] += it.Quantity
	}
	return ids, required
}

func checkAvailable(id string, p *entity.Product, qty int) error {
	if p == nil {
		return &domain.InsufficientStockError{ProductID: id, Requested: qty, Missing: true}
	}
	if p.Stock < qty {
		return &domain.InsufficientStockError{ProductID: id, Available: p.Stock, Requested: qty}
	}
	return nil
}
