package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

// SortOrder orden de listado por fecha.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// ParseSortOrder "" equivale a desc (vista de actividad).
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", OrderDesc:
		return OrderDesc, nil
	case OrderAsc:
		return OrderAsc, nil
	}
	return "", domain.Invalid("order %q debe ser asc o desc", s)
}

// ReconcileReport resultado de reproducir el historial de un producto.
type ReconcileReport struct {
	ProductID    string
	ProductName  string
	InitialStock int
	Replayed     int
	CurrentStock int
	Discrepancy  int // CurrentStock - Replayed
	Consistent   bool
}

// MovementLedger historial de movimientos de solo agregado.
// Toda escritura ocurre dentro de la misma unidad de trabajo que el cambio de stock.
type MovementLedger struct {
	st StateStore
}

// NewMovementLedger construye el ledger.
func NewMovementLedger(st StateStore) *MovementLedger {
	return &MovementLedger{st: st}
}

// AppendTx valida y agrega el movimiento asignando el siguiente ID monótono.
func (l *MovementLedger) AppendTx(tx *store.Tx, m entity.Movement) (entity.Movement, error) {
	if err := m.Validate(); err != nil {
		return entity.Movement{}, err
	}
	return tx.AppendMovement(m), nil
}

// ListByProduct movimientos del producto en orden cronológico (orden de reproducción).
func (l *MovementLedger) ListByProduct(_ context.Context, productID string) ([]entity.Movement, error) {
	movs := l.st.Snapshot().MovementsFor(productID)
	stock.SortChronological(movs)
	return movs, nil
}

// ListInRange movimientos con fecha en [from, to]; una fecha cero no acota.
func (l *MovementLedger) ListInRange(_ context.Context, from, to time.Time, order SortOrder) ([]entity.Movement, error) {
	all := l.st.Snapshot().Movements()
	out := make([]entity.Movement, 0, len(all))
	for _, m := range all {
		if !from.IsZero() && m.Date.Before(from) {
			continue
		}
		if !to.IsZero() && m.Date.After(to) {
			continue
		}
		out = append(out, m)
	}
	stock.SortChronological(out)
	if order == OrderDesc {
		reverse(out)
	}
	return out, nil
}

// Recent últimos limit movimientos, más recientes primero.
func (l *MovementLedger) Recent(ctx context.Context, limit int) ([]entity.Movement, error) {
	out, err := l.ListInRange(ctx, time.Time{}, time.Time{}, OrderDesc)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Reconcile reproduce el historial desde InitialStock y lo compara con el stock actual.
func (l *MovementLedger) Reconcile(_ context.Context, productID string) (*ReconcileReport, error) {
	snap := l.st.Snapshot()
	p := snap.Product(productID)
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	r := reconcile(p, snap.MovementsFor(productID))
	return &r, nil
}

// ReconcileAll diagnóstico de todos los productos en orden de creación.
func (l *MovementLedger) ReconcileAll(_ context.Context) ([]ReconcileReport, error) {
	snap := l.st.Snapshot()
	byProduct := make(map[string][]entity.Movement)
	for _, m := range snap.Movements() {
		byProduct[m.ProductID] = append(byProduct[m.ProductID], m)
	}
	products := snap.Products()
	out := make([]ReconcileReport, 0, len(products))
	for _, p := range products {
		out = append(out, reconcile(p, byProduct[p.ID]))
	}
	return out, nil
}

func reconcile(p *entity.Product, movs []entity.Movement) ReconcileReport {
	replayed := stock.Replay(p.InitialStock, movs)
	return ReconcileReport{
		ProductID:    p.ID,
		ProductName:  p.Name,
		InitialStock: p.InitialStock,
		Replayed:     replayed,
		CurrentStock: p.Stock,
		Discrepancy:  p.Stock - replayed,
		Consistent:   p.Stock == replayed,
	}
}

func reverse(movs []entity.Movement) {
	for i, j := 0, len(movs)-1; i < j; i, j = i+1, j-1 {
		movs[i], movs[j] = movs[j], movs[i]
	}
}
