package sales

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/report"
)

// UseCase casos de uso de ventas expuestos por la API.
type UseCase struct {
	st       inventory.StateStore
	tx       *SaleTransaction
	renderer ports.ReportRenderer
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso. renderer puede ser nil (sin comprobantes PDF).
func NewUseCase(st inventory.StateStore, tx *SaleTransaction, renderer ports.ReportRenderer, log zerolog.Logger) *UseCase {
	return &UseCase{st: st, tx: tx, renderer: renderer, log: log}
}

// Complete registra la venta y devuelve la venta persistida.
func (uc *UseCase) Complete(ctx context.Context, in dto.CompleteSaleRequest) (*dto.SaleResponse, error) {
	items := make([]entity.SaleItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.SaleItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price})
	}
	sale, err := uc.tx.Complete(ctx, in.Customer, items)
	if err != nil {
		return nil, err
	}
	out := dto.NewSaleResponse(*sale, uc.st.Snapshot().ProductNames())
	return &out, nil
}

// Get devuelve nil si la venta no existe.
func (uc *UseCase) Get(_ context.Context, id string) (*dto.SaleResponse, error) {
	snap := uc.st.Snapshot()
	s := snap.Sale(id)
	if s == nil {
		return nil, nil
	}
	out := dto.NewSaleResponse(*s, snap.ProductNames())
	return &out, nil
}

// List ventas del período, más recientes primero.
func (uc *UseCase) List(_ context.Context, in dto.PeriodRequest) (*dto.SaleListResponse, error) {
	period, err := report.ParsePeriod(in.PeriodType, in.PeriodValue)
	if err != nil {
		return nil, err
	}
	snap := uc.st.Snapshot()
	filtered := period.Filter(snap.Sales())
	SortNewestFirst(filtered)
	names := snap.ProductNames()
	items := make([]dto.SaleResponse, 0, len(filtered))
	for _, s := range filtered {
		items = append(items, dto.NewSaleResponse(s, names))
	}
	return &dto.SaleListResponse{Period: period.Label(), Items: items, Total: len(items)}, nil
}

// Receipt comprobante PDF de la venta.
func (uc *UseCase) Receipt(ctx context.Context, id string) ([]byte, string, error) {
	if uc.renderer == nil {
		return nil, "", fmt.Errorf("%w: generador de PDF no configurado", domain.ErrUpstreamUnavailable)
	}
	sale, err := uc.Get(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if sale == nil {
		return nil, "", fmt.Errorf("venta %s: %w", id, domain.ErrNotFound)
	}
	pdf, err := uc.renderer.RenderReceipt(*sale, dto.NewSettingsDTO(uc.st.Snapshot().Settings()))
	if err != nil {
		return nil, "", fmt.Errorf("generar comprobante: %w", err)
	}
	return pdf, sale.OrderNumber, nil
}

// SortNewestFirst ordena por fecha descendente; a igual fecha, el pedido mayor primero.
func SortNewestFirst(sales []entity.Sale) {
	sort.SliceStable(sales, func(i, j int) bool {
		if !sales[i].Date.Equal(sales[j].Date) {
			return sales[i].Date.After(sales[j].Date)
		}
		a, _ := entity.ParseOrderNumber(sales[i].OrderNumber)
		b, _ := entity.ParseOrderNumber(sales[j].OrderNumber)
		return a > b
	})
}
