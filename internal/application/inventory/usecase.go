package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

// editAdjustNote nota del ajuste generado al editar el stock desde el producto.
const editAdjustNote = "Ajuste manual desde edición de producto"

// UseCase casos de uso de productos y movimientos expuestos por la API.
type UseCase struct {
	st      StateStore
	catalog *ProductCatalog
	ledger  *MovementLedger
	log     zerolog.Logger
}

// NewUseCase construye el caso de uso sobre el catálogo y el ledger.
func NewUseCase(st StateStore, catalog *ProductCatalog, ledger *MovementLedger, log zerolog.Logger) *UseCase {
	return &UseCase{st: st, catalog: catalog, ledger: ledger, log: log}
}

// CreateProduct crea un producto con su stock inicial.
func (uc *UseCase) CreateProduct(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.catalog.Create(ctx, in.Spec())
	if err != nil {
		return nil, err
	}
	return uc.toResponse(p), nil
}

// UpdateProduct actualiza los campos editables y, si el stock pedido difiere del actual,
// registra un ajuste absoluto en la misma unidad de trabajo.
func (uc *UseCase) UpdateProduct(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Stock != nil && *in.Stock < 0 {
		return nil, domain.Invalid("stock no puede ser negativo")
	}
	var updated *entity.Product
	err := uc.st.Run(ctx, func(tx *store.Tx) error {
		p, err := uc.catalog.UpdateTx(tx, id, in.Spec(), in.Version)
		if err != nil {
			return err
		}
		if in.Stock != nil && *in.Stock != p.Stock {
			p, _, err = uc.catalog.AdjustStockTx(tx, StockChange{
				ProductID: id,
				Kind:      entity.MovementAdjust,
				Quantity:  *in.Stock,
				Notes:     editAdjustNote,
			})
			if err != nil {
				return err
			}
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.toResponse(updated), nil
}

// GetProduct devuelve nil si no existe.
func (uc *UseCase) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.catalog.Get(ctx, id)
	if err != nil || p == nil {
		return nil, err
	}
	return uc.toResponse(p), nil
}

// ListProducts aplica los filtros de categoría, texto y estado.
func (uc *UseCase) ListProducts(ctx context.Context, f dto.ProductFilter) (*dto.ProductListResponse, error) {
	status, err := stock.ParseStatus(f.Status)
	if err != nil {
		return nil, err
	}
	list, err := uc.catalog.List(ctx, ProductFilter{Category: f.Category, Query: f.Query, Status: status})
	if err != nil {
		return nil, err
	}
	settings := uc.st.Snapshot().Settings()
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, dto.NewProductResponse(p, string(stock.Classify(p, settings))))
	}
	return &dto.ProductListResponse{Items: items, Total: len(items)}, nil
}

// DeleteProduct elimina el producto.
func (uc *UseCase) DeleteProduct(ctx context.Context, id string) error {
	return uc.catalog.Delete(ctx, id)
}

// ProductStatus clasificación y umbrales efectivos.
func (uc *UseCase) ProductStatus(ctx context.Context, id string) (*dto.StockStatusResponse, error) {
	p, status, settings, err := uc.catalog.Status(ctx, id)
	if err != nil {
		return nil, err
	}
	low, critical := stock.Thresholds(p, settings)
	return &dto.StockStatusResponse{
		ProductID:         p.ID,
		Stock:             p.Stock,
		Status:            string(status),
		LowThreshold:      low,
		CriticalThreshold: critical,
	}, nil
}

// RecordMovement registra una entrada, salida o ajuste de stock.
func (uc *UseCase) RecordMovement(ctx context.Context, in dto.RecordMovementRequest) (*dto.RecordMovementResponse, error) {
	if strings.TrimSpace(in.ProductID) == "" {
		return nil, domain.Invalid("product_id requerido")
	}
	kind, err := entity.ParseMovementType(in.Type)
	if err != nil {
		return nil, err
	}
	p, mov, err := uc.catalog.AdjustStock(ctx, StockChange{
		ProductID: in.ProductID,
		Kind:      kind,
		Quantity:  in.Quantity,
		Notes:     strings.TrimSpace(in.Notes),
		UnitCost:  in.UnitCost,
	})
	if err != nil {
		return nil, err
	}
	names := map[string]string{p.ID: p.Name}
	return &dto.RecordMovementResponse{
		Movement: dto.NewMovementResponse(*mov, names),
		Product:  *uc.toResponse(p),
	}, nil
}

// ListMovements por rango de fechas y orden; sin rango devuelve la actividad reciente.
func (uc *UseCase) ListMovements(ctx context.Context, in dto.MovementListRequest) (*dto.MovementListResponse, error) {
	order, err := ParseSortOrder(strings.ToLower(in.Order))
	if err != nil {
		return nil, err
	}
	from, err := parseBound(in.From, false)
	if err != nil {
		return nil, err
	}
	to, err := parseBound(in.To, true)
	if err != nil {
		return nil, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return nil, domain.Invalid("to no puede ser anterior a from")
	}
	movs, err := uc.ledger.ListInRange(ctx, from, to, order)
	if err != nil {
		return nil, err
	}
	if in.Limit > 0 && len(movs) > in.Limit {
		movs = movs[:in.Limit]
	}
	return uc.toMovementList(movs), nil
}

// ProductMovements historial del producto en orden cronológico.
func (uc *UseCase) ProductMovements(ctx context.Context, productID string) (*dto.MovementListResponse, error) {
	movs, err := uc.ledger.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return uc.toMovementList(movs), nil
}

// Reconcile diagnóstico de un producto.
func (uc *UseCase) Reconcile(ctx context.Context, productID string) (*dto.ReconcileResponse, error) {
	r, err := uc.ledger.Reconcile(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := toReconcileResponse(*r)
	return &out, nil
}

// ReconcileAll diagnóstico del catálogo completo.
func (uc *UseCase) ReconcileAll(ctx context.Context) (*dto.ReconcileListResponse, error) {
	reports, err := uc.ledger.ReconcileAll(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.ReconcileListResponse{Items: make([]dto.ReconcileResponse, 0, len(reports))}
	for _, r := range reports {
		if !r.Consistent {
			out.Inconsistent++
			uc.log.Warn().
				Str("product_id", r.ProductID).
				Int("replayed", r.Replayed).
				Int("stock", r.CurrentStock).
				Msg("historial de movimientos inconsistente")
		}
		out.Items = append(out.Items, toReconcileResponse(r))
	}
	return out, nil
}

func (uc *UseCase) toResponse(p *entity.Product) *dto.ProductResponse {
	settings := uc.st.Snapshot().Settings()
	r := dto.NewProductResponse(p, string(stock.Classify(p, settings)))
	return &r
}

func (uc *UseCase) toMovementList(movs []entity.Movement) *dto.MovementListResponse {
	names := uc.st.Snapshot().ProductNames()
	items := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		items = append(items, dto.NewMovementResponse(m, names))
	}
	return &dto.MovementListResponse{Items: items, Total: len(items)}
}

func toReconcileResponse(r ReconcileReport) dto.ReconcileResponse {
	return dto.ReconcileResponse{
		ProductID:    r.ProductID,
		ProductName:  r.ProductName,
		InitialStock: r.InitialStock,
		Replayed:     r.Replayed,
		CurrentStock: r.CurrentStock,
		Discrepancy:  r.Discrepancy,
		Consistent:   r.Consistent,
	}
}

// parseBound acepta YYYY-MM-DD (UTC; como límite superior incluye el día completo) o RFC3339.
func parseBound(s string, upper bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, domain.Invalid("fecha %q no es YYYY-MM-DD ni RFC3339", s)
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

