package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

// StockChange cambio de stock solicitado. Todo cambio de stock deja un movimiento.
type StockChange struct {
	ProductID string
	Kind      entity.MovementType
	Quantity  int // add/remove: cantidad; adjust: nuevo stock absoluto
	Notes     string
	Reference string
	UnitCost  *decimal.Decimal // solo add: recalcula el costo promedio ponderado
}

// ProductFilter filtros opcionales del listado.
type ProductFilter struct {
	Category string
	Query    string // búsqueda en nombre, SKU y descripción
	Status   stock.Status
}

// ProductCatalog única autoridad sobre el stock actual de cada producto.
type ProductCatalog struct {
	st     StateStore
	ledger *MovementLedger
	log    zerolog.Logger
}

// NewProductCatalog construye el catálogo. Los cambios de stock se registran en ledger.
func NewProductCatalog(st StateStore, ledger *MovementLedger, log zerolog.Logger) *ProductCatalog {
	return &ProductCatalog{st: st, ledger: ledger, log: log}
}

// Create valida y da de alta un producto. No genera movimientos: el stock inicial
// queda registrado en InitialStock.
func (c *ProductCatalog) Create(ctx context.Context, spec entity.ProductSpec) (*entity.Product, error) {
	var created *entity.Product
	err := c.st.Run(ctx, func(tx *store.Tx) error {
		p, err := c.CreateTx(tx, spec)
		created = p
		return err
	})
	if err != nil {
		return nil, err
	}
	c.log.Info().Str("product_id", created.ID).Str("sku", created.SKU).Msg("producto creado")
	return created, nil
}

// CreateTx alta dentro de una unidad de trabajo existente.
func (c *ProductCatalog) CreateTx(tx *store.Tx, spec entity.ProductSpec) (*entity.Product, error) {
	p, err := entity.NewProduct(spec, tx.Now())
	if err != nil {
		return nil, err
	}
	if tx.SKUTaken(p.SKU, "") {
		return nil, fmt.Errorf("%w: sku %q ya existe", domain.ErrDuplicate, p.SKU)
	}
	tx.PutProduct(p)
	return tx.Product(p.ID), nil
}

// Update reemplaza los campos editables. No modifica el stock.
// expectedVersion distinto de cero exige que coincida con la versión actual.
func (c *ProductCatalog) Update(ctx context.Context, id string, spec entity.ProductSpec, expectedVersion int64) (*entity.Product, error) {
	var updated *entity.Product
	err := c.st.Run(ctx, func(tx *store.Tx) error {
		p, err := c.UpdateTx(tx, id, spec, expectedVersion)
		updated = p
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateTx actualización dentro de una unidad de trabajo existente.
func (c *ProductCatalog) UpdateTx(tx *store.Tx, id string, spec entity.ProductSpec, expectedVersion int64) (*entity.Product, error) {
	p := tx.Product(id)
	if p == nil {
		return nil, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	if expectedVersion != 0 {
		if err := tx.CheckVersion(id, expectedVersion); err != nil {
			return nil, fmt.Errorf("producto %s en versión %d, se esperaba %d: %w", id, p.Version, expectedVersion, err)
		}
	}
	spec.Stock = p.Stock
	if err := p.ApplySpec(spec, tx.Now()); err != nil {
		return nil, err
	}
	if tx.SKUTaken(p.SKU, id) {
		return nil, fmt.Errorf("%w: sku %q ya existe", domain.ErrDuplicate, p.SKU)
	}
	tx.PutProduct(p)
	return tx.Product(id), nil
}

// AdjustStock aplica un cambio de stock. La lectura, la validación y la escritura
// ocurren dentro de la misma unidad de trabajo, serializada por el lock de commit.
// Si el resultado sería negativo devuelve *domain.InsufficientStockError sin efectos.
func (c *ProductCatalog) AdjustStock(ctx context.Context, change StockChange) (*entity.Product, *entity.Movement, error) {
	var (
		updated *entity.Product
		mov     entity.Movement
	)
	err := c.st.Run(ctx, func(tx *store.Tx) error {
		var err error
		updated, mov, err = c.AdjustStockTx(tx, change)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	c.log.Info().
		Str("product_id", updated.ID).
		Str("type", string(mov.Type)).
		Int("quantity", mov.Quantity).
		Int("stock", updated.Stock).
		Msg("movimiento registrado")
	return updated, &mov, nil
}

// AdjustStockTx aplica el cambio y agrega el movimiento correspondiente en la misma
// unidad de trabajo. Usado por ventas y por la edición de productos.
func (c *ProductCatalog) AdjustStockTx(tx *store.Tx, change StockChange) (*entity.Product, entity.Movement, error) {
	p := tx.Product(change.ProductID)
	if p == nil {
		return nil, entity.Movement{}, fmt.Errorf("producto %s: %w", change.ProductID, domain.ErrNotFound)
	}
	next, err := stock.Next(p.ID, p.Stock, change.Kind, change.Quantity)
	if err != nil {
		return nil, entity.Movement{}, err
	}
	mov, err := c.ledger.AppendTx(tx, entity.Movement{
		ProductID: p.ID,
		Type:      change.Kind,
		Quantity:  change.Quantity,
		Date:      tx.Now(),
		Notes:     change.Notes,
		Reference: change.Reference,
		UnitCost:  change.UnitCost,
	})
	if err != nil {
		return nil, entity.Movement{}, err
	}
	if change.UnitCost != nil {
		p.Cost = stock.WeightedAverageCost(p.Stock, p.Cost, change.Quantity, *change.UnitCost)
	}
	p.Stock = next
	p.UpdatedAt = tx.Now()
	tx.PutProduct(p)
	return tx.Product(p.ID), mov, nil
}

// Delete da de baja el producto. Movimientos y ventas que lo referencian se conservan.
func (c *ProductCatalog) Delete(ctx context.Context, id string) error {
	err := c.st.Run(ctx, func(tx *store.Tx) error {
		if !tx.DeleteProduct(id) {
			return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	c.log.Info().Str("product_id", id).Msg("producto eliminado")
	return nil
}

// Get devuelve el producto o nil si no existe.
func (c *ProductCatalog) Get(_ context.Context, id string) (*entity.Product, error) {
	return c.st.Snapshot().Product(id), nil
}

// List productos en orden de creación aplicando los filtros presentes.
func (c *ProductCatalog) List(_ context.Context, f ProductFilter) ([]*entity.Product, error) {
	snap := c.st.Snapshot()
	settings := snap.Settings()
	q := strings.ToLower(strings.TrimSpace(f.Query))
	all := snap.Products()
	out := make([]*entity.Product, 0, len(all))
	for _, p := range all {
		if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
			continue
		}
		if q != "" && !matches(p, q) {
			continue
		}
		if f.Status != "" && stock.Classify(p, settings) != f.Status {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Status clasificación del producto según sus umbrales efectivos.
func (c *ProductCatalog) Status(_ context.Context, id string) (*entity.Product, stock.Status, entity.Settings, error) {
	snap := c.st.Snapshot()
	p := snap.Product(id)
	if p == nil {
		return nil, "", entity.Settings{}, fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	return p, stock.Classify(p, snap.Settings()), snap.Settings(), nil
}

func matches(p *entity.Product, q string) bool {
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.SKU), q) ||
		strings.Contains(strings.ToLower(p.Description), q)
}
