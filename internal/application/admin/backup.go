package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/stock"
)

// Backup documento con todo el estado confirmado.
func (uc *UseCase) Backup(_ context.Context) *dto.BackupDocument {
	snap := uc.st.Snapshot()
	exported := uc.st.Now()
	doc := &dto.BackupDocument{
		Products:       []dto.BackupProduct{},
		StockMovements: []dto.BackupMovement{},
		Sales:          []dto.BackupSale{},
		Settings:       snap.Settings(),
		ExportedAt:     &exported,
	}
	for _, p := range snap.Products() {
		initial := p.InitialStock
		doc.Products = append(doc.Products, dto.BackupProduct{
			ID:                     dto.FlexibleID(p.ID),
			SKU:                    p.SKU,
			Name:                   p.Name,
			Category:               p.Category,
			Description:            p.Description,
			Stock:                  p.Stock,
			InitialStock:           &initial,
			Cost:                   p.Cost,
			Price:                  p.Price,
			LowStockThreshold:      p.LowStockThreshold,
			CriticalStockThreshold: p.CriticalStockThreshold,
			CreatedAt:              p.CreatedAt,
		})
	}
	for _, m := range snap.Movements() {
		doc.StockMovements = append(doc.StockMovements, dto.BackupMovement{
			ID:        dto.FlexibleID(fmt.Sprint(m.ID)),
			ProductID: dto.FlexibleID(m.ProductID),
			Type:      string(m.Type),
			Quantity:  m.Quantity,
			Date:      m.Date,
			Notes:     m.Notes,
			Reference: m.Reference,
			UnitCost:  m.UnitCost,
		})
	}
	for _, s := range snap.Sales() {
		items := make([]dto.BackupSaleItem, 0, len(s.Items))
		for _, it := range s.Items {
			items = append(items, dto.BackupSaleItem{ProductID: dto.FlexibleID(it.ProductID), Quantity: it.Quantity, Price: it.Price})
		}
		doc.Sales = append(doc.Sales, dto.BackupSale{
			ID:          dto.FlexibleID(s.ID),
			OrderNumber: s.OrderNumber,
			Date:        s.Date,
			Customer:    s.Customer,
			Items:       items,
			Total:       s.Total,
		})
	}
	return doc
}

// Restore valida el documento completo y, solo si todo es válido, reemplaza el
// estado en una sola unidad de trabajo. Los productos reciben IDs nuevos y las
// referencias de movimientos y ventas se traducen.
func (uc *UseCase) Restore(ctx context.Context, raw []byte) (*dto.ResetResponse, error) {
	doc, err := decodeBackup(raw)
	if err != nil {
		return nil, err
	}
	if err := doc.Settings.Validate(); err != nil {
		return nil, err
	}

	out := &dto.ResetResponse{}
	err = uc.st.Run(ctx, func(tx *store.Tx) error {
		products, idMap, err := restoreProducts(doc, tx.Now())
		if err != nil {
			return err
		}
		movements, err := restoreMovements(doc.StockMovements, idMap)
		if err != nil {
			return err
		}
		if err := deriveInitialStock(products, movements); err != nil {
			return err
		}
		sales, err := restoreSales(doc.Sales, idMap)
		if err != nil {
			return err
		}
		tx.Replace(products, movements, sales, doc.Settings)
		out.Products, out.Movements, out.Sales = len(products), len(movements), len(sales)
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.Message = "respaldo restaurado"
	uc.log.Warn().
		Int("products", out.Products).
		Int("movements", out.Movements).
		Int("sales", out.Sales).
		Msg("respaldo restaurado")
	return out, nil
}

// decodeBackup exige las cuatro claves antes de decodificar el contenido.
func decodeBackup(raw []byte) (*dto.BackupDocument, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return nil, domain.Invalid("respaldo no es un objeto JSON: %v", err)
	}
	var missing []string
	for _, k := range dto.BackupRequiredKeys {
		v, ok := keys[k]
		if !ok || string(v) == "null" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, domain.Invalid("faltan claves en el respaldo: %s", strings.Join(missing, ", "))
	}
	var doc dto.BackupDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, domain.Invalid("respaldo con formato inválido: %v", err)
	}
	return &doc, nil
}

func restoreProducts(doc *dto.BackupDocument, now time.Time) ([]*entity.Product, map[string]string, error) {
	products := make([]*entity.Product, 0, len(doc.Products))
	idMap := make(map[string]string, len(doc.Products))
	skus := make(map[string]bool, len(doc.Products))
	for i, bp := range doc.Products {
		oldID := string(bp.ID)
		if oldID == "" {
			return nil, nil, domain.Invalid("products[%d]: id requerido", i)
		}
		if _, dup := idMap[oldID]; dup {
			return nil, nil, domain.Invalid("products[%d]: id %s repetido", i, oldID)
		}
		created := now
		if !bp.CreatedAt.IsZero() {
			created = bp.CreatedAt
		}
		p, err := entity.NewProduct(entity.ProductSpec{
			SKU:                    bp.SKU,
			Name:                   bp.Name,
			Category:               bp.Category,
			Description:            bp.Description,
			Stock:                  bp.Stock,
			Cost:                   bp.Cost,
			Price:                  bp.Price,
			LowStockThreshold:      bp.LowStockThreshold,
			CriticalStockThreshold: bp.CriticalStockThreshold,
		}, created)
		if err != nil {
			return nil, nil, fmt.Errorf("products[%d]: %w", i, err)
		}
		key := strings.ToLower(p.SKU)
		if skus[key] {
			return nil, nil, fmt.Errorf("products[%d]: %w: sku %q repetido", i, domain.ErrDuplicate, p.SKU)
		}
		skus[key] = true
		if bp.InitialStock != nil {
			p.InitialStock = *bp.InitialStock
		} else {
			p.InitialStock = -1 // se deriva del historial
		}
		p.UpdatedAt = now
		idMap[oldID] = p.ID
		products = append(products, p)
	}
	return products, idMap, nil
}

// restoreMovements traduce referencias y asigna IDs nuevos en el orden del documento.
// Las referencias a productos que ya no existen se conservan tal cual.
func restoreMovements(in []dto.BackupMovement, idMap map[string]string) ([]entity.Movement, error) {
	out := make([]entity.Movement, 0, len(in))
	for i, bm := range in {
		kind, err := entity.ParseMovementType(bm.Type)
		if err != nil {
			return nil, fmt.Errorf("stockMovements[%d]: %w", i, err)
		}
		m := entity.Movement{
			ID:        int64(i + 1),
			ProductID: translate(idMap, string(bm.ProductID)),
			Type:      kind,
			Quantity:  bm.Quantity,
			Date:      bm.Date,
			Notes:     bm.Notes,
			Reference: bm.Reference,
			UnitCost:  bm.UnitCost,
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("stockMovements[%d]: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// deriveInitialStock fija InitialStock de modo que el historial reproduzca el stock.
func deriveInitialStock(products []*entity.Product, movements []entity.Movement) error {
	byProduct := make(map[string][]entity.Movement)
	for _, m := range movements {
		byProduct[m.ProductID] = append(byProduct[m.ProductID], m)
	}
	for _, p := range products {
		movs := byProduct[p.ID]
		if p.InitialStock >= 0 && stock.Consistent(p.InitialStock, p.Stock, movs) {
			continue
		}
		initial, ok := stock.DeriveInitial(p.Stock, movs)
		if !ok {
			return domain.Invalid("el historial de %s no reproduce su stock %d", p.SKU, p.Stock)
		}
		p.InitialStock = initial
	}
	return nil
}

func restoreSales(in []dto.BackupSale, idMap map[string]string) ([]entity.Sale, error) {
	out := make([]entity.Sale, 0, len(in))
	orders := make(map[string]bool, len(in))
	for i, bs := range in {
		items := make([]entity.SaleItem, 0, len(bs.Items))
		for _, it := range bs.Items {
			items = append(items, entity.SaleItem{
				ProductID: translate(idMap, string(it.ProductID)),
				Quantity:  it.Quantity,
				Price:     it.Price,
			})
		}
		s := entity.Sale{
			ID:          uuid.New().String(),
			OrderNumber: bs.OrderNumber,
			Date:        bs.Date,
			Customer:    strings.TrimSpace(bs.Customer),
			Items:       items,
			Total:       bs.Total.Round(2),
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("sales[%d]: %w", i, err)
		}
		if orders[s.OrderNumber] {
			return nil, domain.Invalid("sales[%d]: orderNumber %s repetido", i, s.OrderNumber)
		}
		orders[s.OrderNumber] = true
		out = append(out, s)
	}
	return out, nil
}

func translate(idMap map[string]string, old string) string {
	if id, ok := idMap[old]; ok {
		return id
	}
	return old
}
