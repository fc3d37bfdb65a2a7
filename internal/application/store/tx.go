package store

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ErrStale la versión indicada por el llamador ya no es la vigente; debe releer el producto.
var ErrStale = fmt.Errorf("%w: versión desactualizada", domain.ErrConflict)

// Tx unidad de trabajo en preparación. Lee el estado confirmado más lo ya preparado;
// nada se publica hasta que Run persiste el lote completo.
type Tx struct {
	base *state
	now  time.Time

	products map[string]*entity.Product // creados o modificados (copias)
	deleted  map[string]bool
	created  []string

	movements      []entity.Movement
	sales          []entity.Sale
	settings       *entity.Settings
	nextMovementID int64
	nextOrderSeq   int64

	replaced *state
	touched  map[repository.Collection]bool
}

func newTx(base *state, now time.Time) *Tx {
	// el historial se reproduce por fecha: un reloj que retrocede no puede
	// dejar un movimiento nuevo antes de los ya confirmados
	if now.Before(base.lastMovementAt) {
		now = base.lastMovementAt
	}
	return &Tx{
		base:           base,
		now:            now,
		products:       make(map[string]*entity.Product),
		deleted:        make(map[string]bool),
		nextMovementID: base.lastMovementID,
		nextOrderSeq:   base.lastOrderSeq,
		touched:        make(map[repository.Collection]bool),
	}
}

// Now instante común a toda la unidad de trabajo.
func (tx *Tx) Now() time.Time { return tx.now }

func (tx *Tx) current() *state {
	if tx.replaced != nil {
		return tx.replaced
	}
	return tx.base
}

// Product copia del producto (preparado o confirmado); nil si no existe o fue eliminado.
func (tx *Tx) Product(id string) *entity.Product {
	if tx.deleted[id] {
		return nil
	}
	if p, ok := tx.products[id]; ok {
		return p.Clone()
	}
	return tx.current().products[id].Clone()
}

// Products copias en orden de creación, incluyendo los preparados.
func (tx *Tx) Products() []*entity.Product {
	cur := tx.current()
	out := make([]*entity.Product, 0, len(cur.order)+len(tx.created))
	for _, id := range append(append([]string{}, cur.order...), tx.created...) {
		if p := tx.Product(id); p != nil {
			out = append(out, p)
		}
	}
	return out
}

// SKUTaken indica si otro producto (distinto de exceptID) ya usa el SKU.
func (tx *Tx) SKUTaken(sku, exceptID string) bool {
	for _, p := range tx.Products() {
		if p.ID != exceptID && strings.EqualFold(p.SKU, sku) {
			return true
		}
	}
	return false
}

// CheckVersion ErrStale si la versión confirmada del producto difiere de la leída.
func (tx *Tx) CheckVersion(id string, version int64) error {
	p := tx.Product(id)
	if p == nil {
		return fmt.Errorf("producto %s: %w", id, domain.ErrNotFound)
	}
	if p.Version != version {
		return ErrStale
	}
	return nil
}

// PutProduct prepara el alta o modificación; incrementa la versión si ya existía.
func (tx *Tx) PutProduct(p *entity.Product) {
	c := p.Clone()
	_, staged := tx.products[c.ID]
	_, committed := tx.current().products[c.ID]
	switch {
	case staged:
		// la versión ya se incrementó en esta unidad de trabajo
		c.Version = tx.products[c.ID].Version
	case committed:
		c.Version = tx.current().products[c.ID].Version + 1
	default:
		tx.created = append(tx.created, c.ID)
		if c.Version == 0 {
			c.Version = 1
		}
	}
	delete(tx.deleted, c.ID)
	tx.products[c.ID] = c
	tx.touched[repository.CollectionProducts] = true
}

// DeleteProduct prepara la baja. Retorna false si no existía.
func (tx *Tx) DeleteProduct(id string) bool {
	if tx.Product(id) == nil {
		return false
	}
	delete(tx.products, id)
	tx.deleted[id] = true
	tx.touched[repository.CollectionProducts] = true
	return true
}

// AppendMovement asigna el siguiente ID monótono y agrega el movimiento.
func (tx *Tx) AppendMovement(m entity.Movement) entity.Movement {
	tx.nextMovementID++
	m.ID = tx.nextMovementID
	if m.Date.IsZero() {
		m.Date = tx.now
	}
	tx.movements = append(tx.movements, m)
	tx.touched[repository.CollectionMovements] = true
	return m
}

// MovementsFor movimientos confirmados y preparados de un producto.
func (tx *Tx) MovementsFor(productID string) []entity.Movement {
	var out []entity.Movement
	for _, m := range tx.current().movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	for _, m := range tx.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// NextOrderNumber reserva el siguiente número de pedido. Solo se confirma si Run tiene éxito.
func (tx *Tx) NextOrderNumber() string {
	tx.nextOrderSeq++
	return entity.FormatOrderNumber(tx.nextOrderSeq)
}

// AppendSale agrega una venta ya construida.
func (tx *Tx) AppendSale(s entity.Sale) {
	tx.sales = append(tx.sales, *s.Clone())
	tx.touched[repository.CollectionSales] = true
}

// Settings configuración preparada o vigente.
func (tx *Tx) Settings() entity.Settings {
	if tx.settings != nil {
		return *tx.settings
	}
	return tx.current().settings
}

// PutSettings prepara el reemplazo de la configuración.
func (tx *Tx) PutSettings(s entity.Settings) {
	tx.settings = &s
	tx.touched[repository.CollectionSettings] = true
}

// Replace descarta todo el estado y lo sustituye por el dado (reset, restore).
// Los cambios preparados antes de Replace se pierden.
func (tx *Tx) Replace(products []*entity.Product, movements []entity.Movement, sales []entity.Sale, settings entity.Settings) {
	st := emptyState(settings)
	st.settingsSaved = true
	for _, p := range products {
		c := p.Clone()
		if c.Version == 0 {
			c.Version = 1
		}
		st.products[c.ID] = c
		st.order = append(st.order, c.ID)
	}
	st.movements = append(st.movements, movements...)
	for _, m := range movements {
		if m.ID > st.lastMovementID {
			st.lastMovementID = m.ID
		}
		if m.Date.After(st.lastMovementAt) {
			st.lastMovementAt = m.Date
		}
	}
	for _, s := range sales {
		st.sales = append(st.sales, *s.Clone())
		if seq, ok := entity.ParseOrderNumber(s.OrderNumber); ok && seq > st.lastOrderSeq {
			st.lastOrderSeq = seq
		}
	}
	tx.replaced = st
	tx.products = make(map[string]*entity.Product)
	tx.deleted = make(map[string]bool)
	tx.created = nil
	tx.movements = nil
	tx.sales = nil
	tx.settings = nil
	tx.nextMovementID = st.lastMovementID
	tx.nextOrderSeq = st.lastOrderSeq
	for _, c := range repository.AllCollections {
		tx.touched[c] = true
	}
}

func (tx *Tx) dirty() bool { return len(tx.touched) > 0 }

// merged construye el nuevo estado sin modificar el confirmado.
func (tx *Tx) merged() *state {
	cur := tx.current()
	next := &state{
		products:       make(map[string]*entity.Product, len(cur.products)+len(tx.created)),
		settings:       tx.Settings(),
		settingsSaved:  cur.settingsSaved || tx.settings != nil,
		lastMovementID: tx.nextMovementID,
		lastOrderSeq:   tx.nextOrderSeq,
		lastMovementAt: cur.lastMovementAt,
	}
	for _, m := range tx.movements {
		if m.Date.After(next.lastMovementAt) {
			next.lastMovementAt = m.Date
		}
	}
	for _, id := range append(append([]string{}, cur.order...), tx.created...) {
		if tx.deleted[id] {
			continue
		}
		p, ok := tx.products[id]
		if !ok {
			p = cur.products[id]
		}
		if p == nil {
			continue
		}
		if _, dup := next.products[id]; dup {
			continue
		}
		next.products[id] = p
		next.order = append(next.order, id)
	}
	next.movements = append(cur.movements[:len(cur.movements):len(cur.movements)], tx.movements...)
	next.sales = append(cur.sales[:len(cur.sales):len(cur.sales)], tx.sales...)
	return next
}
