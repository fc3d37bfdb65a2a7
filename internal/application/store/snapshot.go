package store

import (
	"strings"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Snapshot vista de solo lectura de un estado confirmado. Nunca refleja una unidad
// de trabajo a medias: los cambios se publican completos tras persistirse.
type Snapshot struct {
	st *state
}

// Product copia del producto o nil si no existe.
func (s Snapshot) Product(id string) *entity.Product {
	return s.st.products[id].Clone()
}

// ProductBySKU búsqueda exacta por SKU (sin distinguir mayúsculas).
func (s Snapshot) ProductBySKU(sku string) *entity.Product {
	for _, p := range s.st.products {
		if strings.EqualFold(p.SKU, sku) {
			return p.Clone()
		}
	}
	return nil
}

// Products copias en orden de creación.
func (s Snapshot) Products() []*entity.Product {
	list := s.st.productList()
	out := make([]*entity.Product, len(list))
	for i, p := range list {
		out[i] = p.Clone()
	}
	return out
}

// ProductNames mapa ID → nombre, para resolver referencias en reportes.
func (s Snapshot) ProductNames() map[string]string {
	out := make(map[string]string, len(s.st.products))
	for id, p := range s.st.products {
		out[id] = p.Name
	}
	return out
}

// Movements copia del historial en orden de registro.
func (s Snapshot) Movements() []entity.Movement {
	out := make([]entity.Movement, len(s.st.movements))
	copy(out, s.st.movements)
	return out
}

// MovementsFor movimientos de un producto en orden de registro.
func (s Snapshot) MovementsFor(productID string) []entity.Movement {
	var out []entity.Movement
	for _, m := range s.st.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

// Sales copias de las ventas en orden de creación.
func (s Snapshot) Sales() []entity.Sale {
	out := make([]entity.Sale, len(s.st.sales))
	for i := range s.st.sales {
		out[i] = *s.st.sales[i].Clone()
	}
	return out
}

// Sale venta por ID o nil.
func (s Snapshot) Sale(id string) *entity.Sale {
	for i := range s.st.sales {
		if s.st.sales[i].ID == id {
			return s.st.sales[i].Clone()
		}
	}
	return nil
}

// Settings configuración vigente.
func (s Snapshot) Settings() entity.Settings {
	return s.st.settings
}

// SettingsSaved indica si la configuración ya fue persistida alguna vez.
func (s Snapshot) SettingsSaved() bool {
	return s.st.settingsSaved
}

// LastOrderSeq secuencia del último pedido asignado.
func (s Snapshot) LastOrderSeq() int64 {
	return s.st.lastOrderSeq
}
