package store

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// state estado confirmado. Es inmutable una vez publicado: cada commit construye uno
// nuevo (copy-on-write) y los productos confirmados nunca se modifican en sitio.
type state struct {
	products       map[string]*entity.Product
	order          []string // IDs de productos en orden de creación
	movements      []entity.Movement
	sales          []entity.Sale
	settings       entity.Settings
	settingsSaved  bool // la configuración existe en el almacenamiento
	lastMovementID int64
	lastOrderSeq   int64
	lastMovementAt time.Time // fecha más reciente del historial
}

func emptyState(settings entity.Settings) *state {
	return &state{
		products:     make(map[string]*entity.Product),
		settings:     settings,
		lastOrderSeq: entity.OrderNumberBase,
	}
}

func (s *state) productList() []*entity.Product {
	out := make([]*entity.Product, 0, len(s.order))
	for _, id := range s.order {
		if p, ok := s.products[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
