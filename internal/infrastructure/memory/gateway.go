// Package memory implementa repository.StorageGateway en memoria (pruebas y
// STORAGE_DRIVER=memory). Nada sobrevive al reinicio del proceso.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StorageGateway = (*Gateway)(nil)

// Gateway colecciones guardadas como copias de los registros serializados.
type Gateway struct {
	mu          sync.RWMutex
	collections map[repository.Collection][]json.RawMessage
	saves       int
}

// NewGateway construye un gateway vacío.
func NewGateway() *Gateway {
	return &Gateway{collections: make(map[repository.Collection][]json.RawMessage)}
}

// Load devuelve una copia de la colección; vacía si no existe.
func (g *Gateway) Load(ctx context.Context, name repository.Collection) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return cloneRecords(g.collections[name]), nil
}

// Save reemplaza la colección.
func (g *Gateway) Save(ctx context.Context, name repository.Collection, records []json.RawMessage) error {
	return g.SaveBatch(ctx, map[repository.Collection][]json.RawMessage{name: records})
}

// SaveBatch reemplaza todas las colecciones del lote bajo el mismo lock.
func (g *Gateway) SaveBatch(ctx context.Context, batch map[repository.Collection][]json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	for name, records := range batch {
		g.collections[name] = cloneRecords(records)
	}
	g.saves++
	return nil
}

// Saves cantidad de lotes persistidos.
func (g *Gateway) Saves() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.saves
}

func cloneRecords(in []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(in))
	for i, r := range in {
		out[i] = append(json.RawMessage(nil), r...)
	}
	return out
}
