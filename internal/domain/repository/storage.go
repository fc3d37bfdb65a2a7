package repository

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Collection nombre de una colección durable.
type Collection string

// Colecciones del sistema. Settings se guarda como colección de un único registro.
const (
	CollectionProducts  Collection = "products"
	CollectionMovements Collection = "movements"
	CollectionSales     Collection = "sales"
	CollectionSettings  Collection = "settings"
)

// AllCollections en orden de escritura.
var AllCollections = []Collection{
	CollectionProducts, CollectionMovements, CollectionSales, CollectionSettings,
}

// StorageGateway puerto de persistencia por colección completa (DIP).
// Load devuelve los registros en el orden guardado; una colección inexistente es vacía.
// Save reemplaza la colección entera.
// SaveBatch reemplaza varias colecciones en una sola operación; las implementaciones
// que lo permiten (PostgreSQL) lo hacen dentro de una transacción.
type StorageGateway interface {
	Load(ctx context.Context, name Collection) ([]json.RawMessage, error)
	Save(ctx context.Context, name Collection, records []json.RawMessage) error
	SaveBatch(ctx context.Context, batch map[Collection][]json.RawMessage) error
}

// CollectionStats resumen de una colección persistida.
type CollectionStats struct {
	Name       Collection      `json:"name"`
	Records    int             `json:"records"`
	ValueTotal decimal.Decimal `json:"value_total"` // Σ del campo "total" de los registros (ventas)
}

// StatsReporter lo implementan los gateways que pueden resumir su contenido (health check).
type StatsReporter interface {
	Stats(ctx context.Context) ([]CollectionStats, error)
}
