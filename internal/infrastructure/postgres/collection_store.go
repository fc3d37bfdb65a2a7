package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.StorageGateway = (*CollectionStore)(nil)
	_ repository.StatsReporter  = (*CollectionStore)(nil)
)

// Schema cada colección es una fila con sus registros en un arreglo JSONB.
const Schema = `
CREATE TABLE IF NOT EXISTS stock_collections (
	name         TEXT PRIMARY KEY,
	records      JSONB NOT NULL DEFAULT '[]'::jsonb,
	record_count INTEGER NOT NULL DEFAULT 0,
	value_total  NUMERIC(18,2) NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// value_total suma el campo "total" de los registros (solo las ventas lo tienen).
const upsertCollection = `
INSERT INTO stock_collections (name, records, record_count, value_total, updated_at)
VALUES ($1, $2::jsonb, jsonb_array_length($2::jsonb),
	(SELECT COALESCE(SUM((r->>'total')::numeric), 0) FROM jsonb_array_elements($2::jsonb) AS r),
	now())
ON CONFLICT (name) DO UPDATE SET
	records      = EXCLUDED.records,
	record_count = EXCLUDED.record_count,
	value_total  = EXCLUDED.value_total,
	updated_at   = EXCLUDED.updated_at`

// CollectionStore StorageGateway sobre PostgreSQL. SaveBatch escribe todas las
// colecciones del lote en una sola transacción.
type CollectionStore struct {
	q      Querier
	runner *TxRunner
}

// NewCollectionStore construye el adaptador sobre el pool.
func NewCollectionStore(pool *pgxpool.Pool) *CollectionStore {
	return &CollectionStore{q: pool, runner: NewTxRunner(pool)}
}

// Migrate crea la tabla si no existe.
func (s *CollectionStore) Migrate(ctx context.Context) error {
	if _, err := s.q.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("crear tabla stock_collections: %w", err)
	}
	return nil
}

// Load registros de la colección; vacía si no existe.
func (s *CollectionStore) Load(ctx context.Context, name repository.Collection) ([]json.RawMessage, error) {
	var raw []byte
	err := s.q.QueryRow(ctx, `SELECT records FROM stock_collections WHERE name = $1`, string(name)).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUndefinedTable(err) {
			return []json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("leer colección %s: %w", name, err)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decodificar colección %s: %w", name, err)
	}
	return records, nil
}

// Save reemplaza una colección.
func (s *CollectionStore) Save(ctx context.Context, name repository.Collection, records []json.RawMessage) error {
	return s.SaveBatch(ctx, map[repository.Collection][]json.RawMessage{name: records})
}

// SaveBatch reemplaza las colecciones del lote en una transacción (todo o nada).
func (s *CollectionStore) SaveBatch(ctx context.Context, batch map[repository.Collection][]json.RawMessage) error {
	names := make([]string, 0, len(batch))
	for name := range batch {
		names = append(names, string(name))
	}
	sort.Strings(names) // orden fijo de bloqueo de filas

	return s.runner.Run(ctx, func(q Querier) error {
		for _, name := range names {
			records := batch[repository.Collection(name)]
			if records == nil {
				records = []json.RawMessage{}
			}
			payload, err := json.Marshal(records)
			if err != nil {
				return fmt.Errorf("serializar colección %s: %w", name, err)
			}
			if _, err := q.Exec(ctx, upsertCollection, name, string(payload)); err != nil {
				return fmt.Errorf("guardar colección %s: %w", name, err)
			}
		}
		return nil
	})
}

// Stats cantidad de registros y suma de totales por colección.
func (s *CollectionStore) Stats(ctx context.Context) ([]repository.CollectionStats, error) {
	rows, err := s.q.Query(ctx, `SELECT name, record_count, value_total FROM stock_collections ORDER BY name`)
	if err != nil {
		if isUndefinedTable(err) {
			return []repository.CollectionStats{}, nil
		}
		return nil, fmt.Errorf("estadísticas de colecciones: %w", err)
	}
	defer rows.Close()

	var out []repository.CollectionStats
	for rows.Next() {
		var (
			name  string
			count int
			total decimal.Decimal
		)
		if err := rows.Scan(&name, &count, &total); err != nil {
			return nil, fmt.Errorf("scan estadísticas: %w", err)
		}
		out = append(out, repository.CollectionStats{Name: repository.Collection(name), Records: count, ValueTotal: total})
	}
	return out, rows.Err()
}
