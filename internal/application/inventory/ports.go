package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/store"
)

// StateStore estado autoritativo con unidades de trabajo atómicas.
// Run aplica todo lo preparado en fn o nada.
type StateStore interface {
	Snapshot() store.Snapshot
	Run(ctx context.Context, fn func(tx *store.Tx) error) error
	Now() time.Time
}

var _ StateStore = (*store.Store)(nil)
