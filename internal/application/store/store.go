// Package store mantiene el estado autoritativo en memoria (catálogo, historial de
// movimientos, ventas y configuración) y aplica unidades de trabajo atómicas sobre él,
// persistiéndolas a través de un repository.StorageGateway antes de publicarlas.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Store estado confirmado más el serializador de commits.
// Las lecturas toman una instantánea; las escrituras pasan por Run.
type Store struct {
	gateway repository.StorageGateway
	log     zerolog.Logger
	clock   func() time.Time

	commitMu sync.Mutex   // un commit a la vez
	mu       sync.RWMutex // protege st
	st       *state
}

// Option configura el Store.
type Option func(*Store)

// WithClock reemplaza el reloj (pruebas).
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// New construye un Store vacío con la configuración por defecto. Usar Load para
// cargar el estado persistido.
func New(gateway repository.StorageGateway, log zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		gateway: gateway,
		log:     log,
		clock:   func() time.Time { return time.Now().UTC() },
		st:      emptyState(entity.DefaultSettings()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now reloj del store.
func (s *Store) Now() time.Time { return s.clock() }

// Load reemplaza el estado en memoria por el persistido.
func (s *Store) Load(ctx context.Context) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	prodRecs, err := s.gateway.Load(ctx, repository.CollectionProducts)
	if err != nil {
		return fmt.Errorf("cargar productos: %w", err)
	}
	products, err := decodeAll[*entity.Product](repository.CollectionProducts, prodRecs)
	if err != nil {
		return err
	}
	movRecs, err := s.gateway.Load(ctx, repository.CollectionMovements)
	if err != nil {
		return fmt.Errorf("cargar movimientos: %w", err)
	}
	movements, err := decodeAll[entity.Movement](repository.CollectionMovements, movRecs)
	if err != nil {
		return err
	}
	saleRecs, err := s.gateway.Load(ctx, repository.CollectionSales)
	if err != nil {
		return fmt.Errorf("cargar ventas: %w", err)
	}
	sales, err := decodeAll[entity.Sale](repository.CollectionSales, saleRecs)
	if err != nil {
		return err
	}
	setRecs, err := s.gateway.Load(ctx, repository.CollectionSettings)
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	settingsList, err := decodeAll[entity.Settings](repository.CollectionSettings, setRecs)
	if err != nil {
		return err
	}
	settings := entity.DefaultSettings()
	if len(settingsList) > 0 {
		settings = settingsList[0]
	}

	tx := newTx(emptyState(settings), s.clock())
	tx.Replace(products, movements, sales, settings)
	tx.replaced.settingsSaved = len(settingsList) > 0

	s.mu.Lock()
	s.st = tx.replaced
	s.mu.Unlock()

	s.log.Info().
		Int("products", len(products)).
		Int("movements", len(movements)).
		Int("sales", len(sales)).
		Msg("estado cargado")
	return nil
}

// Snapshot instantánea consistente del estado confirmado.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{st: s.st}
}

// Run ejecuta fn como una unidad de trabajo. Si fn falla no hay efectos. Si fn tiene
// éxito, las colecciones tocadas se persisten en un solo lote y recién entonces el
// nuevo estado se publica; si la persistencia falla, el estado en memoria no cambia.
func (s *Store) Run(ctx context.Context, fn func(tx *Tx) error) error {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	base := s.st
	s.mu.RUnlock()

	tx := newTx(base, s.clock())
	if err := fn(tx); err != nil {
		return err
	}
	if !tx.dirty() {
		return nil
	}

	next := tx.merged()
	batch, err := encodeBatch(next, tx.touched)
	if err != nil {
		return err
	}
	if err := s.gateway.SaveBatch(ctx, batch); err != nil {
		s.log.Error().Err(err).Msg("persistencia de la unidad de trabajo")
		return fmt.Errorf("persistir cambios: %w", err)
	}

	s.mu.Lock()
	s.st = next
	s.mu.Unlock()
	return nil
}
