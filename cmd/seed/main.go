// seed carga productos en el almacenamiento configurado (STORAGE_DRIVER, DATA_DIR, DATABASE_URL).
//
// Uso:
//
//	go run ./cmd/seed                                  catálogo solar de demostración
//	go run ./cmd/seed -csv productos.csv -encoding latin1 -sep ';'
//
// Los SKU que ya existen se omiten. Cada producto se crea con su stock inicial.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/store"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/filestore"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	csvPath := flag.String("csv", "", "archivo CSV (sku,name,category,description,stock,cost,price)")
	encoding := flag.String("encoding", "utf-8", "codificación del CSV: utf-8, latin1, windows-1252")
	sep := flag.String("sep", ",", "separador del CSV")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "seed"})

	products := defaultCatalog()
	if *csvPath != "" {
		if products, err = readCSV(*csvPath, *encoding, *sep); err != nil {
			fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
			os.Exit(1)
		}
	}

	ctx := context.Background()
	gateway, closeFn, err := openGateway(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Almacenamiento: %v\n", err)
		os.Exit(1)
	}
	defer closeFn()

	st := store.New(gateway, log.Component("store"))
	if err := st.Load(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Cargar datos: %v\n", err)
		os.Exit(1)
	}
	ledger := inventory.NewMovementLedger(st)
	uc := inventory.NewUseCase(st, inventory.NewProductCatalog(st, ledger, log.Component("catalog")), ledger, log.Component("inventory"))

	created, skipped := 0, 0
	for _, p := range products {
		if _, err := uc.CreateProduct(ctx, p); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				skipped++
				continue
			}
			log.Error().Err(err).Str("sku", p.SKU).Msg("producto rechazado")
			continue
		}
		created++
	}
	log.Info().Int("created", created).Int("skipped", skipped).Str("storage", cfg.Storage.Driver).Msg("seed completado")
}

func readCSV(path, encoding, sep string) ([]dto.CreateProductRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := decoderFor(f, encoding)
	if err != nil {
		return nil, err
	}
	comma := ','
	if sep != "" {
		comma = []rune(sep)[0]
	}
	return parseCSV(r, comma)
}

func openGateway(ctx context.Context, cfg *config.Config) (repository.StorageGateway, func(), error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, nil, err
		}
		s := postgres.NewCollectionStore(pool)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return s, pool.Close, nil
	case config.StorageMemory:
		return nil, nil, fmt.Errorf("STORAGE_DRIVER=memory no persiste; use file o postgres")
	default:
		s, err := filestore.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	}
}
