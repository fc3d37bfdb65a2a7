// Package filestore implementa repository.StorageGateway con un archivo JSON por
// colección dentro de un directorio (products.json, movements.json, sales.json,
// settings.json). settings.json guarda un objeto, el resto un arreglo.
package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StorageGateway = (*Store)(nil)

// Store persiste en dir. Las escrituras van a un temporal y luego se renombran,
// de modo que un archivo nunca queda a medio escribir.
type Store struct {
	mu  sync.Mutex
	dir string
}

// New crea dir si no existe.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de datos %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Dir directorio de datos.
func (s *Store) Dir() string { return s.dir }

func (s *Store) path(name repository.Collection) string {
	return filepath.Join(s.dir, string(name)+".json")
}

// Load lee la colección; un archivo inexistente es una colección vacía.
func (s *Store) Load(ctx context.Context, name repository.Collection) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	raw, err := os.ReadFile(s.path(name))
	s.mu.Unlock()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []json.RawMessage{}, nil
		}
		return nil, fmt.Errorf("leer %s: %w", name, err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []json.RawMessage{}, nil
	}
	if raw[0] == '{' {
		return []json.RawMessage{json.RawMessage(raw)}, nil
	}
	var records []json.RawMessage
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decodificar %s: %w", name, err)
	}
	return records, nil
}

// Save reemplaza una colección.
func (s *Store) Save(ctx context.Context, name repository.Collection, records []json.RawMessage) error {
	return s.SaveBatch(ctx, map[repository.Collection][]json.RawMessage{name: records})
}

// SaveBatch serializa todas las colecciones a temporales y solo si todas se
// escribieron las renombra sobre los archivos definitivos.
func (s *Store) SaveBatch(ctx context.Context, batch map[repository.Collection][]json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	names := make([]string, 0, len(batch))
	for name := range batch {
		names = append(names, string(name))
	}
	sort.Strings(names)

	s.mu.Lock()
	defer s.mu.Unlock()

	temps := make(map[string]string, len(names))
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}
	for _, name := range names {
		col := repository.Collection(name)
		payload, err := encode(col, batch[col])
		if err != nil {
			cleanup()
			return err
		}
		tmp, err := s.writeTemp(col, payload)
		if err != nil {
			cleanup()
			return err
		}
		temps[name] = tmp
	}
	for _, name := range names {
		if err := os.Rename(temps[name], s.path(repository.Collection(name))); err != nil {
			cleanup()
			return fmt.Errorf("reemplazar %s: %w", name, err)
		}
		delete(temps, name)
	}
	return nil
}

func encode(name repository.Collection, records []json.RawMessage) ([]byte, error) {
	var v any = records
	if records == nil {
		v = []json.RawMessage{}
	}
	if name == repository.CollectionSettings && len(records) == 1 {
		v = records[0]
	}
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializar %s: %w", name, err)
	}
	return payload, nil
}

func (s *Store) writeTemp(name repository.Collection, payload []byte) (string, error) {
	f, err := os.CreateTemp(s.dir, "."+string(name)+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("crear temporal de %s: %w", name, err)
	}
	if _, err := f.Write(payload); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("escribir %s: %w", name, err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("sincronizar %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("cerrar %s: %w", name, err)
	}
	return f.Name(), nil
}
