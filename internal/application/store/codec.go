package store

import (
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func encodeAll[T any](items []T) ([]json.RawMessage, error) {
	out := make([]json.RawMessage, 0, len(items))
	for i := range items {
		b, err := json.Marshal(items[i])
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

func decodeAll[T any](name repository.Collection, records []json.RawMessage) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, r := range records {
		var v T
		if err := json.Unmarshal(r, &v); err != nil {
			return nil, fmt.Errorf("decodificar %s[%d]: %w", name, i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// encodeBatch serializa solo las colecciones tocadas por la unidad de trabajo.
func encodeBatch(st *state, touched map[repository.Collection]bool) (map[repository.Collection][]json.RawMessage, error) {
	batch := make(map[repository.Collection][]json.RawMessage, len(touched))
	for name := range touched {
		var (
			records []json.RawMessage
			err     error
		)
		switch name {
		case repository.CollectionProducts:
			records, err = encodeAll(st.productList())
		case repository.CollectionMovements:
			records, err = encodeAll(st.movements)
		case repository.CollectionSales:
			records, err = encodeAll(st.sales)
		case repository.CollectionSettings:
			records, err = encodeAll([]entity.Settings{st.settings})
		}
		if err != nil {
			return nil, fmt.Errorf("serializar %s: %w", name, err)
		}
		batch[name] = records
	}
	return batch, nil
}
