package stock

import (
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Next calcula el stock resultante de aplicar un movimiento.
// adjust fija el valor absoluto; add/remove suman o restan.
// Retorna *domain.InsufficientStockError si el resultado sería negativo.
func Next(productID string, current int, kind entity.MovementType, qty int) (int, error) {
	var next int
	switch kind {
	case entity.MovementAdd:
		if qty <= 0 {
			return current, domain.Invalid("quantity debe ser mayor que cero")
		}
		next = current + qty
	case entity.MovementRemove:
		if qty <= 0 {
			return current, domain.Invalid("quantity debe ser mayor que cero")
		}
		next = current - qty
	case entity.MovementAdjust:
		if qty < 0 {
			return current, domain.Invalid("quantity de ajuste no puede ser negativa")
		}
		next = qty
	default:
		return current, domain.Invalid("tipo de movimiento desconocido %q", kind)
	}
	if next < 0 {
		return current, &domain.InsufficientStockError{ProductID: productID, Available: current, Requested: qty}
	}
	return next, nil
}

// SortChronological ordena por fecha ascendente; a igual fecha por ID (orden de registro).
func SortChronological(movs []entity.Movement) {
	sort.SliceStable(movs, func(i, j int) bool {
		if movs[i].Date.Equal(movs[j].Date) {
			return movs[i].ID < movs[j].ID
		}
		return movs[i].Date.Before(movs[j].Date)
	})
}

// Replay reproduce los movimientos en orden cronológico partiendo de initial.
// No valida negativos: el historial ya fue validado al registrarse.
func Replay(initial int, movs []entity.Movement) int {
	ordered := make([]entity.Movement, len(movs))
	copy(ordered, movs)
	SortChronological(ordered)
	current := initial
	for _, m := range ordered {
		switch m.Type {
		case entity.MovementAdd:
			current += m.Quantity
		case entity.MovementRemove:
			current -= m.Quantity
		case entity.MovementAdjust:
			current = m.Quantity
		}
	}
	return current
}

// NetEffect efecto acumulado de los movimientos sobre initial (Replay - initial).
func NetEffect(initial int, movs []entity.Movement) int {
	return Replay(initial, movs) - initial
}

// DeriveInitial calcula un stock inicial desde el cual el historial reproduce current
// sin pasar por valores negativos. Retorna false si no existe ninguno.
func DeriveInitial(current int, movs []entity.Movement) (int, bool) {
	ordered := make([]entity.Movement, len(movs))
	copy(ordered, movs)
	SortChronological(ordered)

	// El tramo anterior al primer ajuste exige un inicial mínimo para no ser negativo.
	running, lowest := 0, 0
	firstAdjust := -1
	for i, m := range ordered {
		if m.Type == entity.MovementAdjust {
			firstAdjust = i
			break
		}
		running += signed(m)
		if running < lowest {
			lowest = running
		}
	}

	var initial int
	if firstAdjust < 0 {
		initial = current - running
	} else {
		initial = -lowest
	}
	if initial < 0 || !nonNegativePath(initial, ordered) || Replay(initial, ordered) != current {
		return 0, false
	}
	return initial, true
}

// Consistent indica si initial reproduce current sin valores negativos intermedios.
func Consistent(initial, current int, movs []entity.Movement) bool {
	ordered := make([]entity.Movement, len(movs))
	copy(ordered, movs)
	SortChronological(ordered)
	return initial >= 0 && nonNegativePath(initial, ordered) && Replay(initial, ordered) == current
}

func signed(m entity.Movement) int {
	if m.Type == entity.MovementRemove {
		return -m.Quantity
	}
	return m.Quantity
}

func nonNegativePath(initial int, ordered []entity.Movement) bool {
	cur := initial
	for _, m := range ordered {
		switch m.Type {
		case entity.MovementAdjust:
			cur = m.Quantity
		default:
			cur += signed(m)
		}
		if cur < 0 {
			return false
		}
	}
	return true
}
