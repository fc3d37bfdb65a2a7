// Package report contiene los cálculos puros de reportes: filtro por período
// (día, semana ISO, mes, año) y agregados de ventas e inventario.
package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// PeriodType granularidad del filtro.
type PeriodType string

const (
	PeriodDay   PeriodType = "day"
	PeriodWeek  PeriodType = "week"
	PeriodMonth PeriodType = "month"
	PeriodYear  PeriodType = "year"
	PeriodAll   PeriodType = "all"
)

var (
	weekRe = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)
	yearRe = regexp.MustCompile(`^\d{4}$`)
)

// Period filtro ya validado.
type Period struct {
	Type  PeriodType
	Value string
}

// ParsePeriod valida tipo y formato del valor: YYYY-MM-DD, YYYY-W##, YYYY-MM o YYYY.
// Tipo vacío equivale a "all".
func ParsePeriod(periodType, value string) (Period, error) {
	t := PeriodType(strings.ToLower(strings.TrimSpace(periodType)))
	value = strings.TrimSpace(value)
	switch t {
	case "", PeriodAll:
		return Period{Type: PeriodAll}, nil
	case PeriodDay:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return Period{}, domain.Invalid("period_value %q no es YYYY-MM-DD", value)
		}
	case PeriodWeek:
		m := weekRe.FindStringSubmatch(value)
		if m == nil {
			return Period{}, domain.Invalid("period_value %q no es YYYY-W##", value)
		}
		year, _ := strconv.Atoi(m[1])
		week, _ := strconv.Atoi(m[2])
		if week < 1 || week > weeksInYear(year) {
			return Period{}, domain.Invalid("period_value %q: semana fuera de rango (01-%02d)", value, weeksInYear(year))
		}
	case PeriodMonth:
		if _, err := time.Parse("2006-01", value); err != nil {
			return Period{}, domain.Invalid("period_value %q no es YYYY-MM", value)
		}
	case PeriodYear:
		if !yearRe.MatchString(value) {
			return Period{}, domain.Invalid("period_value %q no es YYYY", value)
		}
	default:
		return Period{}, domain.Invalid("period_type %q desconocido", periodType)
	}
	return Period{Type: t, Value: value}, nil
}

// Key devuelve la clave de la fecha para el tipo de período (siempre en UTC).
func Key(t PeriodType, date time.Time) string {
	d := date.UTC()
	switch t {
	case PeriodDay:
		return d.Format("2006-01-02")
	case PeriodWeek:
		return ISOWeekKey(d)
	case PeriodMonth:
		return d.Format("2006-01")
	case PeriodYear:
		return d.Format("2006")
	}
	return ""
}

// weeksInYear 52 o 53: el 28 de diciembre siempre cae en la última semana ISO del año.
func weeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// ISOWeekKey YYYY-W## con año-semana ISO-8601 (la semana pertenece al año de su jueves).
func ISOWeekKey(date time.Time) string {
	year, week := date.UTC().ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Contains indica si la fecha cae dentro del período.
func (p Period) Contains(date time.Time) bool {
	if p.Type == PeriodAll {
		return true
	}
	return Key(p.Type, date) == p.Value
}

// Label etiqueta legible del período.
func (p Period) Label() string {
	if p.Type == PeriodAll {
		return "Todo el historial"
	}
	return fmt.Sprintf("%s: %s", p.Type, p.Value)
}

// FilterByPeriod devuelve las ventas dentro del período. "all" no filtra.
func FilterByPeriod(sales []entity.Sale, periodType, periodValue string) ([]entity.Sale, error) {
	p, err := ParsePeriod(periodType, periodValue)
	if err != nil {
		return nil, err
	}
	return p.Filter(sales), nil
}

// Filter aplica el período ya validado.
func (p Period) Filter(sales []entity.Sale) []entity.Sale {
	out := make([]entity.Sale, 0, len(sales))
	for _, s := range sales {
		if p.Contains(s.Date) {
			out = append(out, s)
		}
	}
	return out
}
