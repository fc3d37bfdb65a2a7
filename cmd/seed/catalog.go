package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
)

// defaultCatalog catálogo solar de demostración.
func defaultCatalog() []dto.CreateProductRequest {
	return []dto.CreateProductRequest{
		{
			SKU: "SOL-100W", Name: "Panel Solar 100W", Category: "Paneles",
			Description: "Panel monocristalino de 100W",
			Stock:       20, Cost: decimal.NewFromInt(50), Price: decimal.NewFromInt(80),
		},
		{
			SKU: "INV-1KW", Name: "Inversor 1kW", Category: "Inversores",
			Description: "Inversor de onda pura 1000W",
			Stock:       10, Cost: decimal.NewFromInt(120), Price: decimal.NewFromInt(200),
		},
		{
			SKU: "BAT-200AH", Name: "Batería 200Ah", Category: "Baterías",
			Description: "Batería de ciclo profundo 12V 200Ah",
			Stock:       15, Cost: decimal.NewFromInt(90), Price: decimal.NewFromInt(150),
		},
	}
}

// csvColumns encabezado esperado (en cualquier orden); description y thresholds son opcionales.
var csvColumns = []string{"sku", "name", "category", "stock", "cost", "price"}

// decoderFor envuelve r según la codificación del archivo (utf-8 o latin1).
func decoderFor(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())), nil
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación %q no soportada", encoding)
}

// parseCSV lee productos desde CSV con encabezado. Acepta ',' o ';' como separador.
func parseCSV(r io.Reader, sep rune) ([]dto.CreateProductRequest, error) {
	cr := csv.NewReader(r)
	cr.Comma = sep
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range csvColumns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}

	get := func(rec []string, col string) string {
		i, ok := idx[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var out []dto.CreateProductRequest
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		stock, err := strconv.Atoi(get(rec, "stock"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: stock inválido %q", line, get(rec, "stock"))
		}
		cost, err := parseMoney(get(rec, "cost"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: cost: %w", line, err)
		}
		price, err := parseMoney(get(rec, "price"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: price: %w", line, err)
		}
		req := dto.CreateProductRequest{
			SKU:         get(rec, "sku"),
			Name:        get(rec, "name"),
			Category:    get(rec, "category"),
			Description: get(rec, "description"),
			Stock:       stock,
			Cost:        cost,
			Price:       price,
		}
		if req.LowStockThreshold, err = optionalInt(get(rec, "low_stock_threshold")); err != nil {
			return nil, fmt.Errorf("línea %d: low_stock_threshold: %w", line, err)
		}
		if req.CriticalStockThreshold, err = optionalInt(get(rec, "critical_stock_threshold")); err != nil {
			return nil, fmt.Errorf("línea %d: critical_stock_threshold: %w", line, err)
		}
		out = append(out, req)
	}
	return out, nil
}

// parseMoney acepta "1234.50" y "1234,50".
func parseMoney(s string) (decimal.Decimal, error) {
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

func optionalInt(s string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
