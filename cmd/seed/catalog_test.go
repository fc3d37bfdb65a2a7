package main

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCSV_Latin1(t *testing.T) {
	src := "sku;name;category;stock;cost;price;low_stock_threshold\n" +
		"BAT-200AH;Batería 200Ah;Baterías;15;90,50;150;4\n" +
		"SOL-100W;Panel Solar 100W;Paneles;20;50;80;\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(src)
	require.NoError(t, err)

	r, err := decoderFor(bytes.NewReader([]byte(encoded)), "latin1")
	require.NoError(t, err)
	got, err := parseCSV(r, ';')
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "Batería 200Ah", got[0].Name)
	assert.Equal(t, "Baterías", got[0].Category)
	assert.Equal(t, "90.5", got[0].Cost.String())
	require.NotNil(t, got[0].LowStockThreshold)
	assert.Equal(t, 4, *got[0].LowStockThreshold)
	assert.Nil(t, got[1].LowStockThreshold)
	assert.Equal(t, 20, got[1].Stock)
}

func TestParseCSV_Errors(t *testing.T) {
	_, err := parseCSV(strings.NewReader("sku,name\nA,B\n"), ',')
	assert.ErrorContains(t, err, "falta la columna")

	_, err = parseCSV(strings.NewReader("sku,name,category,stock,cost,price\nA,B,C,diez,1,2\n"), ',')
	assert.ErrorContains(t, err, "línea 2")
}

func TestDecoderFor(t *testing.T) {
	r, err := decoderFor(strings.NewReader("\ufeffsku"), "")
	require.NoError(t, err)
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "sku", string(b))

	_, err = decoderFor(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

func TestDefaultCatalog(t *testing.T) {
	cat := defaultCatalog()
	require.Len(t, cat, 3)
	for _, p := range cat {
		assert.NoError(t, p.Spec().Validate(), p.SKU)
	}
}
