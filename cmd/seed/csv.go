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
	"golang.org/x/text/transform"

	"github.com/jhoicas/stocktransfer-api/internal/domain/inventory"
)

// itemRow fila validada del CSV de inventario.
type itemRow struct {
	SKU       string
	Name      string
	Category  string
	Quantity  int
	MinStock  int
	MaxStock  int
	UnitCost  decimal.Decimal
	Warehouse string
}

const csvColumns = 8

// readItems decodifica el CSV (latin1 o utf8). La primera fila es el encabezado.
// Devuelve el primer error con el número de línea.
func readItems(r io.Reader, charset string) ([]itemRow, error) {
	switch strings.ToLower(charset) {
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	case "utf8", "utf-8":
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}

	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = csvColumns
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("encabezado: %w", err)
	}

	var rows []itemRow
	seen := map[string]int{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		row, err := parseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		if prev, dup := seen[row.SKU]; dup {
			return nil, fmt.Errorf("línea %d: SKU %s repetido (línea %d)", line, row.SKU, prev)
		}
		seen[row.SKU] = line
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(rec []string) (itemRow, error) {
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
	}
	row := itemRow{SKU: rec[0], Name: rec[1], Category: rec[2], Warehouse: rec[7]}
	if row.SKU == "" || row.Name == "" || row.Warehouse == "" {
		return row, errors.New("sku, nombre y bodega son obligatorios")
	}

	ints := []struct {
		field string
		raw   string
		dst   *int
	}{
		{"cantidad", rec[3], &row.Quantity},
		{"stock_minimo", rec[4], &row.MinStock},
		{"stock_maximo", rec[5], &row.MaxStock},
	}
	for _, f := range ints {
		if f.raw == "" {
			continue
		}
		n, err := strconv.Atoi(f.raw)
		if err != nil || n < 0 {
			return row, fmt.Errorf("%s inválido: %q", f.field, f.raw)
		}
		*f.dst = n
	}
	if !inventory.ValidThresholds(row.MinStock, row.MaxStock) {
		return row, errors.New("stock_minimo mayor que stock_maximo")
	}

	// Excel en español exporta la coma como separador decimal.
	cost := strings.ReplaceAll(rec[6], ",", ".")
	if cost == "" {
		cost = "0"
	}
	d, err := decimal.NewFromString(cost)
	if err != nil || d.IsNegative() {
		return row, fmt.Errorf("costo_unitario inválido: %q", rec[6])
	}
	row.UnitCost = d
	return row, nil
}
