// Package csvimport convierte archivos CSV de catálogo en filas de importación.
//
// Encabezados reconocidos (en cualquier orden): code, name, description, category, supplier,
// unit_price, minimum_stock, maximum_stock, current_stock. code y name son obligatorios.
package csvimport

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

// Codificaciones aceptadas.
const (
	EncodingUTF8   = "utf-8"
	EncodingLatin1 = "latin1"
)

var requiredColumns = []string{"code", "name"}

// ErrMissingColumns el encabezado no trae las columnas obligatorias.
var ErrMissingColumns = errors.New("el CSV debe incluir las columnas code y name")

// Decoder envuelve r para que entregue UTF-8. Acepta "utf-8" (con o sin BOM) y "latin1"/"iso-8859-1".
func Decoder(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case "", EncodingUTF8, "utf8":
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	case EncodingLatin1, "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	}
	return nil, fmt.Errorf("codificación no soportada: %q", encoding)
}

// ReadRows lee todas las filas. Las filas mal formadas se devuelven como errores "Fila N: ..."
// y no detienen la lectura; cada fila válida lleva su número de línea en Line.
func ReadRows(r io.Reader, encoding string) ([]dto.ImportRowRequest, []string, error) {
	decoded, err := Decoder(r, encoding)
	if err != nil {
		return nil, nil, err
	}
	cr := csv.NewReader(decoded)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("leer encabezado: %w", err)
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, ErrMissingColumns
		}
	}

	var (
		rows []dto.ImportRowRequest
		errs []string
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				errs = append(errs, fmt.Sprintf("Fila %d: %v", perr.StartLine, perr.Err))
				continue
			}
			return rows, errs, fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		row, err := parseRecord(record, index)
		if err != nil {
			errs = append(errs, fmt.Sprintf("Fila %d: %v", line, err))
			continue
		}
		row.Line = line
		rows = append(rows, row)
	}
	return rows, errs, nil
}

func parseRecord(record []string, index map[string]int) (dto.ImportRowRequest, error) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	row := dto.ImportRowRequest{
		Code:        get("code"),
		Name:        get("name"),
		Description: get("description"),
		CategoryID:  get("category"),
		SupplierID:  get("supplier"),
	}
	if raw := get("unit_price"); raw != "" {
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return row, fmt.Errorf("unit_price inválido %q", raw)
		}
		row.UnitPrice = price
	}
	var err error
	if row.Minimum, err = optionalInt(get("minimum_stock"), "minimum_stock"); err != nil {
		return row, err
	}
	if row.Maximum, err = optionalInt(get("maximum_stock"), "maximum_stock"); err != nil {
		return row, err
	}
	if row.Balance, err = optionalInt(get("current_stock"), "current_stock"); err != nil {
		return row, err
	}
	return row, nil
}

func optionalInt(raw, col string) (*int64, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s inválido %q", col, raw)
	}
	return &n, nil
}
