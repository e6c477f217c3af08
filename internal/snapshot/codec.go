package snapshot

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alfredjeanlab/fidata/internal/catalog"
	"github.com/alfredjeanlab/fidata/internal/table"
)

// Reference table columns.
const (
	colField       = "field"
	colCode        = "code"
	colDescription = "description"
)

// ReadCSV decodes a header-first CSV table. Short rows are padded with empty
// cells; cells past the header are dropped.
func ReadCSV(r io.Reader) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return table.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	tbl := table.New(header...)
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}
		row := make(table.Row, len(header))
		for i, col := range header {
			if i < len(rec) && col != "" && rec[i] != "" {
				row[col] = rec[i]
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}

// WriteCSV encodes tbl as a header-first CSV table.
func WriteCSV(w io.Writer, tbl *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(tbl.Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range tbl.Rows {
		if err := cw.Write(tbl.Record(i)); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCatalog decodes a reference table of (field, code[, description])
// rows into catalog entries.
func ReadCatalog(r io.Reader) ([]catalog.Entry, error) {
	tbl, err := ReadCSV(r)
	if err != nil {
		return nil, err
	}
	if tbl.Len() > 0 && (!tbl.HasColumn(colField) || !tbl.HasColumn(colCode)) {
		return nil, fmt.Errorf("reference table needs %q and %q columns, got %v", colField, colCode, tbl.Columns)
	}
	entries := make([]catalog.Entry, 0, tbl.Len())
	for _, row := range tbl.Rows {
		entries = append(entries, catalog.Entry{
			Field:       row[colField],
			Code:        row[colCode],
			Description: row[colDescription],
		})
	}
	return entries, nil
}
