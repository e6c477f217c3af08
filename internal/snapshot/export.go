package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/fidata/internal/model"
	"github.com/alfredjeanlab/fidata/internal/store"
)

// Format is a snapshot encoding.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSONL Format = "jsonl"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version     string         `json:"version"`
	Type        string         `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	RecordCount int            `json:"record_count"`
	Columns     []string       `json:"columns"`
	TypeCounts  map[string]int `json:"type_counts,omitempty"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

// ExportJSONL writes every record of st as JSONL to w, in table order. Each
// line carries the record type and the record's non-empty flat columns.
func ExportJSONL(st *store.Store, w io.Writer, now time.Time) error {
	tbl, err := st.Table()
	if err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, row := range tbl.Rows {
		counts[row[model.ColRecordType]]++
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	// Write header.
	if err := enc.Encode(header{
		Version:     "1",
		Type:        "header",
		Timestamp:   now.UTC(),
		RecordCount: tbl.Len(),
		Columns:     tbl.Columns,
		TypeCounts:  counts,
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	// Write records.
	for _, row := range tbl.Rows {
		if err := enc.Encode(record{Type: row[model.ColRecordType], Data: row}); err != nil {
			return fmt.Errorf("encode record %s: %w", row[model.ColRecordID], err)
		}
	}

	return nil
}

// Encode renders st in the given format.
func Encode(st *store.Store, format Format, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSONL:
		if err := ExportJSONL(st, &buf, now); err != nil {
			return nil, err
		}
	case FormatCSV, "":
		tbl, err := st.Table()
		if err != nil {
			return nil, err
		}
		if err := WriteCSV(&buf, tbl); err != nil {
			return nil, fmt.Errorf("encode csv: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown snapshot format %q", format)
	}
	return buf.Bytes(), nil
}
