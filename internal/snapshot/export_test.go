package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/fidata/internal/store"
)

func TestExportJSONL_Empty(t *testing.T) {
	st := store.New()
	st.Load(context.Background(), nil, nil)

	var buf bytes.Buffer
	if err := ExportJSONL(st, &buf, time.Now()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.RecordCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_NotLoaded(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSONL(store.New(), &buf, time.Now()); err == nil {
		t.Fatal("expected error for unloaded store")
	}
}

func TestExportJSONL_Records(t *testing.T) {
	st := loadCSV(t, sampleCSV)

	var buf bytes.Buffer
	if err := ExportJSONL(st, &buf, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	// 1 header + 3 records
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.RecordCount != 3 {
		t.Fatalf("record_count = %d, want 3", h.RecordCount)
	}
	if h.TypeCounts["observation"] != 1 || h.TypeCounts["event"] != 1 || h.TypeCounts["impact_link"] != 1 {
		t.Fatalf("type_counts = %v", h.TypeCounts)
	}

	// Records keep table order.
	wantIDs := []string{"REC_0001", "EVT_0001", "IMP_0001"}
	for i, want := range wantIDs {
		var rec record
		if err := json.Unmarshal([]byte(lines[i+1]), &rec); err != nil {
			t.Fatalf("unmarshal line %d: %v", i+1, err)
		}
		if got := rec.Data["record_id"]; got != want {
			t.Errorf("line %d record_id = %q, want %q", i+1, got, want)
		}
		if rec.Type != rec.Data["record_type"] {
			t.Errorf("line %d type %q does not match record_type %q", i+1, rec.Type, rec.Data["record_type"])
		}
	}
}

func TestEncode_UnknownFormat(t *testing.T) {
	st := loadCSV(t, sampleCSV)
	if _, err := Encode(st, Format("xml"), time.Now()); err == nil {
		t.Fatal("expected error for unknown format")
	}
}

func nonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
