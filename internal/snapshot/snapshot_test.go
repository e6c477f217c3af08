package snapshot

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/fidata/internal/model"
	"github.com/alfredjeanlab/fidata/internal/store"
)

type failingDestination struct{}

func (failingDestination) Write(context.Context, []byte) error {
	return errors.New("disk full")
}

func (failingDestination) String() string { return "failing" }

type memDestination struct{ data []byte }

func (d *memDestination) Write(_ context.Context, data []byte) error {
	d.data = append([]byte(nil), data...)
	return nil
}
func (d *memDestination) String() string { return "mem" }

func TestSave_NotLoaded(t *testing.T) {
	s := NewSnapshotter([]Destination{&memDestination{}}, FormatCSV, nil)
	_, err := s.Save(context.Background(), store.New())
	if !errors.Is(err, store.ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	data := filepath.Join(dir, "raw", "unified.csv")
	ref := filepath.Join(dir, "raw", "reference.csv")
	out := filepath.Join(dir, "processed", "enriched.csv")

	writeFile(t, data, sampleCSV)
	writeFile(t, ref, sampleReference)

	st := store.New()
	NewLoader(data, ref, nil).Load(ctx, st)

	id, err := st.AddObservation(ctx, store.ObservationInput{
		Pillar:          "USAGE",
		Indicator:       "Mobile money accounts",
		IndicatorCode:   "USG_MM_ACCOUNTS",
		ValueNumeric:    9.45,
		ObservationDate: time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC),
		SourceName:      "Operator report",
	})
	if err != nil {
		t.Fatalf("AddObservation: %v", err)
	}

	n, err := NewSnapshotter([]Destination{NewFileDestination(out)}, FormatCSV, nil).Save(ctx, st)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if n != 4 {
		t.Fatalf("saved %d records, want 4", n)
	}

	again := store.New()
	NewLoader(out, ref, nil).Load(ctx, again)
	if again.Len() != st.Len() {
		t.Fatalf("reloaded %d records, want %d", again.Len(), st.Len())
	}

	before := st.Records()
	after := again.Records()
	for i := range before {
		want := model.ToRow(before[i])
		got := model.ToRow(after[i])
		for col, v := range want {
			if got[col] != v {
				t.Errorf("record %s: %s = %q, want %q", before[i].ID, col, got[col], v)
			}
		}
		if len(got) != len(want) {
			t.Errorf("record %s: %d columns, want %d", before[i].ID, len(got), len(want))
		}
	}

	added, ok := again.Get(id)
	if !ok {
		t.Fatalf("added record %s missing after reload", id)
	}
	obs, ok := added.Observation()
	if !ok || obs.ValueNumeric == nil || *obs.ValueNumeric != 9.45 {
		t.Fatalf("observation payload = %+v", added.Payload)
	}
}

func TestSave_JoinsDestinationErrors(t *testing.T) {
	st := loadCSV(t, sampleCSV)
	mem := &memDestination{}
	s := NewSnapshotter([]Destination{failingDestination{}, mem}, FormatJSONL, nil)

	n, err := s.Save(context.Background(), st)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected joined destination error, got %v", err)
	}
	if n != 3 {
		t.Fatalf("n = %d, want 3", n)
	}
	if len(nonEmptyLines(string(mem.data))) != 4 {
		t.Fatalf("healthy destination should still receive the snapshot:\n%s", mem.data)
	}
}

func TestFileDestination_CreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	d := NewFileDestination(path)
	if err := d.Write(context.Background(), []byte("x\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "x\n" {
		t.Fatalf("content = %q", got)
	}
	if d.String() != path {
		t.Errorf("String = %q", d.String())
	}
}

func TestLoader_MissingSources(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "nope.csv")
	ref := filepath.Join(dir, "nope-ref.csv")

	st := store.New()
	rep := NewLoader(data, ref, nil).Load(context.Background(), st)

	if !st.Loaded() || st.Len() != 0 {
		t.Fatalf("expected loaded empty store, loaded=%v len=%d", st.Loaded(), st.Len())
	}
	missing := rep.OfKind(model.FindingMissingSource)
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing_source findings, got %v", rep.Findings)
	}
	if missing[0].Field != SourceData || missing[0].Samples[0] != data {
		t.Errorf("first finding = %+v", missing[0])
	}
	if missing[1].Field != SourceReference {
		t.Errorf("second finding = %+v", missing[1])
	}
}

func TestLoader_MissingReferenceKeepsData(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "unified.csv")
	writeFile(t, data, sampleCSV)

	st := store.New()
	rep := NewLoader(data, filepath.Join(dir, "missing.csv"), nil).Load(context.Background(), st)

	if st.Len() != 3 {
		t.Fatalf("len = %d, want 3", st.Len())
	}
	if len(rep.For(SourceReference)) != 1 {
		t.Fatalf("expected reference finding, got %v", rep.Findings)
	}
	if len(rep.OfKind(model.FindingInvalidCode)) != 0 {
		t.Fatalf("empty catalog must not produce invalid_code findings: %v", rep.Findings)
	}
}

func TestLoader_UnreadableData(t *testing.T) {
	dir := t.TempDir()
	data := filepath.Join(dir, "bad.csv")
	writeFile(t, data, "a,b\n\"unterminated,1\n")

	st := store.New()
	rep := NewLoader(data, filepath.Join(dir, "ref.csv"), nil).Load(context.Background(), st)
	if len(rep.OfKind(model.FindingUnreadableSource)) != 1 {
		t.Fatalf("expected unreadable_source finding, got %v", rep.Findings)
	}
	if st.Len() != 0 {
		t.Fatalf("len = %d, want 0", st.Len())
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
