package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alfredjeanlab/fidata/internal/events"
	"github.com/alfredjeanlab/fidata/internal/ui"
)

func TestWatch_PrintsUntilClosed(t *testing.T) {
	ui.SetColor(false)
	ch := make(chan events.Message, 3)
	ch <- events.Message{Topic: events.TopicRecordCreated, Data: []byte(`{"record":{"record_id":"evt_20250101_000000","record_type":"event","indicator_code":"EVENT_POLICY"}}`)}
	ch <- events.Message{Topic: events.TopicSnapshotSaved, Data: []byte(`{"destination":"out.csv","records":12}`)}
	ch <- events.Message{Topic: "fid.other", Data: []byte(`{"x":1}`)}
	close(ch)

	var out bytes.Buffer
	if err := (&app{}).watch(context.Background(), &out, ch); err != nil {
		t.Fatalf("watch: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", out.String())
	}
	for i, want := range []string{
		"fid.record.created  event evt_20250101_000000 EVENT_POLICY",
		"fid.snapshot.saved  12 records to out.csv",
		`fid.other  {"x":1}`,
	} {
		if !strings.HasSuffix(lines[i], want) {
			t.Errorf("line %d = %q, want suffix %q", i, lines[i], want)
		}
	}
}

func TestWatch_JSON(t *testing.T) {
	ch := make(chan events.Message, 1)
	ch <- events.Message{Topic: events.TopicTableLoaded, Data: []byte(`{"records":4}`)}
	close(ch)

	var out bytes.Buffer
	if err := (&app{jsonOutput: true}).watch(context.Background(), &out, ch); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out.String()); got != `{"topic":"fid.table.loaded","event":{"records":4}}` {
		t.Errorf("output = %s", got)
	}
}

func TestWatch_RequiresNATS(t *testing.T) {
	f := newFixture(t, testData)
	if _, err := f.run(t, "watch"); err == nil || !strings.Contains(err.Error(), "FID_NATS_URL") {
		t.Fatalf("expected NATS URL error, got %v", err)
	}
}
