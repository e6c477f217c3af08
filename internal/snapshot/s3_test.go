package snapshot

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alfredjeanlab/fidata/internal/config"
)

func TestObjectKey(t *testing.T) {
	for _, tc := range []struct {
		key    string
		format Format
		want   string
	}{
		{"fid/enriched.csv", FormatCSV, "fid/enriched.csv"},
		{"fid/enriched.csv", FormatJSONL, "fid/enriched.jsonl"},
		{"fid/enriched.jsonl", FormatCSV, "fid/enriched.csv"},
		{"fid/enriched", FormatJSONL, "fid/enriched"},
		{"fid/enriched.txt", FormatJSONL, "fid/enriched.txt"},
	} {
		if got := objectKey(tc.key, tc.format); got != tc.want {
			t.Errorf("objectKey(%q, %s) = %q, want %q", tc.key, tc.format, got, tc.want)
		}
	}
}

func TestNewS3Destination_RequiresBucket(t *testing.T) {
	if _, err := NewS3Destination(context.Background(), config.S3Config{}, FormatCSV); err == nil {
		t.Fatal("expected error without a bucket")
	}
}

func TestS3Destination_Write(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "none")
	t.Setenv("AWS_CONFIG_FILE", missing)
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", missing)
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	var (
		mu        sync.Mutex
		gotPath   string
		gotType   string
		gotBody   []byte
		gotMethod string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		gotMethod, gotPath, gotType, gotBody = r.Method, r.URL.Path, r.Header.Get("Content-Type"), body
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	dest, err := NewS3Destination(context.Background(), config.S3Config{
		Bucket:   "snapshots",
		Key:      "fid/enriched.csv",
		Region:   "us-east-1",
		Endpoint: srv.URL,
	}, FormatJSONL)
	if err != nil {
		t.Fatalf("NewS3Destination: %v", err)
	}
	if dest.String() != "s3://snapshots/fid/enriched.jsonl" {
		t.Errorf("String() = %q", dest.String())
	}
	if err := dest.Write(context.Background(), []byte("{\"type\":\"header\"}\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotMethod != http.MethodPut || gotPath != "/snapshots/fid/enriched.jsonl" {
		t.Errorf("request = %s %s, want a path-style PUT", gotMethod, gotPath)
	}
	if gotType != "application/x-ndjson" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if len(gotBody) == 0 {
		t.Error("empty upload body")
	}
}
