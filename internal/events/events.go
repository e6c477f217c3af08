package events

import (
	"context"

	"github.com/alfredjeanlab/fidata/internal/model"
)

// Event topic constants
const (
	TopicRecordCreated = "fid.record.created"
	TopicTableLoaded   = "fid.table.loaded"
	TopicSnapshotSaved = "fid.snapshot.saved"
)

// Event types

type RecordCreated struct {
	Record *model.Record `json:"record"`
}

type TableLoaded struct {
	Source   string          `json:"source,omitempty"`
	Records  int             `json:"records"`
	Findings []model.Finding `json:"findings,omitempty"`
}

type SnapshotSaved struct {
	Destination string `json:"destination"`
	Records     int    `json:"records"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// NoopPublisher discards every event. The CLI uses it when no NATS URL is
// configured.
type NoopPublisher struct{}

func (*NoopPublisher) Publish(context.Context, string, any) error { return nil }

func (*NoopPublisher) Close() error { return nil }
