// Package store holds the unified record table in memory: it validates and
// normalizes the table on load and appends typed records through the
// mutation API. A Store is owned by one goroutine; it does no locking.
package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/fidata/internal/catalog"
	"github.com/alfredjeanlab/fidata/internal/events"
	"github.com/alfredjeanlab/fidata/internal/metrics"
	"github.com/alfredjeanlab/fidata/internal/model"
	"github.com/alfredjeanlab/fidata/internal/table"
)

// ErrNotLoaded is returned by operations that need a loaded table.
var ErrNotLoaded = errors.New("store: no table loaded")

// Store is the unified record table.
type Store struct {
	columns []string
	records []*model.Record
	ids     map[string]struct{}
	catalog *catalog.Catalog
	loaded  bool
	report  model.Report

	logger    *slog.Logger
	publisher events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
	strict    bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger validation findings and mutations are logged to.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithPublisher sets the publisher mutation and load events go to.
func WithPublisher(p events.Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithMetrics sets the run metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithClock sets the time source for generated ids and default collection dates.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithStrict makes the mutation API reject records that fail catalog,
// enum or parent checks instead of accepting them.
func WithStrict() Option {
	return func(s *Store) { s.strict = true }
}

// New returns an empty, not yet loaded store.
func New(opts ...Option) *Store {
	s := &Store{
		ids:       make(map[string]struct{}),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		publisher: &events.NoopPublisher{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the store content with tbl, validates it against cat and
// returns the findings. A nil tbl loads an empty table. Findings never fail
// the load.
func (s *Store) Load(ctx context.Context, tbl *table.Table, cat *catalog.Catalog) model.Report {
	s.loaded = true
	s.catalog = cat
	s.columns = nil
	s.records = nil
	s.ids = make(map[string]struct{})
	if tbl != nil {
		s.columns = append(s.columns, tbl.Columns...)
	}

	var cells model.Tally
	for _, row := range tbl.AllRows() {
		r, issues := model.FromRow(row)
		for _, is := range issues {
			cells.Add(is.Kind, is.Column, is.Value)
		}
		s.records = append(s.records, r)
		if r.ID != "" {
			s.ids[r.ID] = struct{}{}
		}
		s.metrics.ObserveLoaded(r.Type)
	}

	s.report = model.Report{}
	if len(s.records) > 0 {
		s.report = s.validate(cells.Findings())
	}
	s.logReport(&s.report)
	s.metrics.ObserveReport(&s.report)
	s.logger.Info("loaded table", "records", len(s.records), "impact_links", len(s.ImpactLinks()))
	s.publish(ctx, events.TopicTableLoaded, "", events.TableLoaded{
		Records:  len(s.records),
		Findings: s.report.Findings,
	})
	return s.report
}

// Loaded reports whether Load has been called.
func (s *Store) Loaded() bool {
	return s.loaded
}

// Report returns the findings of the last validation pass.
func (s *Store) Report() model.Report {
	return s.report
}

// Catalog returns the reference catalog the table was loaded with.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns the records in insertion order. The slice is a copy; the
// records are shared and must not be modified.
func (s *Store) Records() []*model.Record {
	return append([]*model.Record(nil), s.records...)
}

// Get returns the record with the given id.
func (s *Store) Get(id string) (*model.Record, bool) {
	if _, ok := s.ids[id]; !ok {
		return nil, false
	}
	for _, r := range s.records {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// Columns returns the table header: the loaded columns followed by any
// columns appended records introduced.
func (s *Store) Columns() []string {
	return append([]string(nil), s.columns...)
}

// HasColumn reports whether col is part of the table header.
func (s *Store) HasColumn(col string) bool {
	for _, c := range s.columns {
		if c == col {
			return true
		}
	}
	return false
}

// ImpactLinks returns the impact link working set: every record carrying a
// non-empty impact direction, in table order.
func (s *Store) ImpactLinks() []*model.Record {
	if !s.HasColumn(model.ColImpactDirection) {
		return nil
	}
	var out []*model.Record
	for _, r := range s.records {
		if r.ImpactDirectionValue() != "" {
			out = append(out, r)
		}
	}
	return out
}

// Table flattens the store into the sparse tabular form, keeping the header
// order.
func (s *Store) Table() (*table.Table, error) {
	if !s.loaded {
		return nil, ErrNotLoaded
	}
	tbl := table.New(s.columns...)
	for _, r := range s.records {
		tbl.Append(table.Row(model.ToRow(r)), model.KnownColumns())
	}
	return tbl, nil
}

func (s *Store) publish(ctx context.Context, topic, recordID string, event any) {
	if err := s.publisher.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "record_id", recordID, "error", err)
	}
}
