// Package snapshot moves the unified table between the record store and
// external storage: CSV loading, and CSV or JSONL snapshots written to local
// files and S3.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/fidata/internal/store"
)

// Destination is the interface for a snapshot target (file, S3, etc.).
type Destination interface {
	// Write stores the encoded snapshot at the destination.
	Write(ctx context.Context, data []byte) error
	// String names the destination in logs.
	String() string
}

// Snapshotter encodes the store once and writes it to every destination.
type Snapshotter struct {
	destinations []Destination
	format       Format
	logger       *slog.Logger
	now          func() time.Time
}

// NewSnapshotter creates a snapshotter writing format to destinations.
// A nil logger discards.
func NewSnapshotter(destinations []Destination, format Format, logger *slog.Logger) *Snapshotter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Snapshotter{
		destinations: destinations,
		format:       format,
		logger:       logger,
		now:          time.Now,
	}
}

// Save writes the store to every destination and returns the number of
// records written. A store that was never loaded fails with
// store.ErrNotLoaded before anything is written. Failed destinations do not
// stop the others; their errors are joined.
func (s *Snapshotter) Save(ctx context.Context, st *store.Store) (int, error) {
	if !st.Loaded() {
		return 0, fmt.Errorf("save snapshot: %w", store.ErrNotLoaded)
	}
	data, err := Encode(st, s.format, s.now())
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}

	var errs []error
	for _, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("snapshot destination write failed", "destination", dest.String(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", dest, err))
			continue
		}
		s.logger.Info("saved snapshot", "destination", dest.String(), "records", st.Len(), "bytes", len(data))
	}
	return st.Len(), errors.Join(errs...)
}
