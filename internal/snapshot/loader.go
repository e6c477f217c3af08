package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alfredjeanlab/fidata/internal/catalog"
	"github.com/alfredjeanlab/fidata/internal/model"
	"github.com/alfredjeanlab/fidata/internal/store"
	"github.com/alfredjeanlab/fidata/internal/table"
)

// ErrSourceMissing reports that an input file does not exist.
var ErrSourceMissing = errors.New("source file missing")

// Source field names used on missing-source findings.
const (
	SourceData      = "data"
	SourceReference = "reference"
)

// Loader reads the unified table and the reference catalog from disk into a
// store.
type Loader struct {
	dataPath      string
	referencePath string
	logger        *slog.Logger
}

// NewLoader creates a loader for the given file paths. A nil logger discards.
func NewLoader(dataPath, referencePath string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{dataPath: dataPath, referencePath: referencePath, logger: logger}
}

// Load reads both files and loads them into st. A missing or unreadable file
// is reported as a finding and replaced by an empty table or catalog, so the
// store is always left loaded and queryable.
func (l *Loader) Load(ctx context.Context, st *store.Store) model.Report {
	var sources []model.Finding

	l.logger.Info("loading data", "path", l.dataPath)
	tbl, err := readFile(l.dataPath, ReadCSV)
	if err != nil {
		l.logger.Error("main data unavailable", "path", l.dataPath, "error", err)
		sources = append(sources, sourceFinding(SourceData, l.dataPath, err))
		tbl = table.New()
	} else {
		l.logger.Info("loaded main dataset", "records", tbl.Len())
	}

	entries, err := readFile(l.referencePath, ReadCatalog)
	if err != nil {
		l.logger.Error("reference codes unavailable", "path", l.referencePath, "error", err)
		sources = append(sources, sourceFinding(SourceReference, l.referencePath, err))
		entries = nil
	} else {
		l.logger.Info("loaded reference codes", "records", len(entries))
	}

	rep := st.Load(ctx, tbl, catalog.New(entries))
	rep.Findings = append(sources, rep.Findings...)
	return rep
}

func readFile[T any](path string, decode func(io.Reader) (T, error)) (T, error) {
	var zero T
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return zero, fmt.Errorf("%w: %s", ErrSourceMissing, path)
	}
	if err != nil {
		return zero, err
	}
	defer f.Close()
	v, err := decode(f)
	if err != nil {
		return zero, fmt.Errorf("decode %s: %w", path, err)
	}
	return v, nil
}

func sourceFinding(field, path string, err error) model.Finding {
	kind := model.FindingUnreadableSource
	if errors.Is(err, ErrSourceMissing) {
		kind = model.FindingMissingSource
	}
	return model.Finding{Kind: kind, Field: field, Samples: []string{path}}
}
