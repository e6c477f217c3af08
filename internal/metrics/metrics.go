// Package metrics counts what a run loaded, found and added, for export in
// the Prometheus textfile-collector format.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alfredjeanlab/fidata/internal/model"
)

// Metrics provides observability for one load/mutate/save run.
// All methods are safe on a nil receiver.
type Metrics struct {
	reg *prometheus.Registry

	// Records ingested by record type
	RecordsLoaded *prometheus.CounterVec

	// Validation findings (affected rows) by kind and field
	Findings *prometheus.CounterVec

	// Records appended through the mutation API by record type
	RecordsAdded *prometheus.CounterVec

	// Rows in the table at the last save
	SnapshotRecords prometheus.Gauge
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		RecordsLoaded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fid_records_loaded_total",
			Help: "Records ingested from the input table by record type",
		}, []string{"record_type"}),

		Findings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fid_validation_findings_total",
			Help: "Rows affected by validation findings by kind and field",
		}, []string{"kind", "field"}),

		RecordsAdded: f.NewCounterVec(prometheus.CounterOpts{
			Name: "fid_records_added_total",
			Help: "Records appended through the mutation API by record type",
		}, []string{"record_type"}),

		SnapshotRecords: f.NewGauge(prometheus.GaugeOpts{
			Name: "fid_snapshot_records",
			Help: "Rows written by the last snapshot save",
		}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// ObserveLoaded records one ingested record.
func (m *Metrics) ObserveLoaded(t model.RecordType) {
	if m != nil {
		m.RecordsLoaded.WithLabelValues(labelOrNone(string(t))).Inc()
	}
}

// ObserveReport adds the row counts of every finding in r.
func (m *Metrics) ObserveReport(r *model.Report) {
	if m == nil || r == nil {
		return
	}
	for _, f := range r.Findings {
		n := f.Count
		if n == 0 {
			n = 1
		}
		m.Findings.WithLabelValues(string(f.Kind), f.Field).Add(float64(n))
	}
}

// ObserveAdded records one record created through the mutation API.
func (m *Metrics) ObserveAdded(t model.RecordType) {
	if m != nil {
		m.RecordsAdded.WithLabelValues(string(t)).Inc()
	}
}

// ObserveSaved records the row count of a saved snapshot.
func (m *Metrics) ObserveSaved(rows int) {
	if m != nil {
		m.SnapshotRecords.Set(float64(rows))
	}
}

// WriteTextfile writes the registry to path, creating parent directories.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.reg); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

func labelOrNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
