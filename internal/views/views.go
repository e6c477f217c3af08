// Package views computes read-only projections over the unified record
// table. Every view filters by record type, never by field presence, and
// none modifies the records it reads.
package views

import (
	"sort"
	"strconv"
	"time"

	"github.com/alfredjeanlab/fidata/internal/model"
)

// Source is the read side of the record store.
type Source interface {
	Records() []*model.Record
	HasColumn(col string) bool
}

// MaxCoverageSources bounds the source names listed per coverage row.
const MaxCoverageSources = 5

// TypeStats counts records per record type.
type TypeStats struct {
	Counts       map[model.RecordType]int `json:"counts,omitempty" yaml:"counts,omitempty"`
	TotalRecords int                      `json:"total_records" yaml:"total_records"`
}

// RecordTypeStats counts records per record type. Records without a type
// count toward the total only. An empty source yields the zero value.
func RecordTypeStats(src Source) TypeStats {
	records := src.Records()
	if len(records) == 0 {
		return TypeStats{}
	}
	stats := TypeStats{Counts: make(map[model.RecordType]int), TotalRecords: len(records)}
	for _, r := range records {
		if r.Type != "" {
			stats.Counts[r.Type]++
		}
	}
	return stats
}

// Coverage is the temporal coverage of one indicator.
type Coverage struct {
	IndicatorCode string           `json:"indicator_code" yaml:"indicator_code"`
	FirstDate     *time.Time       `json:"first_date,omitempty" yaml:"first_date,omitempty"`
	LastDate      *time.Time       `json:"last_date,omitempty" yaml:"last_date,omitempty"`
	Count         int              `json:"count" yaml:"count"`
	Sources       []string         `json:"sources,omitempty" yaml:"sources,omitempty"`
	Confidence    model.Confidence `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// TemporalCoverage groups observations by indicator code, ordered by code.
// Count is the number of dated observations. Confidence is the modal value;
// ties go to the lexicographically first value. Without observations or an
// observation_date column the result is empty.
func TemporalCoverage(src Source) []Coverage {
	if !src.HasColumn(model.ColObservationDate) {
		return nil
	}
	type group struct {
		cov        Coverage
		seen       map[string]bool
		confidence map[model.Confidence]int
	}
	groups := make(map[string]*group)
	var codes []string
	for _, r := range src.Records() {
		obs, ok := r.Observation()
		if !ok {
			continue
		}
		g, found := groups[r.IndicatorCode]
		if !found {
			g = &group{
				cov:        Coverage{IndicatorCode: r.IndicatorCode},
				seen:       make(map[string]bool),
				confidence: make(map[model.Confidence]int),
			}
			groups[r.IndicatorCode] = g
			codes = append(codes, r.IndicatorCode)
		}
		if d := obs.ObservationDate; d != nil {
			g.cov.Count++
			if g.cov.FirstDate == nil || d.Before(*g.cov.FirstDate) {
				g.cov.FirstDate = d
			}
			if g.cov.LastDate == nil || d.After(*g.cov.LastDate) {
				g.cov.LastDate = d
			}
		}
		if r.SourceName != "" && !g.seen[r.SourceName] && len(g.cov.Sources) < MaxCoverageSources {
			g.seen[r.SourceName] = true
			g.cov.Sources = append(g.cov.Sources, r.SourceName)
		}
		if r.Confidence != "" {
			g.confidence[r.Confidence]++
		}
	}

	sort.Strings(codes)
	out := make([]Coverage, 0, len(codes))
	for _, code := range codes {
		g := groups[code]
		g.cov.Confidence = mode(g.confidence)
		out = append(out, g.cov)
	}
	return out
}

func mode(counts map[model.Confidence]int) model.Confidence {
	var best model.Confidence
	bestN := 0
	for c, n := range counts {
		if n > bestN || (n == bestN && c < best) {
			best, bestN = c, n
		}
	}
	return best
}

// TimelineEntry is one event on the timeline.
type TimelineEntry struct {
	RecordID   string           `json:"record_id" yaml:"record_id"`
	EventName  string           `json:"event_name" yaml:"event_name"`
	EventDate  *time.Time       `json:"event_date,omitempty" yaml:"event_date,omitempty"`
	Category   string           `json:"event_category,omitempty" yaml:"event_category,omitempty"`
	SourceName string           `json:"source_name,omitempty" yaml:"source_name,omitempty"`
	Confidence model.Confidence `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	Notes      string           `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// EventsTimeline lists events in ascending date order. Undated events come
// last; ties keep table order.
func EventsTimeline(src Source) []TimelineEntry {
	var out []TimelineEntry
	for _, r := range src.Records() {
		ev, ok := r.Event()
		if !ok {
			continue
		}
		out = append(out, TimelineEntry{
			RecordID:   r.ID,
			EventName:  ev.Name,
			EventDate:  ev.Date,
			Category:   ev.Category,
			SourceName: r.SourceName,
			Confidence: r.Confidence,
			Notes:      r.Notes,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dateLess(out[i].EventDate, out[j].EventDate)
	})
	return out
}

// ObservationsByIndicator returns observations in ascending date order,
// restricted to indicatorCode when it is non-empty. Undated observations come
// last; ties keep table order.
func ObservationsByIndicator(src Source, indicatorCode string) []*model.Record {
	var out []*model.Record
	for _, r := range src.Records() {
		if _, ok := r.Observation(); !ok {
			continue
		}
		if indicatorCode != "" && r.IndicatorCode != indicatorCode {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return dateLess(observationDate(out[i]), observationDate(out[j]))
	})
	return out
}

// ImpactLinkEntry is one impact link projection.
type ImpactLinkEntry struct {
	RecordID         string                `json:"record_id" yaml:"record_id"`
	ParentID         string                `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Pillar           string                `json:"pillar,omitempty" yaml:"pillar,omitempty"`
	RelatedIndicator string                `json:"related_indicator,omitempty" yaml:"related_indicator,omitempty"`
	Direction        model.ImpactDirection `json:"impact_direction" yaml:"impact_direction"`
	Magnitude        *float64              `json:"impact_magnitude,omitempty" yaml:"impact_magnitude,omitempty"`
	LagMonths        *int                  `json:"lag_months,omitempty" yaml:"lag_months,omitempty"`
	EvidenceBasis    string                `json:"evidence_basis,omitempty" yaml:"evidence_basis,omitempty"`
}

// ImpactLinks projects the impact link working set: every record with a
// non-empty impact direction, restricted to parentID when it is non-empty, in
// table order. Link fields stranded on a record of another kind are read from
// its extra columns.
func ImpactLinks(src Source, parentID string) []ImpactLinkEntry {
	if !src.HasColumn(model.ColImpactDirection) {
		return nil
	}
	var out []ImpactLinkEntry
	for _, r := range src.Records() {
		dir := r.ImpactDirectionValue()
		if dir == "" {
			continue
		}
		e := ImpactLinkEntry{RecordID: r.ID, Pillar: r.Pillar, Direction: model.ImpactDirection(dir)}
		if link, ok := r.ImpactLink(); ok {
			e.ParentID = link.ParentID
			e.RelatedIndicator = link.RelatedIndicator
			e.Magnitude = link.Magnitude
			e.LagMonths = link.LagMonths
			e.EvidenceBasis = link.EvidenceBasis
		} else {
			e.ParentID = r.Extra[model.ColParentID]
			e.RelatedIndicator = r.Extra[model.ColRelatedIndicator]
			e.EvidenceBasis = r.Extra[model.ColEvidenceBasis]
			if f, err := strconv.ParseFloat(r.Extra[model.ColImpactMagnitude], 64); err == nil {
				e.Magnitude = &f
			}
			if n, err := strconv.Atoi(r.Extra[model.ColLagMonths]); err == nil {
				e.LagMonths = &n
			}
		}
		if parentID != "" && e.ParentID != parentID {
			continue
		}
		out = append(out, e)
	}
	return out
}

func observationDate(r *model.Record) *time.Time {
	if obs, ok := r.Observation(); ok {
		return obs.ObservationDate
	}
	return nil
}

// dateLess orders dates ascending with nil last.
func dateLess(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.Before(*b)
}
