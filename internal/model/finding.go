package model

import (
	"fmt"
	"strings"
)

// FindingKind classifies a non-fatal validation finding.
type FindingKind string

const (
	FindingMissingSource     FindingKind = "missing_source"
	FindingUnreadableSource  FindingKind = "unreadable_source"
	FindingMissingColumn     FindingKind = "missing_column"
	FindingInvalidCode       FindingKind = "invalid_code"
	FindingUnknownRecordType FindingKind = "unknown_record_type"
	FindingUnparsableDate    FindingKind = "unparsable_date"
	FindingUnparsableNumber  FindingKind = "unparsable_number"
	FindingKindMismatch      FindingKind = "kind_mismatch"
	FindingDuplicateID       FindingKind = "duplicate_id"
	FindingDanglingParent    FindingKind = "dangling_parent"
)

// MaxSamples bounds the distinct offending values kept on a finding.
const MaxSamples = 5

// Finding is one validation result about a field of the table. Count is the
// number of affected rows; Samples holds up to MaxSamples distinct offending
// values in first-seen order.
type Finding struct {
	Kind    FindingKind `json:"kind"`
	Field   string      `json:"field"`
	Count   int         `json:"count"`
	Samples []string    `json:"samples,omitempty"`
}

// String formats the finding for log and text output.
func (f Finding) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", f.Kind, f.Field)
	if f.Count > 0 {
		fmt.Fprintf(&b, " (%d rows)", f.Count)
	}
	if len(f.Samples) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(f.Samples, ", "))
	}
	return b.String()
}

// Report is the ordered list of findings from one validation pass.
type Report struct {
	Findings []Finding `json:"findings"`
}

// HasFindings reports whether any finding was recorded.
func (r *Report) HasFindings() bool {
	return len(r.Findings) > 0
}

// For returns the findings that name field.
func (r *Report) For(field string) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Field == field {
			out = append(out, f)
		}
	}
	return out
}

// OfKind returns the findings of the given kind.
func (r *Report) OfKind(kind FindingKind) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

// Tally accumulates per-row occurrences into findings, keeping insertion
// order of (kind, field) pairs and the first MaxSamples distinct values.
type Tally struct {
	order []tallyKey
	found map[tallyKey]*Finding
	seen  map[tallyKey]map[string]struct{}
}

type tallyKey struct {
	kind  FindingKind
	field string
}

// Add records one affected row for (kind, field) with the offending value.
func (t *Tally) Add(kind FindingKind, field, value string) {
	if t.found == nil {
		t.found = make(map[tallyKey]*Finding)
		t.seen = make(map[tallyKey]map[string]struct{})
	}
	k := tallyKey{kind, field}
	f, ok := t.found[k]
	if !ok {
		f = &Finding{Kind: kind, Field: field}
		t.found[k] = f
		t.seen[k] = make(map[string]struct{})
		t.order = append(t.order, k)
	}
	f.Count++
	if value == "" {
		return
	}
	if _, dup := t.seen[k][value]; dup || len(f.Samples) >= MaxSamples {
		return
	}
	t.seen[k][value] = struct{}{}
	f.Samples = append(f.Samples, value)
}

// Findings returns the accumulated findings in insertion order.
func (t *Tally) Findings() []Finding {
	out := make([]Finding, 0, len(t.order))
	for _, k := range t.order {
		out = append(out, *t.found[k])
	}
	return out
}
