package model

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// CellIssue describes a cell FromRow could not carry into the typed record
// as-is.
type CellIssue struct {
	Kind   FindingKind
	Column string
	Value  string
}

// FromRow builds a typed record from one row of the flat table. Unparsable
// dates and numbers become absent in the typed fields and are returned as
// issues; their raw text is kept in Extra so ToRow writes the cell back
// unchanged. Columns the model does not name, and kind-specific values on a
// record of another kind, are also kept in Extra.
func FromRow(row map[string]string) (*Record, []CellIssue) {
	var issues []CellIssue
	get := func(col string) string { return clean(row[col]) }
	date := func(col string) *time.Time {
		v := get(col)
		d, ok := ParseDate(v)
		if !ok {
			issues = append(issues, CellIssue{FindingUnparsableDate, col, v})
		}
		return d
	}

	r := &Record{
		ID:             get(ColRecordID),
		Type:           RecordType(get(ColRecordType)),
		Pillar:         get(ColPillar),
		Indicator:      get(ColIndicator),
		IndicatorCode:  get(ColIndicatorCode),
		SourceName:     get(ColSourceName),
		SourceURL:      get(ColSourceURL),
		SourceType:     get(ColSourceType),
		Confidence:     Confidence(get(ColConfidence)),
		Notes:          get(ColNotes),
		CollectedBy:    get(ColCollectedBy),
		CollectionDate: date(ColCollectionDate),
	}

	switch p := NewPayload(r.Type).(type) {
	case *Observation:
		p.ValueNumeric = parseFloat(get(ColValueNumeric), ColValueNumeric, &issues)
		p.ObservationDate = date(ColObservationDate)
		r.Payload = p
	case *Event:
		p.Name = get(ColEventName)
		p.Date = date(ColEventDate)
		p.Category = get(ColEventCategory)
		p.Description = get(ColDescription)
		r.Payload = p
	case *ImpactLink:
		p.ParentID = get(ColParentID)
		p.RelatedIndicator = get(ColRelatedIndicator)
		p.Direction = ImpactDirection(get(ColImpactDirection))
		p.Magnitude = parseFloat(get(ColImpactMagnitude), ColImpactMagnitude, &issues)
		p.LagMonths = parseInt(get(ColLagMonths), ColLagMonths, &issues)
		p.EvidenceBasis = get(ColEvidenceBasis)
		r.Payload = p
	case *Target:
		p.TargetDate = date(ColTargetDate)
		r.Payload = p
	}

	owned := make(map[string]bool)
	for _, c := range KindColumns[r.Type] {
		owned[c] = true
	}
	cols := make([]string, 0, len(row))
	for col := range row {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		v := clean(row[col])
		if v == "" || owned[col] {
			continue
		}
		if _, kindCol := KindOfColumn(col); knownColumns[col] && !kindCol {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[col] = v
	}
	for _, is := range issues {
		if r.Extra == nil {
			r.Extra = make(map[string]string)
		}
		r.Extra[is.Column] = is.Value
	}
	return r, issues
}

// StrandedColumns returns, sorted, the kind-specific columns of other kinds
// that hold a value on r. Targets have no field contract and unknown kinds are
// reported on their own, so only the three constructed kinds are checked.
func StrandedColumns(r *Record) []string {
	if r.Type.IDPrefix() == "" {
		return nil
	}
	var out []string
	for col, v := range r.Extra {
		if kind, ok := KindOfColumn(col); ok && kind != r.Type && v != "" {
			out = append(out, col)
		}
	}
	sort.Strings(out)
	return out
}

// ToRow flattens r into column/value pairs. Absent values are omitted.
func ToRow(r *Record) map[string]string {
	row := make(map[string]string)
	set := func(col, v string) {
		if v != "" {
			row[col] = v
		}
	}
	for col, v := range r.Extra {
		set(col, v)
	}
	set(ColRecordID, r.ID)
	set(ColRecordType, string(r.Type))
	set(ColPillar, r.Pillar)
	set(ColIndicator, r.Indicator)
	set(ColIndicatorCode, r.IndicatorCode)
	set(ColSourceName, r.SourceName)
	set(ColSourceURL, r.SourceURL)
	set(ColSourceType, r.SourceType)
	set(ColConfidence, string(r.Confidence))
	set(ColNotes, r.Notes)
	set(ColCollectedBy, r.CollectedBy)
	set(ColCollectionDate, FormatDate(r.CollectionDate))

	switch p := r.Payload.(type) {
	case *Observation:
		set(ColValueNumeric, formatFloat(p.ValueNumeric))
		set(ColObservationDate, FormatDate(p.ObservationDate))
	case *Event:
		set(ColEventName, p.Name)
		set(ColEventDate, FormatDate(p.Date))
		set(ColEventCategory, p.Category)
		set(ColDescription, p.Description)
	case *ImpactLink:
		set(ColParentID, p.ParentID)
		set(ColRelatedIndicator, p.RelatedIndicator)
		set(ColImpactDirection, string(p.Direction))
		set(ColImpactMagnitude, formatFloat(p.Magnitude))
		if p.LagMonths != nil {
			set(ColLagMonths, strconv.Itoa(*p.LagMonths))
		}
		set(ColEvidenceBasis, p.EvidenceBasis)
	case *Target:
		set(ColTargetDate, FormatDate(p.TargetDate))
	}
	return row
}

var knownColumns = func() map[string]bool {
	m := make(map[string]bool)
	for _, c := range KnownColumns() {
		m[c] = true
	}
	return m
}()

// clean trims surrounding space and applies NFC so that codes typed on
// different systems compare equal.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// thousands matches numbers grouped with commas every three digits. A comma
// anywhere else, as in a decimal comma, leaves the value unparsable.
var thousands = regexp.MustCompile(`^[+-]?\d{1,3}(,\d{3})+(\.\d+)?$`)

func parseFloat(v, col string, issues *[]CellIssue) *float64 {
	if v == "" {
		return nil
	}
	s := v
	if thousands.MatchString(s) {
		s = strings.ReplaceAll(s, ",", "")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*issues = append(*issues, CellIssue{FindingUnparsableNumber, col, v})
		return nil
	}
	return &f
}

// parseInt accepts integral floats ("3.0") as written by tools that store
// sparse integer columns as floats.
func parseInt(v, col string, issues *[]CellIssue) *int {
	if v == "" {
		return nil
	}
	if n, err := strconv.Atoi(v); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != float64(int(f)) {
		*issues = append(*issues, CellIssue{FindingUnparsableNumber, col, v})
		return nil
	}
	n := int(f)
	return &n
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
