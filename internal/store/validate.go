package store

import (
	"github.com/alfredjeanlab/fidata/internal/model"
)

// Revalidate reruns the table-level checks over the current records,
// including those appended since load, and returns the findings. Date and
// number parse findings exist only at load time, since unparsable cells are
// absent afterwards.
func (s *Store) Revalidate() model.Report {
	s.report = s.validate(nil)
	s.logReport(&s.report)
	return s.report
}

// validate runs the schema, categorical, kind and reference checks. cells
// holds the parse findings gathered while building records and is placed
// after the categorical findings. Validation never modifies records.
func (s *Store) validate(cells []model.Finding) model.Report {
	var rep model.Report

	// Schema: mandatory columns.
	for _, col := range model.MandatoryColumns {
		if !s.HasColumn(col) {
			rep.Findings = append(rep.Findings, model.Finding{Kind: model.FindingMissingColumn, Field: col})
		}
	}

	// Categorical codes, skipped entirely without a catalog.
	var t model.Tally
	if s.catalog.Len() > 0 {
		for _, field := range model.CategoricalColumns {
			if !s.HasColumn(field) || !s.catalog.Restricts(field) {
				continue
			}
			for _, r := range s.records {
				v := categoricalValue(r, field)
				if v != "" && !s.catalog.Accepts(field, v) {
					t.Add(model.FindingInvalidCode, field, v)
				}
			}
		}
	}

	// Discriminator: the four kinds only.
	if s.HasColumn(model.ColRecordType) {
		for _, r := range s.records {
			if !r.Type.IsValid() {
				t.Add(model.FindingUnknownRecordType, model.ColRecordType, string(r.Type))
			}
		}
	}
	rep.Findings = append(rep.Findings, t.Findings()...)
	rep.Findings = append(rep.Findings, cells...)

	var tail model.Tally
	for _, r := range s.records {
		for _, col := range model.StrandedColumns(r) {
			tail.Add(model.FindingKindMismatch, col, r.ID)
		}
	}

	seen := make(map[string]struct{}, len(s.records))
	for _, r := range s.records {
		if r.ID == "" {
			continue
		}
		if _, dup := seen[r.ID]; dup {
			tail.Add(model.FindingDuplicateID, model.ColRecordID, r.ID)
		}
		seen[r.ID] = struct{}{}
	}

	for _, r := range s.records {
		if link, ok := r.ImpactLink(); ok && link.ParentID != "" {
			if _, found := s.ids[link.ParentID]; !found {
				tail.Add(model.FindingDanglingParent, model.ColParentID, link.ParentID)
			}
		}
	}
	rep.Findings = append(rep.Findings, tail.Findings()...)
	return rep
}

func categoricalValue(r *model.Record, field string) string {
	switch field {
	case model.ColRecordType:
		return string(r.Type)
	case model.ColPillar:
		return r.Pillar
	case model.ColSourceType:
		return r.SourceType
	case model.ColConfidence:
		return string(r.Confidence)
	}
	return r.Extra[field]
}

func (s *Store) logReport(rep *model.Report) {
	for _, f := range rep.Findings {
		attrs := []any{"kind", f.Kind, "field", f.Field}
		if f.Count > 0 {
			attrs = append(attrs, "rows", f.Count)
		}
		if len(f.Samples) > 0 {
			attrs = append(attrs, "samples", f.Samples)
		}
		s.logger.Warn("validation finding", attrs...)
	}
}
