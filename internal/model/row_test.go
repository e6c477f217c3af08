package model

import "testing"

func TestFromRow_Observation(t *testing.T) {
	r, issues := FromRow(map[string]string{
		ColRecordID:        " REC_0001 ",
		ColRecordType:      "observation",
		ColPillar:          "ACCESS",
		ColIndicatorCode:   "ACC_OWNERSHIP",
		ColValueNumeric:    "1,234.5",
		ColObservationDate: "2024-12-31",
		ColConfidence:      "high",
		ColEventName:       "",
		"region":           "Addis Ababa",
	})
	if len(issues) != 0 {
		t.Fatalf("unexpected issues: %v", issues)
	}
	if r.ID != "REC_0001" {
		t.Errorf("ID = %q, want trimmed", r.ID)
	}
	obs, ok := r.Observation()
	if !ok {
		t.Fatalf("payload = %T", r.Payload)
	}
	if obs.ValueNumeric == nil || *obs.ValueNumeric != 1234.5 {
		t.Errorf("ValueNumeric = %v", obs.ValueNumeric)
	}
	if FormatDate(obs.ObservationDate) != "2024-12-31" {
		t.Errorf("ObservationDate = %v", obs.ObservationDate)
	}
	if r.Extra["region"] != "Addis Ababa" {
		t.Errorf("unknown column not preserved: %v", r.Extra)
	}
	if _, ok := r.Extra[ColEventName]; ok {
		t.Error("empty cells must not land in Extra")
	}
}

func TestFromRow_Issues(t *testing.T) {
	r, issues := FromRow(map[string]string{
		ColRecordID:        "IMP_0001",
		ColRecordType:      "impact_link",
		ColImpactMagnitude: "large",
		ColLagMonths:       "3.0",
		ColCollectionDate:  "yesterday-ish",
	})
	link, ok := r.ImpactLink()
	if !ok {
		t.Fatalf("payload = %T", r.Payload)
	}
	if link.LagMonths == nil || *link.LagMonths != 3 {
		t.Errorf("LagMonths = %v, want 3", link.LagMonths)
	}
	if link.Magnitude != nil {
		t.Errorf("unparsable magnitude should be absent, got %v", *link.Magnitude)
	}
	if r.CollectionDate != nil {
		t.Errorf("unparsable collection date should be absent")
	}
	want := map[string]FindingKind{
		ColImpactMagnitude: FindingUnparsableNumber,
		ColCollectionDate:  FindingUnparsableDate,
	}
	if len(issues) != len(want) {
		t.Fatalf("issues = %v", issues)
	}
	for _, is := range issues {
		if want[is.Column] != is.Kind {
			t.Errorf("issue %+v not expected", is)
		}
	}
}

func TestFromRow_StrandedColumns(t *testing.T) {
	r, _ := FromRow(map[string]string{
		ColRecordID:        "REC_0009",
		ColRecordType:      "observation",
		ColIndicatorCode:   "ACC_OWNERSHIP",
		ColImpactDirection: "positive",
		ColEventDate:       "2021-05-11",
	})
	got := StrandedColumns(r)
	if len(got) != 2 || got[0] != ColEventDate || got[1] != ColImpactDirection {
		t.Errorf("StrandedColumns = %v", got)
	}
	if r.ImpactDirectionValue() != "positive" {
		t.Errorf("stranded direction should stay visible")
	}

	target, _ := FromRow(map[string]string{
		ColRecordType: "target",
		ColEventDate:  "2030-01-01",
	})
	if got := StrandedColumns(target); got != nil {
		t.Errorf("targets are exempt, got %v", got)
	}
}

func TestFromRow_UnknownType(t *testing.T) {
	r, _ := FromRow(map[string]string{
		ColRecordType:   "forecast",
		ColValueNumeric: "5",
	})
	if r.Payload != nil {
		t.Errorf("unknown kinds carry no payload, got %T", r.Payload)
	}
	if r.Extra[ColValueNumeric] != "5" {
		t.Errorf("kind column on unknown kind should be kept in Extra: %v", r.Extra)
	}
}

func TestToRow_RoundTrip(t *testing.T) {
	in := map[string]string{
		ColRecordID:         "IMP_0001",
		ColRecordType:       "impact_link",
		ColPillar:           "USAGE",
		ColIndicator:        "Impact Link",
		ColIndicatorCode:    "IMPACT_LINK",
		ColParentID:         "EVT_0001",
		ColRelatedIndicator: "USG_P2P_COUNT",
		ColImpactDirection:  "positive",
		ColImpactMagnitude:  "0.25",
		ColLagMonths:        "6",
		ColEvidenceBasis:    "comparable country",
		ColCollectionDate:   "2025-01-15",
		"analyst_note":      "check",
	}
	r, issues := FromRow(in)
	if len(issues) != 0 {
		t.Fatalf("issues = %v", issues)
	}
	out := ToRow(r)
	if len(out) != len(in) {
		t.Errorf("ToRow has %d columns, want %d: %v", len(out), len(in), out)
	}
	for col, want := range in {
		if out[col] != want {
			t.Errorf("%s = %q, want %q", col, out[col], want)
		}
	}
}

func TestFromRow_UnparsableCellsRoundTrip(t *testing.T) {
	in := map[string]string{
		ColRecordID:        "REC_0002",
		ColRecordType:      "observation",
		ColIndicatorCode:   "ACC_OWNERSHIP",
		ColValueNumeric:    "46%",
		ColObservationDate: "sometime",
	}
	r, issues := FromRow(in)
	if len(issues) != 2 {
		t.Fatalf("issues = %v, want one per unparsable cell", issues)
	}
	obs, _ := r.Observation()
	if obs.ValueNumeric != nil || obs.ObservationDate != nil {
		t.Errorf("unparsable values should be absent in the payload: %+v", obs)
	}
	if got := StrandedColumns(r); got != nil {
		t.Errorf("own-kind raw cells are not stranded, got %v", got)
	}
	out := ToRow(r)
	for col, want := range in {
		if out[col] != want {
			t.Errorf("%s = %q, want %q written back", col, out[col], want)
		}
	}
}

func TestParseFloat_Separators(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.5", 1234.5, true},
		{"-12,000", -12000, true},
		{"0.25", 0.25, true},
		{"1,5", 0, false},
		{"12,34", 0, false},
		{"1,2345", 0, false},
	} {
		t.Run(tc.in, func(t *testing.T) {
			var issues []CellIssue
			got := parseFloat(tc.in, ColValueNumeric, &issues)
			if !tc.ok {
				if got != nil || len(issues) != 1 {
					t.Errorf("parseFloat(%q) = %v, issues %v; want unparsable", tc.in, got, issues)
				}
				return
			}
			if got == nil || *got != tc.want || len(issues) != 0 {
				t.Errorf("parseFloat(%q) = %v, issues %v; want %v", tc.in, got, issues, tc.want)
			}
		})
	}
}
