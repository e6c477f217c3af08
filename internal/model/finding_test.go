package model

import (
	"fmt"
	"strings"
	"testing"
)

func TestTally(t *testing.T) {
	var tl Tally
	for i := 0; i < 8; i++ {
		tl.Add(FindingInvalidCode, ColPillar, fmt.Sprintf("P%d", i%7))
	}
	tl.Add(FindingInvalidCode, ColPillar, "")
	tl.Add(FindingUnparsableDate, ColEventDate, "soon")

	got := tl.Findings()
	if len(got) != 2 {
		t.Fatalf("expected 2 findings, got %v", got)
	}
	pillar := got[0]
	if pillar.Kind != FindingInvalidCode || pillar.Field != ColPillar {
		t.Fatalf("insertion order not kept: %v", got)
	}
	if pillar.Count != 9 {
		t.Errorf("Count = %d, want 9", pillar.Count)
	}
	if want := []string{"P0", "P1", "P2", "P3", "P4"}; strings.Join(pillar.Samples, ",") != strings.Join(want, ",") {
		t.Errorf("Samples = %v, want %v", pillar.Samples, want)
	}
	if got[1].Count != 1 || got[1].Samples[0] != "soon" {
		t.Errorf("date finding = %+v", got[1])
	}
}

func TestTally_DistinctSamples(t *testing.T) {
	var tl Tally
	tl.Add(FindingDuplicateID, ColRecordID, "A")
	tl.Add(FindingDuplicateID, ColRecordID, "A")
	f := tl.Findings()[0]
	if f.Count != 2 || len(f.Samples) != 1 {
		t.Errorf("finding = %+v", f)
	}
}

func TestReport(t *testing.T) {
	rep := Report{Findings: []Finding{
		{Kind: FindingMissingColumn, Field: ColRecordID},
		{Kind: FindingInvalidCode, Field: ColPillar, Count: 2, Samples: []string{"X"}},
		{Kind: FindingInvalidCode, Field: ColConfidence, Count: 1},
	}}
	if !rep.HasFindings() {
		t.Error("HasFindings = false")
	}
	if n := len(rep.OfKind(FindingInvalidCode)); n != 2 {
		t.Errorf("OfKind = %d, want 2", n)
	}
	if n := len(rep.For(ColPillar)); n != 1 {
		t.Errorf("For = %d, want 1", n)
	}
	if s := rep.Findings[1].String(); s != "invalid_code pillar (2 rows): X" {
		t.Errorf("String = %q", s)
	}
	var empty Report
	if empty.HasFindings() {
		t.Error("empty report has findings")
	}
}
