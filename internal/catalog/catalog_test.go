package catalog

import (
	"strings"
	"testing"
)

func testCatalog() *Catalog {
	return New([]Entry{
		{Field: "pillar", Code: "ACCESS", Description: "Access"},
		{Field: "pillar", Code: " USAGE "},
		{Field: "pillar", Code: "ACCESS"},
		{Field: "confidence", Code: "high"},
		{Field: "", Code: "orphan"},
		{Field: "source_type", Code: ""},
	})
}

func TestNew(t *testing.T) {
	c := testCatalog()
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}
	if got := strings.Join(c.Fields(), ","); got != "confidence,pillar" {
		t.Errorf("Fields = %q", got)
	}
	if got := strings.Join(c.Codes("pillar"), ","); got != "ACCESS,USAGE" {
		t.Errorf("Codes = %q", got)
	}
}

func TestAccepts(t *testing.T) {
	c := testCatalog()
	for _, tc := range []struct {
		field, code string
		want        bool
	}{
		{"pillar", "ACCESS", true},
		{"pillar", "USAGE", true},
		{"pillar", "access", false},
		{"pillar", "GENDER", false},
		{"confidence", "high", true},
		{"confidence", "low", false},
		{"source_type", "survey", true}, // unrestricted
		{"region", "anything", true},
	} {
		if got := c.Accepts(tc.field, tc.code); got != tc.want {
			t.Errorf("Accepts(%q, %q) = %v, want %v", tc.field, tc.code, got, tc.want)
		}
	}
	if !c.Restricts("pillar") || c.Restricts("region") {
		t.Error("Restricts mismatch")
	}
}

func TestAcceptedCodes(t *testing.T) {
	c := testCatalog()
	set := c.AcceptedCodes("pillar")
	if len(set) != 2 {
		t.Fatalf("AcceptedCodes = %v", set)
	}
	delete(set, "ACCESS")
	if !c.Accepts("pillar", "ACCESS") {
		t.Error("AcceptedCodes must return a copy")
	}
	if got := c.AcceptedCodes("region"); len(got) != 0 {
		t.Errorf("unknown field = %v, want empty", got)
	}
}

func TestDescribe(t *testing.T) {
	c := testCatalog()
	if got := c.Describe("pillar", "ACCESS"); got != "Access" {
		t.Errorf("Describe = %q", got)
	}
	if got := c.Describe("pillar", "USAGE"); got != "" {
		t.Errorf("Describe = %q, want empty", got)
	}
}

func TestNilCatalog(t *testing.T) {
	var c *Catalog
	if !c.Accepts("pillar", "X") || c.Restricts("pillar") || c.Len() != 0 || c.Fields() != nil {
		t.Error("nil catalog should accept everything and be empty")
	}
	if len(c.AcceptedCodes("pillar")) != 0 || c.Codes("pillar") != nil || c.Describe("a", "b") != "" {
		t.Error("nil catalog lookups should be empty")
	}
}
