// Package catalog holds the reference taxonomy of accepted categorical codes.
package catalog

import (
	"sort"
	"strings"
)

// Entry is one row of the reference table.
type Entry struct {
	Field       string `json:"field"`
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// Catalog maps a field name to its accepted codes. It is immutable once built.
type Catalog struct {
	codes        map[string]map[string]struct{}
	descriptions map[string]map[string]string
}

// New builds a catalog from reference entries. Entries with an empty field or
// code are skipped; repeated pairs collapse into one.
func New(entries []Entry) *Catalog {
	c := &Catalog{
		codes:        make(map[string]map[string]struct{}),
		descriptions: make(map[string]map[string]string),
	}
	for _, e := range entries {
		field := strings.TrimSpace(e.Field)
		code := strings.TrimSpace(e.Code)
		if field == "" || code == "" {
			continue
		}
		if c.codes[field] == nil {
			c.codes[field] = make(map[string]struct{})
			c.descriptions[field] = make(map[string]string)
		}
		c.codes[field][code] = struct{}{}
		if e.Description != "" {
			c.descriptions[field][code] = e.Description
		}
	}
	return c
}

// AcceptedCodes returns the accepted set for field as a new map. An unknown
// field yields an empty set, which callers treat as "no restriction known".
func (c *Catalog) AcceptedCodes(field string) map[string]struct{} {
	out := make(map[string]struct{})
	if c == nil {
		return out
	}
	for code := range c.codes[field] {
		out[code] = struct{}{}
	}
	return out
}

// Codes returns the accepted codes for field in sorted order.
func (c *Catalog) Codes(field string) []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.codes[field]))
	for code := range c.codes[field] {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Accepts reports whether code is acceptable for field. Fields the catalog
// does not restrict accept any code.
func (c *Catalog) Accepts(field, code string) bool {
	if c == nil {
		return true
	}
	set, ok := c.codes[field]
	if !ok || len(set) == 0 {
		return true
	}
	_, ok = set[code]
	return ok
}

// Restricts reports whether the catalog holds any codes for field.
func (c *Catalog) Restricts(field string) bool {
	return c != nil && len(c.codes[field]) > 0
}

// Describe returns the description recorded for (field, code), if any.
func (c *Catalog) Describe(field, code string) string {
	if c == nil {
		return ""
	}
	return c.descriptions[field][code]
}

// Fields returns the field names the catalog knows, sorted.
func (c *Catalog) Fields() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.codes))
	for f := range c.codes {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of distinct (field, code) pairs.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, set := range c.codes {
		n += len(set)
	}
	return n
}
