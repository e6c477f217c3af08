package model

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the calendar-date layout used on export.
const DateLayout = "2006-01-02"

// dateLayouts are tried before falling back to dateparse. Bare years and
// year-months are listed explicitly because dateparse would read a four digit
// year as a unix timestamp.
var dateLayouts = []string{DateLayout, "2006-01", "2006", "2006/01/02"}

// ParseDate parses s into a calendar date at midnight UTC. Empty input
// returns (nil, true); unparsable input returns (nil, false).
func ParseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d := truncateDate(t)
			return &d, true
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil, false
	}
	d := truncateDate(t)
	return &d, true
}

// Date returns the calendar date of t at midnight UTC.
func Date(t time.Time) time.Time {
	return truncateDate(t)
}

// FormatDate renders d with DateLayout, or "" when d is nil.
func FormatDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return d.Format(DateLayout)
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
