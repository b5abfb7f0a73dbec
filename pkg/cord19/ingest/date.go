package ingest

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// PublishedLayout is how publish dates are written to the store.
const PublishedLayout = "2006-01-02 15:04:05"

// monthLayouts cover the PubMed style dates that dateparse rejects.
var monthLayouts = []string{
	"2006 Jan 2",
	"2006 January 2",
	"2006 Jan",
	"2006 January",
	"Jan 2006",
	"January 2006",
	"Jan 2 2006",
	"January 2 2006",
}

// ParseDate parses a free-text publish date. A bare four digit year is
// anchored to January 1. It reports false for empty or unparseable input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	// dateparse reads long digit runs as epoch timestamps.
	if allDigits(s) {
		switch len(s) {
		case 4:
			s += "-01-01"
		case 8:
			return valid(time.ParseInLocation("20060102", s, time.UTC))
		default:
			return time.Time{}, false
		}
	}

	if t, ok := parseMonthName(s); ok {
		return t, true
	}
	return valid(dateparse.ParseIn(s, time.UTC))
}

// parseMonthName handles "2020 Mar 15", "2020 Mar" and "Mar 2020". In a
// range such as "2014 Jul-Aug" only the leading part of each token counts.
func parseMonthName(s string) (time.Time, bool) {
	fields := strings.Fields(s)
	if len(fields) < 2 {
		return time.Time{}, false
	}
	for i, f := range fields {
		if i > 0 {
			if cut, _, ok := strings.Cut(f, "-"); ok && cut != "" {
				fields[i] = cut
			}
		}
		fields[i] = strings.TrimSuffix(strings.TrimSuffix(fields[i], ","), ".")
	}
	joined := strings.Join(fields, " ")

	for _, layout := range monthLayouts {
		if t, ok := valid(time.ParseInLocation(layout, joined, time.UTC)); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// valid rejects parse errors and year zero.
func valid(t time.Time, err error) (time.Time, bool) {
	if err != nil || t.Year() < 1 {
		return time.Time{}, false
	}
	return t, true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
