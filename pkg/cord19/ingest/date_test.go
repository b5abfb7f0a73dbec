package ingest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   time.Time
		wantOK bool
	}{
		{"bare year anchors to january first", "2020", day(2020, time.January, 1), true},
		{"iso date", "2020-03-15", day(2020, time.March, 15), true},
		{"surrounding whitespace", " 2019 ", day(2019, time.January, 1), true},
		{"year month day", "2020 Mar 15", day(2020, time.March, 15), true},
		{"year month single digit day", "2005 Jun 2", day(2005, time.June, 2), true},
		{"year month", "2005 Jun", day(2005, time.June, 1), true},
		{"year full month", "2019 December", day(2019, time.December, 1), true},
		{"month range keeps first month", "2014 Jul-Aug", day(2014, time.July, 1), true},
		{"day range keeps first day", "2020 Mar 15-21", day(2020, time.March, 15), true},
		{"month year", "Mar 2020", day(2020, time.March, 1), true},
		{"month day comma year", "Mar 15, 2020", day(2020, time.March, 15), true},
		{"compact date", "20200315", day(2020, time.March, 15), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "not-a-date", time.Time{}, false},
		{"long digit run", "9999999999999", time.Time{}, false},
		{"three digits", "202", time.Time{}, false},
		{"year zero", "0000", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.input)
			require.Equal(t, tt.wantOK, ok, "ParseDate(%q) = %v", tt.input, got)
			if ok {
				assert.True(t, got.Equal(tt.want), "ParseDate(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDateLayout(t *testing.T) {
	got, ok := ParseDate("2020")
	require.True(t, ok)
	assert.Equal(t, "2020-01-01 00:00:00", got.Format(PublishedLayout))
}

func TestAllDigits(t *testing.T) {
	for in, want := range map[string]bool{
		"2020": true,
		"0":    true,
		"":     false,
		"20a0": false,
		"-202": false,
	} {
		assert.Equal(t, want, allDigits(in), "allDigits(%q)", in)
	}
}
