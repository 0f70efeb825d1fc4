package normalize

import (
	"fmt"
	"strings"
	"time"
)

// Year-month layouts found in enrollment extracts.
var yearMonthFormats = []string{
	"200601",
	"2006-01",
	"2006/01",
	"2006-01-02",
	"01/2006",
	"1/2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// ParseYearMonth converts a year-month cell to its YYYYMM integer key.
func ParseYearMonth(s string) (int, error) {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return 0, fmt.Errorf("empty year_month")
	}
	// "202001.0" from spreadsheet exports
	if v, err := ParseInt(s); err == nil && v != nil && *v >= 100001 && *v <= 999912 && *v%100 >= 1 && *v%100 <= 12 {
		return *v, nil
	}
	for _, layout := range yearMonthFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Year()*100 + int(t.Month()), nil
		}
	}
	return 0, fmt.Errorf("parse year_month %q", s)
}

// YearOf returns the calendar year of a YYYYMM key.
func YearOf(yearMonth int) int {
	return yearMonth / 100
}
