package report

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// FormatLargeNumber renders a dollar amount with a B/M/K suffix at one
// decimal, or with cents below one thousand.
func FormatLargeNumber(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("$%.1fB", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("$%.1fM", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("$%.1fK", v/1e3)
	}
	return fmt.Sprintf("$%.2f", v)
}

// FormatCount rounds half away from zero and adds thousands separators.
func FormatCount(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

// FormatDollars renders a rounded whole-dollar amount, e.g. "$9,776".
func FormatDollars(v float64) string {
	return "$" + FormatCount(v)
}

// FormatMoney renders dollars and cents with thousands separators.
func FormatMoney(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// FormatPercent renders a 0-100 percentage at two decimals.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
