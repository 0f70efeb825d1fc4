package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var moneyReplacer = strings.NewReplacer("$", "", ",", "", " ", "")

// ParseMoney converts a paid-amount cell to dollars. Currency symbols and
// thousands separators are stripped; null tokens read as 0. Negative amounts
// are rejected.
func ParseMoney(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return 0, nil
	}
	v, err := strconv.ParseFloat(moneyReplacer.Replace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("non-finite amount %q", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %q", s)
	}
	return v, nil
}
