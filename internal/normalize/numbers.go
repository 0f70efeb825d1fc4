package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// nullTokens are cell values treated as missing.
var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"none": true,
	"<na>": true,
}

// IsNull reports whether s is an empty or null-token cell.
func IsNull(s string) bool {
	return nullTokens[strings.ToLower(strings.TrimSpace(s))]
}

// OptString trims s and returns nil for null tokens.
func OptString(s string) *string {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return nil
	}
	return &s
}

// ParseInt parses an integer cell, accepting integral floats such as "70.0".
// Returns nil for null tokens.
func ParseInt(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return nil, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return &v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, fmt.Errorf("parse integer %q", s)
	}
	v := int(f)
	return &v, nil
}

// ParseFloat parses a decimal cell. Returns nil for null tokens.
func ParseFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil, fmt.Errorf("non-finite decimal %q", s)
	}
	return &f, nil
}

// ParseYear parses the selected-year selector. Blank or unparseable input
// returns 0, the "no selection" year.
func ParseYear(s string) int {
	v, err := ParseInt(s)
	if err != nil || v == nil || *v < 0 {
		return 0
	}
	return *v
}
