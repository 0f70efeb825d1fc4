package model

import "fmt"

// Dimension is a population breakdown axis.
type Dimension string

const (
	DimensionRace  Dimension = "race"
	DimensionState Dimension = "state"
)

// ParseDimension returns the Dimension named s.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionRace, DimensionState:
		return Dimension(s), nil
	}
	return "", fmt.Errorf("unknown dimension %q (want race or state)", s)
}

// Granularity selects which diagnosis field PMPM is grouped by.
type Granularity string

const (
	GranularityCategory    Granularity = "category"
	GranularityDescription Granularity = "description"
)

// ParseGranularity returns the Granularity named s.
func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityCategory, GranularityDescription:
		return Granularity(s), nil
	}
	return "", fmt.Errorf("unknown diagnosis granularity %q (want category or description)", s)
}

// NullLabel is the group label used for null values under LabelNull.
const NullLabel = "null"

// GrandTotalLabel labels the synthetic total row of encounter metrics.
const GrandTotalLabel = "Grand Total"

// NullPolicy decides what a grouping does with a null dimension value.
type NullPolicy int

const (
	// DropNull excludes rows whose value is null.
	DropNull NullPolicy = iota
	// LabelNull folds null values into the NullLabel group.
	LabelNull
)

// Label returns the group label for v and whether the row takes part in the grouping.
func (p NullPolicy) Label(v *string) (string, bool) {
	if v != nil {
		return *v, true
	}
	if p == LabelNull {
		return NullLabel, true
	}
	return "", false
}
