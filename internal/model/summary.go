package model

import "time"

// Summary holds the dashboard tile inputs for one year.
type Summary struct {
	Year             int
	MemberCount      int
	MemberMonthCount int
	MeanAge          float64
	FemaleCount      int
	TotalPaid        float64
	TotalEncounters  int
}

// Ratios are the derived tile values. A zero denominator yields 0.
type Ratios struct {
	PercentFemale     float64
	EncountersPer1000 float64
	PaidPerEncounter  float64
	PaidPMPM          float64
}

// Ratios derives the tile ratios from the summary counts.
func (s Summary) Ratios() Ratios {
	return Ratios{
		PercentFemale:     SafeDiv(float64(s.FemaleCount), float64(s.MemberCount)) * 100,
		EncountersPer1000: SafeDiv(float64(s.TotalEncounters), float64(s.MemberCount)) * 12000,
		PaidPerEncounter:  SafeDiv(s.TotalPaid, float64(s.TotalEncounters)),
		PaidPMPM:          SafeDiv(s.TotalPaid, float64(s.MemberMonthCount)),
	}
}

// SafeDiv returns num/den, or 0 when den is 0.
func SafeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// PopulationShare is one row of a race or state breakdown.
type PopulationShare struct {
	Value       string
	MemberCount int
	Percentage  float64
}

// EncounterMetric is one row of the encounter group/type tables.
// EncounterType is empty for group-level rows.
type EncounterMetric struct {
	EncounterGroup    string
	EncounterType     string
	PaidAmount        float64
	Encounters        int
	PMPM              float64
	EncountersPer1000 float64
	PaidPerEncounter  float64
	GrandTotal        bool
}

// DiagnosisPMPM is one row of the PMPM-by-diagnosis table.
type DiagnosisPMPM struct {
	Label          string
	PMPM           float64
	PercentOfTotal float64
	CumulativePMPM float64
}

// RiskScoreStats summarizes non-null risk scores for a year.
type RiskScoreStats struct {
	Count  int
	Mean   float64
	Median float64
	Min    float64
	Max    float64
}

// MemberRiskScore is a distinct member/score pair.
type MemberRiskScore struct {
	MemberID  string
	RiskScore float64
}

// LoadSummary captures metrics from a single load run.
type LoadSummary struct {
	LoadBatchID      string
	Files            []FileLoad
	RowsRead         int64
	RowsLoaded       int64
	RowsRejected     int64
	DurationStage    time.Duration
	DurationFinalize time.Duration
	DurationTotal    time.Duration
}

// FileLoad captures the outcome for one input file.
type FileLoad struct {
	Kind          FileKind
	FilePath      string
	FileSHA256    string
	LoadFileID    int64
	AlreadyLoaded bool
	RowsRead      int64
	RowsLoaded    int64
	RowsRejected  int64
}

// FileKind names the table an input file feeds.
type FileKind string

const (
	KindClaims       FileKind = "claims"
	KindMemberMonths FileKind = "member_months"
)
