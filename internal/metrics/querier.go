package metrics

import "github.com/gyeh/outlierstats/internal/model"

// Querier is the read surface shared by Aggregator and its memoizing wrapper.
type Querier interface {
	Years() []int
	MemberCount(year int) int
	MemberMonthCount(year int) int
	EncounterCount(year int) int
	Summary(year int) model.Summary
	PopulationBreakdown(year int, dim model.Dimension) []model.PopulationShare
	EncounterGroupMetrics(year int) []model.EncounterMetric
	EncounterTypeMetrics(year int) []model.EncounterMetric
	PMPMByDiagnosis(year int, g model.Granularity) []model.DiagnosisPMPM
	RiskScores(year int) model.RiskScoreStats
	MemberRiskScores(year int) []model.MemberRiskScore
}

var _ Querier = (*Aggregator)(nil)
