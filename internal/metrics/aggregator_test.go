package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/outlierstats/internal/model"
)

func strptr(s string) *string { return &s }

func floatptr(f float64) *float64 { return &f }

// scenarioDataset is the two-member, three-line example used across tests.
func scenarioDataset() *model.Dataset {
	return &model.Dataset{
		MemberMonths: []model.MemberMonth{
			{MemberID: "M1", Year: 2020, YearMonth: 202001, Age: 70, Sex: "female", Race: strptr("White"), State: strptr("CA")},
			{MemberID: "M2", Year: 2020, YearMonth: 202001, Age: 80, Sex: "male", Race: strptr("Black"), State: strptr("CA")},
		},
		Claims: []model.ClaimLine{
			{MemberID: "M1", EncounterID: "E1", Year: 2020, EncounterGroup: strptr("inpatient"), EncounterType: strptr("acute inpatient"), PaidAmount: 100},
			{MemberID: "M1", EncounterID: "E1", Year: 2020, EncounterGroup: strptr("inpatient"), EncounterType: strptr("acute inpatient"), PaidAmount: 50},
			{MemberID: "M2", EncounterID: "E2", Year: 2020, PaidAmount: 30},
		},
	}
}

func TestCounts(t *testing.T) {
	t.Parallel()

	ds := scenarioDataset()
	ds.MemberMonths = append(ds.MemberMonths,
		model.MemberMonth{MemberID: "M1", Year: 2020, YearMonth: 202002, Age: 70, Sex: "female"},
		model.MemberMonth{MemberID: "M1", Year: 2020, YearMonth: 202002, Age: 70, Sex: "female"},
		model.MemberMonth{MemberID: "M3", Year: 2021, YearMonth: 202101, Age: 65, Sex: "male"},
	)
	agg := New(ds)

	assert.Equal(t, 2, agg.MemberCount(2020))
	assert.Equal(t, 3, agg.MemberMonthCount(2020))
	assert.Equal(t, 2, agg.EncounterCount(2020))

	assert.Equal(t, 1, agg.MemberCount(2021))
	assert.Equal(t, 0, agg.EncounterCount(2021))
	assert.Equal(t, 0, agg.MemberCount(1999))
	assert.Equal(t, 0, agg.MemberMonthCount(1999))
}

func TestSummary_Scenario(t *testing.T) {
	t.Parallel()

	s := New(scenarioDataset()).Summary(2020)

	assert.Equal(t, 2, s.MemberCount)
	assert.Equal(t, 2, s.MemberMonthCount)
	assert.InDelta(t, 75.0, s.MeanAge, 1e-9)
	assert.Equal(t, 1, s.FemaleCount)
	assert.InDelta(t, 180.0, s.TotalPaid, 1e-9)
	assert.Equal(t, 2, s.TotalEncounters)

	r := s.Ratios()
	assert.InDelta(t, 50.0, r.PercentFemale, 1e-9)
	assert.InDelta(t, 12000.0, r.EncountersPer1000, 1e-9)
	assert.InDelta(t, 90.0, r.PaidPerEncounter, 1e-9)
	assert.InDelta(t, 90.0, r.PaidPMPM, 1e-9)
}

func TestSummary_EmptyYear(t *testing.T) {
	t.Parallel()

	agg := New(scenarioDataset())

	for _, year := range []int{0, 1999} {
		s := agg.Summary(year)
		assert.Equal(t, model.Summary{Year: year}, s)
		assert.Equal(t, model.Ratios{}, s.Ratios())
		assert.Empty(t, agg.PopulationBreakdown(year, model.DimensionRace))
		assert.Empty(t, agg.PopulationBreakdown(year, model.DimensionState))
		assert.Empty(t, agg.EncounterGroupMetrics(year))
		assert.Empty(t, agg.EncounterTypeMetrics(year))
		assert.Empty(t, agg.PMPMByDiagnosis(year, model.GranularityCategory))
		assert.Equal(t, model.RiskScoreStats{}, agg.RiskScores(year))
	}
}

func TestNew_NilDataset(t *testing.T) {
	t.Parallel()

	agg := New(nil)
	assert.Equal(t, 0, agg.MemberCount(2020))
	assert.Empty(t, agg.Years())
	assert.Empty(t, agg.EncounterGroupMetrics(2020))
}

func TestSummary_FemaleMarker(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{MemberMonths: []model.MemberMonth{
		{MemberID: "M1", Year: 2020, YearMonth: 202001, Sex: "F"},
		{MemberID: "M1", Year: 2020, YearMonth: 202002, Sex: "F"},
		{MemberID: "M2", Year: 2020, YearMonth: 202001, Sex: "female"},
	}}

	assert.Equal(t, 1, New(ds).Summary(2020).FemaleCount)
	assert.Equal(t, 1, New(ds, WithFemaleMarker("F")).Summary(2020).FemaleCount)
	assert.Equal(t, 1, New(ds, WithFemaleMarker("")).Summary(2020).FemaleCount, "empty marker keeps the default")
}

func TestRatios_ZeroDenominators(t *testing.T) {
	t.Parallel()

	r := model.Summary{FemaleCount: 3, TotalPaid: 100}.Ratios()
	assert.Zero(t, r.PercentFemale)
	assert.Zero(t, r.EncountersPer1000)
	assert.Zero(t, r.PaidPerEncounter)
	assert.Zero(t, r.PaidPMPM)
}

func TestYears(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{MemberMonths: []model.MemberMonth{
		{MemberID: "M1", Year: 2020, YearMonth: 202001},
		{MemberID: "M1", Year: 2022, YearMonth: 202201},
		{MemberID: "M2", Year: 2021, YearMonth: 202101},
		{MemberID: "M2", Year: 2020, YearMonth: 202002},
	}}

	assert.Equal(t, []int{2022, 2021, 2020}, New(ds).Years())
}

func TestIdempotent(t *testing.T) {
	t.Parallel()

	agg := New(scenarioDataset())
	for _, fn := range []func() any{
		func() any { return agg.Summary(2020) },
		func() any { return agg.PopulationBreakdown(2020, model.DimensionRace) },
		func() any { return agg.EncounterGroupMetrics(2020) },
		func() any { return agg.EncounterTypeMetrics(2020) },
		func() any { return agg.PMPMByDiagnosis(2020, model.GranularityDescription) },
		func() any { return agg.MemberRiskScores(2020) },
	} {
		first := fn()
		require.Equal(t, first, fn())
	}
}
