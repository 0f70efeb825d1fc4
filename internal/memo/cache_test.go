package memo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/outlierstats/internal/metrics"
	"github.com/gyeh/outlierstats/internal/model"
)

func strptr(s string) *string { return &s }

func newTestCache(t *testing.T, size int) (*Cache, *metrics.Aggregator) {
	t.Helper()
	ds := &model.Dataset{
		MemberMonths: []model.MemberMonth{
			{MemberID: "M1", Year: 2020, YearMonth: 202001, Age: 70, Sex: "female", Race: strptr("White")},
			{MemberID: "M2", Year: 2020, YearMonth: 202001, Age: 80, Sex: "male", Race: strptr("Black")},
			{MemberID: "M1", Year: 2021, YearMonth: 202101, Age: 71, Sex: "female"},
		},
		Claims: []model.ClaimLine{
			{MemberID: "M1", EncounterID: "E1", Year: 2020, EncounterGroup: strptr("inpatient"), DiagnosisCategory: strptr("CIR"), PaidAmount: 100},
			{MemberID: "M2", EncounterID: "E2", Year: 2020, PaidAmount: 30},
		},
	}
	agg := metrics.New(ds)
	c, err := New(agg, size)
	require.NoError(t, err)
	return c, agg
}

func TestCache_MatchesAggregator(t *testing.T) {
	t.Parallel()

	c, agg := newTestCache(t, 0)

	assert.Equal(t, agg.Years(), c.Years())
	assert.Equal(t, agg.Summary(2020), c.Summary(2020))
	assert.Equal(t, agg.MemberCount(2020), c.MemberCount(2020))
	assert.Equal(t, agg.MemberMonthCount(2020), c.MemberMonthCount(2020))
	assert.Equal(t, agg.EncounterCount(2020), c.EncounterCount(2020))
	assert.Equal(t, agg.PopulationBreakdown(2020, model.DimensionRace), c.PopulationBreakdown(2020, model.DimensionRace))
	assert.Equal(t, agg.EncounterGroupMetrics(2020), c.EncounterGroupMetrics(2020))
	assert.Equal(t, agg.EncounterTypeMetrics(2020), c.EncounterTypeMetrics(2020))
	assert.Equal(t, agg.PMPMByDiagnosis(2020, model.GranularityCategory), c.PMPMByDiagnosis(2020, model.GranularityCategory))
	assert.Equal(t, agg.RiskScores(2020), c.RiskScores(2020))
	assert.Equal(t, agg.MemberRiskScores(2020), c.MemberRiskScores(2020))
}

func TestCache_HitsAndMisses(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)

	c.Summary(2020)
	c.Summary(2020)
	c.Summary(2021)

	st := c.Stats()
	assert.Equal(t, int64(1), st.Hits)
	assert.Equal(t, int64(2), st.Misses)
	assert.Equal(t, 2, st.Entries)
}

func TestCache_KeysIncludeArguments(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)

	cat := c.PMPMByDiagnosis(2020, model.GranularityCategory)
	desc := c.PMPMByDiagnosis(2020, model.GranularityDescription)
	require.NotEmpty(t, cat)
	require.NotEmpty(t, desc)
	assert.Equal(t, "CIR", cat[len(cat)-1].Label)
	assert.Equal(t, model.NullLabel, desc[0].Label)
	assert.Equal(t, int64(2), c.Stats().Misses)
}

func TestCache_ReturnedSlicesAreCopies(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 0)

	rows := c.EncounterGroupMetrics(2020)
	require.NotEmpty(t, rows)
	want := rows[0]
	rows[0].PMPM = -1
	rows[0].EncounterGroup = "mutated"

	again := c.EncounterGroupMetrics(2020)
	assert.Equal(t, want, again[0])

	years := c.Years()
	years[0] = 1
	assert.Equal(t, []int{2021, 2020}, c.Years())
}

func TestCache_Bounded(t *testing.T) {
	t.Parallel()

	c, _ := newTestCache(t, 2)

	c.MemberCount(2020)
	c.MemberCount(2021)
	c.MemberCount(2022)
	assert.Equal(t, 2, c.Stats().Entries)

	c.MemberCount(2020)
	assert.Equal(t, int64(4), c.Stats().Misses)

	c.Purge()
	assert.Equal(t, 0, c.Stats().Entries)
}

func TestCache_KeysDoNotCollide(t *testing.T) {
	t.Parallel()

	c, agg := newTestCache(t, 0)

	require.NotEmpty(t, c.PopulationBreakdown(2020, model.DimensionRace))
	odd := model.Dimension("20" + string(model.DimensionRace))
	assert.Equal(t, agg.PopulationBreakdown(20, odd), c.PopulationBreakdown(20, odd))
	assert.Equal(t, int64(2), c.Stats().Misses)
}
