package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/outlierstats/internal/model"
)

func TestEncounterGroupMetrics_Scenario(t *testing.T) {
	t.Parallel()

	got := New(scenarioDataset()).EncounterGroupMetrics(2020)
	require.Len(t, got, 3)

	null, inpatient, total := got[0], got[1], got[2]

	assert.Equal(t, "null", null.EncounterGroup)
	assert.InDelta(t, 30.0, null.PaidAmount, 1e-9)
	assert.InDelta(t, 15.0, null.PMPM, 1e-9)
	assert.InDelta(t, 6000.0, null.EncountersPer1000, 1e-9)
	assert.InDelta(t, 30.0, null.PaidPerEncounter, 1e-9)

	assert.Equal(t, "inpatient", inpatient.EncounterGroup)
	assert.InDelta(t, 150.0, inpatient.PaidAmount, 1e-9)
	assert.InDelta(t, 75.0, inpatient.PMPM, 1e-9)
	assert.InDelta(t, 6000.0, inpatient.EncountersPer1000, 1e-9)
	assert.InDelta(t, 150.0, inpatient.PaidPerEncounter, 1e-9)
	assert.Equal(t, 1, inpatient.Encounters)

	assert.True(t, total.GrandTotal)
	assert.Equal(t, model.GrandTotalLabel, total.EncounterGroup)
	assert.Empty(t, total.EncounterType)
	assert.InDelta(t, 90.0, total.PMPM, 1e-9)
	assert.InDelta(t, 12000.0, total.EncountersPer1000, 1e-9)
	// 180 paid over 2 distinct encounters; E1 has two lines.
	assert.InDelta(t, 90.0, total.PaidPerEncounter, 1e-9)
	assert.InDelta(t, 180.0, total.PaidAmount, 1e-9)
	assert.Equal(t, 2, total.Encounters)
}

func TestEncounterGroupMetrics_TotalIsSumOfRows(t *testing.T) {
	t.Parallel()

	ds := scenarioDataset()
	ds.Claims = append(ds.Claims,
		model.ClaimLine{EncounterID: "E3", Year: 2020, EncounterGroup: strptr("outpatient"), PaidAmount: 12.5},
		model.ClaimLine{EncounterID: "E4", Year: 2020, EncounterGroup: strptr("outpatient"), PaidAmount: 7.25},
		model.ClaimLine{EncounterID: "E5", Year: 2020, EncounterGroup: strptr("office based"), PaidAmount: 3},
	)

	got := New(ds).EncounterGroupMetrics(2020)
	require.NotEmpty(t, got)

	var pmpm, per1000 float64
	var total model.EncounterMetric
	for i, row := range got {
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].PMPM, row.PMPM, "rows ascend by PMPM")
		}
		if row.GrandTotal {
			total = row
			continue
		}
		pmpm += row.PMPM
		per1000 += row.EncountersPer1000
	}
	assert.InDelta(t, pmpm, total.PMPM, 1e-9)
	assert.InDelta(t, per1000, total.EncountersPer1000, 1e-9)
	assert.True(t, got[len(got)-1].GrandTotal)
}

func TestEncounterTypeMetrics_Scenario(t *testing.T) {
	t.Parallel()

	got := New(scenarioDataset()).EncounterTypeMetrics(2020)
	require.Len(t, got, 3)

	assert.Equal(t, "null", got[0].EncounterGroup)
	assert.Equal(t, "null", got[0].EncounterType)
	assert.Equal(t, "inpatient", got[1].EncounterGroup)
	assert.Equal(t, "acute inpatient", got[1].EncounterType)
	assert.InDelta(t, 75.0, got[1].PMPM, 1e-9)
	assert.Equal(t, model.GrandTotalLabel, got[2].EncounterGroup)
	assert.Equal(t, model.GrandTotalLabel, got[2].EncounterType)
	assert.InDelta(t, 90.0, got[2].PMPM, 1e-9)
	assert.InDelta(t, 90.0, got[2].PaidPerEncounter, 1e-9)
}

func TestEncounterTypeMetrics_SplitsGroupByType(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{
		MemberMonths: []model.MemberMonth{{MemberID: "M1", Year: 2020, YearMonth: 202001}},
		Claims: []model.ClaimLine{
			{EncounterID: "E1", Year: 2020, EncounterGroup: strptr("outpatient"), EncounterType: strptr("emergency department"), PaidAmount: 10},
			{EncounterID: "E2", Year: 2020, EncounterGroup: strptr("outpatient"), EncounterType: strptr("urgent care"), PaidAmount: 20},
			{EncounterID: "E3", Year: 2020, EncounterGroup: strptr("outpatient"), PaidAmount: 5},
		},
	}

	got := New(ds).EncounterTypeMetrics(2020)
	require.Len(t, got, 4)
	assert.Equal(t, "null", got[0].EncounterType)
	assert.Equal(t, "emergency department", got[1].EncounterType)
	assert.Equal(t, "urgent care", got[2].EncounterType)
	assert.InDelta(t, 35.0, got[3].PMPM, 1e-9)
	assert.InDelta(t, 36000.0, got[3].EncountersPer1000, 1e-9)
}

func TestEncounterMetrics_NoMemberMonths(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{Claims: []model.ClaimLine{{EncounterID: "E1", Year: 2020, EncounterGroup: strptr("inpatient"), PaidAmount: 100}}}
	agg := New(ds)

	for _, got := range [][]model.EncounterMetric{agg.EncounterGroupMetrics(2020), agg.EncounterTypeMetrics(2020)} {
		require.Len(t, got, 2)
		row, total := got[0], got[1]

		assert.Equal(t, "inpatient", row.EncounterGroup)
		assert.InDelta(t, 100.0, row.PaidAmount, 1e-9)
		assert.Zero(t, row.PMPM)
		assert.Zero(t, row.EncountersPer1000)
		assert.InDelta(t, 100.0, row.PaidPerEncounter, 1e-9)

		assert.True(t, total.GrandTotal)
		assert.InDelta(t, 100.0, total.PaidAmount, 1e-9)
		assert.Zero(t, total.PMPM)
		assert.InDelta(t, 100.0, total.PaidPerEncounter, 1e-9)
	}
	assert.InDelta(t, agg.Summary(2020).TotalPaid, agg.EncounterGroupMetrics(2020)[1].PaidAmount, 1e-9)
}

func TestEncounterMetrics_NoClaims(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{MemberMonths: []model.MemberMonth{{MemberID: "M1", Year: 2020, YearMonth: 202001}}}

	assert.Empty(t, New(ds).EncounterGroupMetrics(2020))
	assert.Empty(t, New(ds).EncounterTypeMetrics(2020))
}

func TestEncounterMetrics_GrandTotalSortsLastOnTie(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{
		MemberMonths: []model.MemberMonth{{MemberID: "M1", Year: 2020, YearMonth: 202001}},
		Claims:       []model.ClaimLine{{EncounterID: "E1", Year: 2020, EncounterGroup: strptr("inpatient"), PaidAmount: 10}},
	}

	got := New(ds).EncounterGroupMetrics(2020)
	require.Len(t, got, 2)
	assert.Equal(t, "inpatient", got[0].EncounterGroup)
	assert.True(t, got[1].GrandTotal)
}
