package chart

import (
	"bytes"
	"testing"

	"github.com/go-echarts/go-echarts/v2/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/outlierstats/internal/metrics"
	"github.com/gyeh/outlierstats/internal/model"
)

func strptr(s string) *string { return &s }

func floatptr(f float64) *float64 { return &f }

func testAggregator() *metrics.Aggregator {
	return metrics.New(&model.Dataset{
		MemberMonths: []model.MemberMonth{
			{MemberID: "M1", Year: 2020, YearMonth: 202001, Sex: "female", Race: strptr("White"), State: strptr("CA"), RiskScore: floatptr(1)},
			{MemberID: "M2", Year: 2020, YearMonth: 202001, Sex: "male", Race: strptr("Black"), State: strptr("NY"), RiskScore: floatptr(3)},
		},
		Claims: []model.ClaimLine{
			{MemberID: "M1", EncounterID: "E1", Year: 2020, EncounterGroup: strptr("inpatient"), EncounterType: strptr("acute inpatient"), DiagnosisCategory: strptr("CIR"), PaidAmount: 100},
			{MemberID: "M2", EncounterID: "E2", Year: 2020, PaidAmount: 30},
		},
	})
}

func renderChart(t *testing.T, c any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, render.NewChartRender(c).Render(&buf))
	return buf.String()
}

func TestRender_Page(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testAggregator(), 2020))

	html := buf.String()
	assert.Contains(t, html, "Outlier Member Metrics 2020")
	assert.Contains(t, html, "Members by Race")
	assert.Contains(t, html, "PMPM by Encounter Type")
	assert.Contains(t, html, "Member Risk Scores")
	assert.Contains(t, html, "inpatient / acute inpatient")
}

func TestRender_NoYear(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, testAggregator(), 0))
	assert.Contains(t, buf.String(), "No data")
}

func TestEncounterChart_SkipsGrandTotal(t *testing.T) {
	t.Parallel()

	rows := testAggregator().EncounterGroupMetrics(2020)
	require.True(t, rows[len(rows)-1].GrandTotal)

	html := renderChart(t, EncounterChart("PMPM by Encounter Group", rows, false))
	assert.NotContains(t, html, model.GrandTotalLabel)
	assert.Contains(t, html, "inpatient")
}

func TestEmptyCharts(t *testing.T) {
	t.Parallel()

	for name, c := range map[string]any{
		"population": PopulationChart("Members by Race", nil),
		"encounter":  EncounterChart("PMPM by Encounter Group", nil, false),
		"diagnosis":  DiagnosisChart("PMPM by Diagnosis Category", nil),
		"risk":       RiskBoxPlot("Member Risk Scores", nil),
	} {
		assert.Contains(t, renderChart(t, c), "No data", name)
	}
}

func TestBarHeight(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "300px", barHeight(2))
	assert.Equal(t, "560px", barHeight(20))
}
