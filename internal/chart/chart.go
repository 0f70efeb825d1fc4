// Package chart renders the dashboard as a standalone HTML page of
// go-echarts charts.
package chart

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/gyeh/outlierstats/internal/metrics"
	"github.com/gyeh/outlierstats/internal/model"
)

const (
	chartWidth       = "100%"
	barRowHeight     = 28
	minBarHeight     = 300
	emptyChartHeight = "300px"
	barColor         = "#1f77b4"
	boxColor         = "#ff7f0e"
)

// Page builds every dashboard chart for year.
func Page(m metrics.Querier, year int) *components.Page {
	page := components.NewPage()
	page.PageTitle = "Outlier Member Metrics"
	if year != 0 {
		page.PageTitle = fmt.Sprintf("Outlier Member Metrics %d", year)
	}

	page.AddCharts(
		PopulationChart("Members by Race", m.PopulationBreakdown(year, model.DimensionRace)),
		PopulationChart("Members by State", m.PopulationBreakdown(year, model.DimensionState)),
		EncounterChart("PMPM by Encounter Group", m.EncounterGroupMetrics(year), false),
		EncounterChart("PMPM by Encounter Type", m.EncounterTypeMetrics(year), true),
		DiagnosisChart("PMPM by Diagnosis Category", m.PMPMByDiagnosis(year, model.GranularityCategory)),
		RiskBoxPlot("Member Risk Scores", m.MemberRiskScores(year)),
	)
	return page
}

// Render writes the dashboard page for year.
func Render(w io.Writer, m metrics.Querier, year int) error {
	if err := Page(m, year).Render(w); err != nil {
		return fmt.Errorf("render dashboard: %w", err)
	}
	return nil
}

func barHeight(n int) string {
	h := n * barRowHeight
	if h < minBarHeight {
		h = minBarHeight
	}
	return strconv.Itoa(h) + "px"
}

// horizontalBar draws one bar per label, values on the x axis.
func horizontalBar(title, seriesName string, labels []string, values []float64) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: barHeight(len(labels))}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithGridOpts(opts.Grid{ContainLabel: opts.Bool(true), Left: "3%", Right: "4%"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", AxisLabel: &opts.AxisLabel{Interval: "0"}}),
	)

	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: v}
	}
	bar.SetXAxis(labels).
		AddSeries(seriesName, data, charts.WithItemStyleOpts(opts.ItemStyle{Color: barColor})).
		XYReversal()
	return bar
}

func emptyBar(title string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: emptyChartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "No data"}),
	)
	return bar
}

// PopulationChart plots member percentages per race or state.
func PopulationChart(title string, rows []model.PopulationShare) *charts.Bar {
	if len(rows) == 0 {
		return emptyBar(title)
	}
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.Value
		values[i] = r.Percentage
	}
	return horizontalBar(title, "% of members", labels, values)
}

// EncounterChart plots PMPM per encounter group or type. The Grand Total row
// is left out so it does not dwarf the groups.
func EncounterChart(title string, rows []model.EncounterMetric, byType bool) *charts.Bar {
	var labels []string
	var values []float64
	for _, r := range rows {
		if r.GrandTotal {
			continue
		}
		label := r.EncounterGroup
		if byType {
			label = r.EncounterGroup + " / " + r.EncounterType
		}
		labels = append(labels, label)
		values = append(values, r.PMPM)
	}
	if len(labels) == 0 {
		return emptyBar(title)
	}
	return horizontalBar(title, "PMPM", labels, values)
}

// DiagnosisChart plots PMPM per diagnosis label.
func DiagnosisChart(title string, rows []model.DiagnosisPMPM) *charts.Bar {
	if len(rows) == 0 {
		return emptyBar(title)
	}
	labels := make([]string, len(rows))
	values := make([]float64, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
		values[i] = r.PMPM
	}
	return horizontalBar(title, "PMPM", labels, values)
}

// RiskBoxPlot draws the distribution of distinct member risk scores.
func RiskBoxPlot(title string, scores []model.MemberRiskScore) *charts.BoxPlot {
	bp := charts.NewBoxPlot()
	if len(scores) == 0 {
		bp.SetGlobalOptions(
			charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: emptyChartHeight}),
			charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "No data"}),
		)
		return bp
	}

	q := metrics.Quartiles(scores)
	bp.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: "400px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("%d members", len(scores))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bp.SetXAxis([]string{"risk score"}).AddSeries("Risk score",
		[]opts.BoxPlotData{{Name: "risk score", Value: q[:]}},
		charts.WithItemStyleOpts(opts.ItemStyle{Color: "#ffffff", BorderColor: boxColor}),
	)
	return bp
}
