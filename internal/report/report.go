// Package report renders the dashboard tiles and tables as plain text.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/gyeh/outlierstats/internal/metrics"
	"github.com/gyeh/outlierstats/internal/model"
)

const msgNoYear = "No year selected"

// Tile is one labelled headline number.
type Tile struct {
	Label string
	Value string
}

// Tiles formats the summary tiles the way the dashboard shows them.
func Tiles(s model.Summary, risk model.RiskScoreStats) []Tile {
	r := s.Ratios()
	return []Tile{
		{Label: "Members", Value: FormatCount(float64(s.MemberCount))},
		{Label: "Mean Age", Value: FormatCount(s.MeanAge)},
		{Label: "Percent Female", Value: FormatPercent(r.PercentFemale)},
		{Label: "Avg HCC Risk Score", Value: fmt.Sprintf("%.2f", risk.Mean)},
		{Label: "Paid Amount", Value: FormatLargeNumber(s.TotalPaid)},
		{Label: "Paid PMPM", Value: FormatDollars(r.PaidPMPM)},
		{Label: "Encounters / 1000", Value: FormatCount(r.EncountersPer1000)},
		{Label: "Paid / Encounter", Value: FormatMoney(r.PaidPerEncounter)},
	}
}

// newTable returns a borderless go-pretty writer with the given title.
func newTable(title string) table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Format.Header = text.FormatDefault
	tbl.Style().Title.Format = text.FormatDefault
	tbl.SetTitle(title)
	return tbl
}

func rightAlign(cols ...int) []table.ColumnConfig {
	out := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		out[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	return out
}

// TileTable renders the tiles as a two-column table.
func TileTable(tiles []Tile) string {
	tbl := newTable("Summary")
	tbl.SetColumnConfigs(rightAlign(2))
	for _, t := range tiles {
		tbl.AppendRow(table.Row{t.Label, t.Value})
	}
	return tbl.Render()
}

// PopulationTable renders a race or state breakdown.
func PopulationTable(dim model.Dimension, rows []model.PopulationShare) string {
	title := "Outlier Population by " + capitalize(string(dim))
	tbl := newTable(title)
	tbl.AppendHeader(table.Row{capitalize(string(dim)), "Members", "Percentage"})
	tbl.SetColumnConfigs(rightAlign(2, 3))
	for _, r := range rows {
		tbl.AppendRow(table.Row{r.Value, FormatCount(float64(r.MemberCount)), FormatPercent(r.Percentage)})
	}
	return tbl.Render()
}

// EncounterTable renders the encounter group or type metrics.
func EncounterTable(title string, rows []model.EncounterMetric, byType bool) string {
	tbl := newTable(title)
	header := table.Row{"Encounter Group"}
	if byType {
		header = append(header, "Encounter Type")
	}
	header = append(header, "Paid", "Encounters", "PMPM", "Encounters / 1000", "Paid / Encounter")
	tbl.AppendHeader(header)

	first := 2
	if byType {
		first = 3
	}
	tbl.SetColumnConfigs(rightAlign(first, first+1, first+2, first+3, first+4))

	for _, r := range rows {
		row := table.Row{r.EncounterGroup}
		if byType {
			row = append(row, r.EncounterType)
		}
		row = append(row,
			FormatLargeNumber(r.PaidAmount),
			FormatCount(float64(r.Encounters)),
			FormatMoney(r.PMPM),
			FormatCount(r.EncountersPer1000),
			FormatMoney(r.PaidPerEncounter),
		)
		if r.GrandTotal {
			tbl.AppendSeparator()
		}
		tbl.AppendRow(row)
	}
	return tbl.Render()
}

// DiagnosisTable renders PMPM by diagnosis in display order.
func DiagnosisTable(g model.Granularity, rows []model.DiagnosisPMPM) string {
	tbl := newTable("PMPM by Diagnosis " + capitalize(string(g)))
	tbl.AppendHeader(table.Row{capitalize(string(g)), "PMPM", "% of Total", "Cumulative PMPM"})
	tbl.SetColumnConfigs(rightAlign(2, 3, 4))
	for _, r := range rows {
		tbl.AppendRow(table.Row{r.Label, FormatMoney(r.PMPM), FormatPercent(r.PercentOfTotal), FormatMoney(r.CumulativePMPM)})
	}
	return tbl.Render()
}

// RiskTable renders the risk score summary.
func RiskTable(risk model.RiskScoreStats) string {
	tbl := newTable("V24 Risk Score")
	tbl.AppendHeader(table.Row{"Members", "Mean", "Median", "Min", "Max"})
	tbl.SetColumnConfigs(rightAlign(1, 2, 3, 4, 5))
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
	tbl.AppendRow(table.Row{FormatCount(float64(risk.Count)), f(risk.Mean), f(risk.Median), f(risk.Min), f(risk.Max)})
	return tbl.Render()
}

// Write renders the full text report for year.
func Write(w io.Writer, m metrics.Querier, year int) error {
	if year == 0 {
		_, err := fmt.Fprintln(w, msgNoYear)
		return err
	}

	risk := m.RiskScores(year)
	parts := []string{
		fmt.Sprintf("=== Outlier Cost Drivers %d ===", year),
		TileTable(Tiles(m.Summary(year), risk)),
		PopulationTable(model.DimensionState, m.PopulationBreakdown(year, model.DimensionState)),
		PopulationTable(model.DimensionRace, m.PopulationBreakdown(year, model.DimensionRace)),
		RiskTable(risk),
		EncounterTable("PMPM by Encounter Group", m.EncounterGroupMetrics(year), false),
		EncounterTable("PMPM by Encounter Type", m.EncounterTypeMetrics(year), true),
		DiagnosisTable(model.GranularityCategory, m.PMPMByDiagnosis(year, model.GranularityCategory)),
		DiagnosisTable(model.GranularityDescription, m.PMPMByDiagnosis(year, model.GranularityDescription)),
	}
	_, err := io.WriteString(w, strings.Join(parts, "\n\n")+"\n")
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
