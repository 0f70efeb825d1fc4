package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/outlierstats/internal/exitcode"
	"github.com/gyeh/outlierstats/internal/logging"
	"github.com/gyeh/outlierstats/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard tiles and tables for a year",
	RunE:  runReport,
}

func init() {
	addSourceFlags(reportCmd)
	addYearFlag(reportCmd)
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	year := cfg.SelectedYear()
	m := openMetrics(cmd.Context(), log, year)

	if year == 0 {
		log.Warn().Str("year", cfg.Year).Msg("no year selected, results are empty")
	}
	if err := report.Write(cmd.OutOrStdout(), m, year); err != nil {
		log.Error().Err(err).Msg("write report failed")
		os.Exit(exitcode.RenderError)
	}

	st := m.Stats()
	log.Debug().Int64("cache_hits", st.Hits).Int64("cache_misses", st.Misses).Msg("report complete")
	return nil
}
