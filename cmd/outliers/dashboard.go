package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/outlierstats/internal/chart"
	"github.com/gyeh/outlierstats/internal/exitcode"
	"github.com/gyeh/outlierstats/internal/logging"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Write the dashboard charts for a year as an HTML page",
	RunE:  runDashboard,
}

func init() {
	addSourceFlags(dashboardCmd)
	addYearFlag(dashboardCmd)
	dashboardCmd.Flags().StringVar(&cfg.OutputPath, "out", "dashboard.html", "Output HTML file")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	year := cfg.SelectedYear()
	m := openMetrics(cmd.Context(), log, year)

	if year == 0 {
		log.Warn().Str("year", cfg.Year).Msg("no year selected, charts are empty")
	}

	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		log.Error().Err(err).Msg("create output file failed")
		os.Exit(exitcode.RenderError)
	}
	if err := chart.Render(f, m, year); err != nil {
		f.Close()
		log.Error().Err(err).Msg("render dashboard failed")
		os.Exit(exitcode.RenderError)
	}
	if err := f.Close(); err != nil {
		log.Error().Err(err).Msg("close output file failed")
		os.Exit(exitcode.RenderError)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Dashboard written to %s\n", cfg.OutputPath)
	return nil
}
