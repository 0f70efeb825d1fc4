package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/gyeh/outlierstats/internal/dataset"
	"github.com/gyeh/outlierstats/internal/exitcode"
	"github.com/gyeh/outlierstats/internal/logging"
	"github.com/gyeh/outlierstats/internal/metrics"
	"github.com/gyeh/outlierstats/internal/normalize"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Dry-run validation and stats (no writes)",
	RunE:  runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&cfg.ClaimsPath, "claims", "", "Claim-line file (.csv or .parquet)")
	f.StringVar(&cfg.MemberMonthsPath, "member-months", "", "Member-month file (.csv or .parquet)")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)

	if err := cfg.ValidateFiles(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	fmt.Println("=== outliers plan ===")
	for _, path := range []string{cfg.ClaimsPath, cfg.MemberMonthsPath} {
		if path == "" {
			continue
		}
		sha, err := normalize.FileHash(path)
		if err != nil {
			log.Error().Err(err).Msg("failed to hash file")
			os.Exit(exitcode.ValidationError)
		}
		stat, err := os.Stat(path)
		if err != nil {
			log.Error().Err(err).Msg("failed to stat file")
			os.Exit(exitcode.ValidationError)
		}
		format, _ := dataset.DetectFormat(path)
		fmt.Printf("File:       %s (%s)\n", path, format)
		fmt.Printf("SHA-256:    %s\n", sha)
		fmt.Printf("Size:       %s\n", humanize.Bytes(uint64(stat.Size())))
	}

	// Full read with the strict readers: the first bad row fails the plan.
	ds, err := dataset.Files{ClaimsPath: cfg.ClaimsPath, MemberMonthsPath: cfg.MemberMonthsPath}.Load(cmd.Context())
	if err != nil {
		log.Error().Err(err).Msg("validation failed")
		os.Exit(exitcode.ValidationError)
	}

	agg := metrics.New(ds)
	fmt.Printf("Claim lines:   %s\n", humanize.Comma(int64(len(ds.Claims))))
	fmt.Printf("Member months: %s\n", humanize.Comma(int64(len(ds.MemberMonths))))
	fmt.Println()
	fmt.Println("Per year:")
	for _, y := range agg.Years() {
		fmt.Printf("  %d  members=%s  member_months=%s  encounters=%s\n", y,
			humanize.Comma(int64(agg.MemberCount(y))),
			humanize.Comma(int64(agg.MemberMonthCount(y))),
			humanize.Comma(int64(agg.EncounterCount(y))))
	}
	fmt.Println("Validation: OK")

	return nil
}
