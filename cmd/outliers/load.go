package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/outlierstats/internal/db"
	"github.com/gyeh/outlierstats/internal/exitcode"
	"github.com/gyeh/outlierstats/internal/ingest"
	"github.com/gyeh/outlierstats/internal/logging"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Bulk-load claims and member-month files into Postgres",
	RunE:  runLoad,
}

func init() {
	f := loadCmd.Flags()
	f.StringVar(&cfg.ClaimsPath, "claims", "", "Claim-line file (.csv or .parquet)")
	f.StringVar(&cfg.MemberMonthsPath, "member-months", "", "Member-month file (.csv or .parquet)")
	f.BoolVar(&cfg.Force, "force", false, "Reload even if the file SHA was already loaded")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()

	if err := cfg.ValidateWithDSN(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	defer pool.Close()

	summary, err := ingest.Run(ctx, pool, log, &cfg)
	if err != nil {
		var pe *ingest.PipelineError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("load failed")
			switch pe.Phase {
			case ingest.PhasePreflight:
				os.Exit(exitcode.ValidationError)
			case ingest.PhaseStage:
				os.Exit(exitcode.CopyError)
			default:
				os.Exit(exitcode.FinalizeError)
			}
		}
		log.Error().Err(err).Msg("load failed")
		os.Exit(exitcode.FinalizeError)
	}

	for _, f := range summary.Files {
		if f.AlreadyLoaded {
			fmt.Printf("%-14s %s already loaded (load_file_id %d)\n", f.Kind, f.FilePath, f.LoadFileID)
			continue
		}
		fmt.Printf("%-14s %s: %d rows loaded, %d rejected\n", f.Kind, f.FilePath, f.RowsLoaded, f.RowsRejected)
	}
	fmt.Printf("Load complete: %d rows loaded (%.1fs)\n", summary.RowsLoaded, summary.DurationTotal.Seconds())

	if summary.RowsRejected > 0 {
		os.Exit(exitcode.PartialSuccess)
	}
	return nil
}
