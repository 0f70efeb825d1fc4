package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gyeh/outlierstats/internal/exitcode"
	"github.com/gyeh/outlierstats/internal/logging"
)

var yearsCmd = &cobra.Command{
	Use:   "years",
	Short: "List the years present in the member-month data, newest first",
	RunE:  runYears,
}

func init() {
	addSourceFlags(yearsCmd)
	rootCmd.AddCommand(yearsCmd)
}

func runYears(cmd *cobra.Command, args []string) error {
	log := logging.Setup(cfg.LogFormat, cfg.LogLevel)
	ctx := cmd.Context()

	var years []int
	if cfg.FromDB {
		if err := cfg.ValidateDSN(); err != nil {
			log.Error().Err(err).Msg("config validation failed")
			os.Exit(exitcode.UsageError)
		}
		store, closeStore := openStore(ctx, log)
		var err error
		years, err = store.Years(ctx)
		closeStore()
		if err != nil {
			log.Error().Err(err).Msg("query years failed")
			os.Exit(exitcode.DBConnError)
		}
	} else {
		years = openMetrics(ctx, log, 0).Years()
	}

	for _, y := range years {
		fmt.Fprintln(cmd.OutOrStdout(), y)
	}
	return nil
}
