package main

import (
	"github.com/spf13/cobra"

	"github.com/gyeh/outlierstats/internal/config"
)

var (
	cfg        config.Config
	configPath string
	envErr     error
)

var rootCmd = &cobra.Command{
	Use:   "outliers",
	Short: "PMPM metrics for high-cost outlier members",
	Long: "Loads outlier claim lines and member months from CSV, Parquet or Postgres and " +
		"reports population, encounter, diagnosis and risk-score metrics per year.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envErr != nil {
			return envErr
		}
		if configPath != "" {
			if err := cfg.LoadFromFile(configPath); err != nil {
				return err
			}
		}
		return cfg.Validate()
	},
}

func init() {
	env, err := config.LoadEnv()
	if err != nil {
		envErr = err
		env = config.Env{LogFormat: "text", LogLevel: "info"}
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.DSN, "dsn", env.DSN, "Postgres connection string (or set OUTLIERS_DB_URL)")
	pf.StringVar(&cfg.LogFormat, "log-format", env.LogFormat, "Log format: text or json")
	pf.StringVar(&cfg.LogLevel, "log-level", env.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&configPath, "config", "", "Optional YAML config file")
	pf.IntVar(&cfg.CacheSize, "cache-size", env.CacheSize, "Memoized query entries")
}

// addSourceFlags registers the dataset selection flags shared by the query commands.
func addSourceFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&cfg.ClaimsPath, "claims", "", "Claim-line file (.csv or .parquet)")
	f.StringVar(&cfg.MemberMonthsPath, "member-months", "", "Member-month file (.csv or .parquet)")
	f.BoolVar(&cfg.FromDB, "from-db", false, "Read loaded tables from Postgres instead of files")
	f.StringVar(&cfg.FemaleMarker, "female-marker", "", "Sex value counted as female (default \"female\")")
}

func addYearFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cfg.Year, "year", "", "Year to report on (required for results)")
}
