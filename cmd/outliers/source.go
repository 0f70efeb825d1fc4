package main

import (
	"context"
	"os"

	"github.com/rs/zerolog"

	"github.com/gyeh/outlierstats/internal/dataset"
	"github.com/gyeh/outlierstats/internal/db"
	"github.com/gyeh/outlierstats/internal/exitcode"
	"github.com/gyeh/outlierstats/internal/memo"
	"github.com/gyeh/outlierstats/internal/metrics"
	"github.com/gyeh/outlierstats/internal/model"
)

// openMetrics loads the selected dataset and wraps it in a memoized aggregator.
// A non-zero year limits a database read to that year's rows.
// It exits the process on failure, like the other commands.
func openMetrics(ctx context.Context, log zerolog.Logger, year int) *memo.Cache {
	if err := cfg.ValidateSource(); err != nil {
		log.Error().Err(err).Msg("config validation failed")
		os.Exit(exitcode.UsageError)
	}

	var src dataset.Source = dataset.Files{ClaimsPath: cfg.ClaimsPath, MemberMonthsPath: cfg.MemberMonthsPath}
	if cfg.FromDB {
		store, closeStore := openStore(ctx, log)
		defer closeStore()
		src = storeSource(store, year)
	}

	ds, err := src.Load(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load dataset failed")
		os.Exit(exitcode.ValidationError)
	}
	log.Debug().
		Int("claim_lines", len(ds.Claims)).
		Int("member_months", len(ds.MemberMonths)).
		Bool("from_db", cfg.FromDB).
		Int("year", year).
		Msg("dataset loaded")

	cache, err := memo.New(metrics.New(ds, metrics.WithFemaleMarker(cfg.FemaleMarker)), cfg.CacheSize)
	if err != nil {
		log.Error().Err(err).Msg("create cache failed")
		os.Exit(exitcode.UsageError)
	}
	return cache
}

// openStore connects to the database named by cfg.DSN.
func openStore(ctx context.Context, log zerolog.Logger) (*db.Store, func()) {
	pool, err := db.NewPool(ctx, cfg.DSN)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		os.Exit(exitcode.DBConnError)
	}
	return db.NewStore(pool), pool.Close
}

// storeSource reads the whole store, or only year when one is selected.
func storeSource(store *db.Store, year int) dataset.Source {
	if year == 0 {
		return store
	}
	return yearSource{store: store, year: year}
}

type yearSource struct {
	store *db.Store
	year  int
}

func (s yearSource) Load(ctx context.Context) (*model.Dataset, error) {
	return s.store.LoadYear(ctx, s.year)
}

var (
	_ dataset.Source = (*db.Store)(nil)
	_ dataset.Source = yearSource{}
)
