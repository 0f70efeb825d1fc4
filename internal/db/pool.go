package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema holds every outlier table.
const Schema = "outlier"

// NewPool creates a pgxpool whose sessions resolve unqualified names in Schema
// first and never time out a statement, so long COPYs and full-table reads
// run to completion.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	params := cfg.ConnConfig.RuntimeParams
	params["statement_timeout"] = "0"
	params["application_name"] = "outliers"
	params["search_path"] = Schema + ", public"

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping outlier database: %w", err)
	}

	return pool, nil
}
