package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/outlierstats/internal/sql"
)

// Finalize marks the file loaded and runs ANALYZE on the data tables.
func Finalize(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult, rowsLoaded int64) (time.Duration, error) {
	start := time.Now()

	if err := UpdateStatus(ctx, pool, pf.LoadFileID, "loaded", pf.LoadBatchID, rowsLoaded); err != nil {
		return 0, fmt.Errorf("update status to loaded: %w", err)
	}
	log.Info().Int64("load_file_id", pf.LoadFileID).Msg("file marked loaded")

	if _, err := pool.Exec(ctx, sql.AnalyzeTables); err != nil {
		return 0, fmt.Errorf("analyze tables: %w", err)
	}
	log.Info().Msg("ANALYZE complete")

	return time.Since(start), nil
}
