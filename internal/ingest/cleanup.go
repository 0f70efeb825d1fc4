package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/outlierstats/internal/model"
	"github.com/gyeh/outlierstats/internal/sql"
)

// Cleanup deletes rows that earlier loads of the same file left behind, so a
// forced reload replaces rather than duplicates them.
func Cleanup(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult) error {
	start := time.Now()

	query := sql.DeleteSupersededClaims
	if pf.Kind == model.KindMemberMonths {
		query = sql.DeleteSupersededMemberMonths
	}

	tag, err := pool.Exec(ctx, query, pf.LoadFileID, pf.LoadBatchID)
	if err != nil {
		return fmt.Errorf("delete superseded rows: %w", err)
	}

	log.Info().
		Int64("rows_deleted", tag.RowsAffected()).
		Dur("duration", time.Since(start)).
		Msg("superseded rows cleanup complete")

	return nil
}
