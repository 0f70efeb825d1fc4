package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/outlierstats/internal/csvread"
	"github.com/gyeh/outlierstats/internal/db"
	"github.com/gyeh/outlierstats/internal/model"
	"github.com/gyeh/outlierstats/internal/normalize"
	"github.com/gyeh/outlierstats/internal/sql"
)

// StageResult holds metrics from the staging phase.
type StageResult struct {
	RowsRead     int64
	RowsLoaded   int64
	RowsRejected int64
	Duration     time.Duration
}

// Stage streams rows from the file and COPY-loads them into the table for its
// kind via a channel-backed CopyFromSource.
func Stage(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, pf *PreflightResult) (*StageResult, error) {
	switch pf.Kind {
	case model.KindClaims:
		stream, err := openClaims(pf.Format, pf.FilePath)
		if err != nil {
			return nil, fmt.Errorf("stage open: %w", err)
		}
		defer stream.Close()
		return stageRows(ctx, pool, log, stream,
			pgx.Identifier{"outlier", "claim_lines"}, model.ClaimLineColumns(),
			func(c *model.ClaimLine) (*model.StagedClaim, error) {
				if err := checkClaim(c); err != nil {
					return nil, err
				}
				return &model.StagedClaim{LoadBatchID: pf.LoadBatchID, LoadFileID: pf.LoadFileID, ClaimLine: *c}, nil
			})
	case model.KindMemberMonths:
		stream, err := openMemberMonths(pf.Format, pf.FilePath)
		if err != nil {
			return nil, fmt.Errorf("stage open: %w", err)
		}
		defer stream.Close()
		return stageRows(ctx, pool, log, stream,
			pgx.Identifier{"outlier", "member_months"}, model.MemberMonthColumns(),
			func(m *model.MemberMonth) (*model.StagedMemberMonth, error) {
				if err := checkMemberMonth(m); err != nil {
					return nil, err
				}
				return &model.StagedMemberMonth{LoadBatchID: pf.LoadBatchID, LoadFileID: pf.LoadFileID, MemberMonth: *m}, nil
			})
	}
	return nil, fmt.Errorf("unknown file kind %q", pf.Kind)
}

func stageRows[T any, R db.Copyable](
	ctx context.Context,
	pool *pgxpool.Pool,
	log zerolog.Logger,
	stream rowStream[T],
	table pgx.Identifier,
	columns []string,
	toRow func(*T) (R, error),
) (*StageResult, error) {
	start := time.Now()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ch := make(chan R, readBatchSize)
	errCh := make(chan error, 1)
	source := db.NewChannelSource(ch)
	fail := func(err error) {
		source.Fail(err)
		errCh <- err
	}

	var rowsRead, rowsRejected int64

	// Producer goroutine: read file → check → push to channel
	go func() {
		defer close(ch)
		var rowNum int64
		for {
			rec, err := stream.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			rowNum++
			rowsRead++
			if err != nil {
				if !csvread.IsRowError(err) {
					fail(fmt.Errorf("read row %d: %w", rowNum, err))
					return
				}
				rowsRejected++
				log.Warn().Err(err).Int64("row", rowNum).Msg("row rejected")
				continue
			}

			row, err := toRow(&rec)
			if err != nil {
				rowsRejected++
				log.Warn().Err(err).Int64("row", rowNum).Msg("row rejected")
				continue
			}

			select {
			case ch <- row:
			case <-ctx.Done():
				fail(ctx.Err())
				return
			}
		}
		errCh <- nil
	}()

	// Consumer: COPY from channel into the target table
	rowsLoaded, err := pool.CopyFrom(ctx, table, columns, source)
	if err != nil {
		// Unblock the producer if COPY gave up early.
		cancel()
		for range ch {
		}
	}

	// Wait for producer to finish
	prodErr := <-errCh
	if prodErr != nil && !(err != nil && errors.Is(prodErr, context.Canceled)) {
		return nil, fmt.Errorf("stage producer: %w", prodErr)
	}
	if err != nil {
		return nil, fmt.Errorf("stage copy: %w", err)
	}

	dur := time.Since(start)
	log.Info().
		Int64("rows_read", rowsRead).
		Int64("rows_loaded", rowsLoaded).
		Int64("rows_rejected", rowsRejected).
		Str("duration", dur.String()).
		Float64("rows_per_sec", float64(rowsLoaded)/dur.Seconds()).
		Msg("staging complete")

	return &StageResult{
		RowsRead:     rowsRead,
		RowsLoaded:   rowsLoaded,
		RowsRejected: rowsRejected,
		Duration:     dur,
	}, nil
}

// checkClaim applies the checks the CSV reader does to rows from any source.
func checkClaim(c *model.ClaimLine) error {
	switch {
	case c.EncounterID == "":
		return fmt.Errorf("empty encounter_id")
	case c.Year <= 0:
		return fmt.Errorf("invalid year %d", c.Year)
	case math.IsInf(c.PaidAmount, 0) || math.IsNaN(c.PaidAmount):
		return fmt.Errorf("non-finite paid_amount %v", c.PaidAmount)
	case c.PaidAmount < 0:
		return fmt.Errorf("negative paid_amount %v", c.PaidAmount)
	}
	return nil
}

func checkMemberMonth(m *model.MemberMonth) error {
	if m.MemberID == "" {
		return fmt.Errorf("empty member_id")
	}
	if m.YearMonth <= 0 {
		return fmt.Errorf("invalid year_month %d", m.YearMonth)
	}
	if m.Year <= 0 {
		m.Year = normalize.YearOf(m.YearMonth)
	}
	if m.Age < 0 {
		return fmt.Errorf("negative age %d", m.Age)
	}
	if r := m.RiskScore; r != nil && (math.IsInf(*r, 0) || math.IsNaN(*r)) {
		return fmt.Errorf("non-finite risk_score %v", *r)
	}
	return nil
}

// UpdateStatus records a load_files status transition.
func UpdateStatus(ctx context.Context, pool *pgxpool.Pool, loadFileID int64, status string, batchID uuid.UUID, rowsLoaded int64) error {
	_, err := pool.Exec(ctx, sql.UpdateLoadStatus, loadFileID, status, batchID, rowsLoaded)
	return err
}
