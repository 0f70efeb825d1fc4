package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/outlierstats/internal/config"
	"github.com/gyeh/outlierstats/internal/db"
	"github.com/gyeh/outlierstats/internal/model"
)

// Pipeline phases, as reported in PipelineError.Phase.
const (
	PhasePreflight = "preflight"
	PhaseStage     = "stage"
	PhaseFinalize  = "finalize"
	PhaseCleanup   = "cleanup"
)

// PipelineError wraps an error with the phase where it occurred.
type PipelineError struct {
	Phase string
	Err   error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// input is one file named on the command line.
type input struct {
	kind model.FileKind
	path string
}

func inputs(cfg *config.Config) []input {
	var in []input
	if cfg.ClaimsPath != "" {
		in = append(in, input{kind: model.KindClaims, path: cfg.ClaimsPath})
	}
	if cfg.MemberMonthsPath != "" {
		in = append(in, input{kind: model.KindMemberMonths, path: cfg.MemberMonthsPath})
	}
	return in
}

// Run loads the claims and/or member-months files named in cfg:
// preflight → stage → finalize → cleanup, once per file. All files in a run
// share one load batch.
func Run(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, cfg *config.Config) (*model.LoadSummary, error) {
	totalStart := time.Now()
	batchID := uuid.New()
	summary := &model.LoadSummary{LoadBatchID: batchID.String()}

	if err := db.CheckSchema(ctx, pool); err != nil {
		return nil, &PipelineError{Phase: PhasePreflight, Err: err}
	}

	for _, in := range inputs(cfg) {
		flog := log.With().Str("kind", string(in.kind)).Logger()

		// Phase 1: Preflight
		flog.Info().Str("file", in.path).Msg("starting preflight")
		pf, err := Preflight(ctx, pool, flog, in.kind, in.path, batchID, cfg.Force)
		if err != nil {
			return nil, &PipelineError{Phase: PhasePreflight, Err: err}
		}

		fl := model.FileLoad{
			Kind:          in.kind,
			FilePath:      pf.FilePath,
			FileSHA256:    pf.FileSHA256,
			LoadFileID:    pf.LoadFileID,
			AlreadyLoaded: pf.AlreadyLoaded,
		}
		if pf.AlreadyLoaded {
			flog.Info().
				Int64("load_file_id", pf.LoadFileID).
				Str("sha256", pf.FileSHA256).
				Msg("file already loaded, skipping (use --force to reload)")
			summary.Files = append(summary.Files, fl)
			continue
		}

		// Phase 2: Stage
		if err := UpdateStatus(ctx, pool, pf.LoadFileID, "staging", batchID, 0); err != nil {
			return nil, &PipelineError{Phase: PhaseStage, Err: err}
		}
		stageResult, err := Stage(ctx, pool, flog, pf)
		if err != nil {
			_ = UpdateStatus(ctx, pool, pf.LoadFileID, "failed", batchID, 0)
			return nil, &PipelineError{Phase: PhaseStage, Err: err}
		}
		summary.DurationStage += stageResult.Duration

		// Phase 3: Finalize
		finalizeDur, err := Finalize(ctx, pool, flog, pf, stageResult.RowsLoaded)
		if err != nil {
			_ = UpdateStatus(ctx, pool, pf.LoadFileID, "failed", batchID, stageResult.RowsLoaded)
			return nil, &PipelineError{Phase: PhaseFinalize, Err: err}
		}
		summary.DurationFinalize += finalizeDur

		// Phase 4: Cleanup rows left by earlier loads of the same file
		if err := Cleanup(ctx, pool, flog, pf); err != nil {
			return nil, &PipelineError{Phase: PhaseCleanup, Err: err}
		}

		fl.RowsRead = stageResult.RowsRead
		fl.RowsLoaded = stageResult.RowsLoaded
		fl.RowsRejected = stageResult.RowsRejected
		summary.Files = append(summary.Files, fl)
		summary.RowsRead += fl.RowsRead
		summary.RowsLoaded += fl.RowsLoaded
		summary.RowsRejected += fl.RowsRejected
	}

	summary.DurationTotal = time.Since(totalStart)
	log.Info().
		Int("files", len(summary.Files)).
		Int64("rows_read", summary.RowsRead).
		Int64("rows_loaded", summary.RowsLoaded).
		Int64("rows_rejected", summary.RowsRejected).
		Str("total_duration", summary.DurationTotal.String()).
		Msg("load pipeline complete")

	return summary, nil
}
