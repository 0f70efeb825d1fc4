package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/gyeh/outlierstats/internal/dataset"
	"github.com/gyeh/outlierstats/internal/model"
	"github.com/gyeh/outlierstats/internal/normalize"
	"github.com/gyeh/outlierstats/internal/sql"
)

// PreflightResult holds all context resolved during the preflight phase.
type PreflightResult struct {
	Kind     model.FileKind
	FilePath string
	Format   dataset.Format
	// FileSHA256 is the hex digest used to recognise a file that was loaded before.
	FileSHA256 string
	FileSize   int64
	// LoadFileID is the outlier.load_files key, inserted or looked up by (kind, sha256).
	LoadFileID  int64
	LoadBatchID uuid.UUID
	// AlreadyLoaded is true when the file was loaded before and force is off.
	AlreadyLoaded bool
}

// Preflight hashes the file, validates its header or schema, and registers it
// in outlier.load_files.
func Preflight(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger, kind model.FileKind, filePath string, batchID uuid.UUID, force bool) (*PreflightResult, error) {
	start := time.Now()

	format, err := dataset.DetectFormat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight format: %w", err)
	}

	sha, err := normalize.FileHash(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight hash: %w", err)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight stat: %w", err)
	}

	stream, err := openStream(kind, format, filePath)
	if err != nil {
		return nil, fmt.Errorf("preflight open: %w", err)
	}
	stream.Close()

	log.Info().
		Str("file", filepath.Base(filePath)).
		Str("format", string(format)).
		Str("sha256", sha).
		Dur("duration", time.Since(start)).
		Msg("preflight complete")

	loadFileID, alreadyLoaded, err := registerLoadFile(ctx, pool, kind, filePath, sha, stat.Size(), batchID, force)
	if err != nil {
		return nil, fmt.Errorf("preflight register file: %w", err)
	}

	return &PreflightResult{
		Kind:          kind,
		FilePath:      filePath,
		Format:        format,
		FileSHA256:    sha,
		FileSize:      stat.Size(),
		LoadFileID:    loadFileID,
		LoadBatchID:   batchID,
		AlreadyLoaded: alreadyLoaded,
	}, nil
}

func registerLoadFile(ctx context.Context, pool *pgxpool.Pool, kind model.FileKind, filePath, sha string, fileSize int64, batchID uuid.UUID, force bool) (int64, bool, error) {
	var id int64
	err := pool.QueryRow(ctx, sql.RegisterLoadFile,
		string(kind), filepath.Base(filePath), sha, fileSize, batchID,
	).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, false, fmt.Errorf("register load file: %w", err)
	}

	// Already exists (ON CONFLICT DO NOTHING returned no rows)
	var status string
	if err := pool.QueryRow(ctx, sql.LookupLoadFile, string(kind), sha).Scan(&id, &status); err != nil {
		return 0, false, fmt.Errorf("lookup existing load file: %w", err)
	}
	if !force && status == "loaded" {
		return id, true, nil
	}

	if err := UpdateStatus(ctx, pool, id, "pending", batchID, 0); err != nil {
		return 0, false, fmt.Errorf("reset load status: %w", err)
	}
	return id, false, nil
}
