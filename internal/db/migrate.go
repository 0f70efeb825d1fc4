package db

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	embedsql "github.com/gyeh/outlierstats/internal/sql"
)

// Tables are the tables the loader and Store expect in Schema.
var Tables = []string{"load_files", "claim_lines", "member_months"}

// ApplyMigrations runs the embedded .sql migrations in filename order and
// returns the names it ran. Every statement is IF NOT EXISTS, so reruns are
// no-ops.
func ApplyMigrations(ctx context.Context, pool *pgxpool.Pool, log zerolog.Logger) ([]string, error) {
	names, err := migrationNames()
	if err != nil {
		return nil, err
	}

	for _, name := range names {
		data, err := fs.ReadFile(embedsql.Migrations, path.Join("migrations", name))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		log.Info().Str("migration", name).Msg("applying migration")
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			return nil, fmt.Errorf("execute migration %s: %w", name, err)
		}
	}

	log.Info().Int("count", len(names)).Str("schema", Schema).Msg("all migrations applied")
	return names, nil
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(embedsql.Migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// CheckSchema returns an error naming any of Tables missing from Schema,
// so a load against an unmigrated database fails before touching files.
func CheckSchema(ctx context.Context, pool *pgxpool.Pool) error {
	rows, err := pool.Query(ctx,
		"SELECT table_name FROM information_schema.tables WHERE table_schema = $1",
		Schema)
	if err != nil {
		return fmt.Errorf("query %s tables: %w", Schema, err)
	}
	present, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return fmt.Errorf("scan %s tables: %w", Schema, err)
	}

	var missing []string
	for _, t := range Tables {
		if !slices.Contains(present, t) {
			missing = append(missing, Schema+"."+t)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing tables %s; run migrate first", strings.Join(missing, ", "))
	}
	return nil
}
