package db

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gyeh/outlierstats/internal/model"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var claimSelectColumns = []string{
	"member_id",
	"encounter_id",
	"year",
	"encounter_group",
	"encounter_type",
	"diagnosis_category",
	"diagnosis_description",
	"paid_amount::float8",
}

var memberMonthSelectColumns = []string{
	"member_id",
	"year",
	"year_month",
	"age",
	"sex",
	"race",
	"state",
	"risk_score",
}

// Store reads loaded claim lines and member months back out of Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Load reads every claim line and member month.
func (s *Store) Load(ctx context.Context) (*model.Dataset, error) {
	return s.load(ctx, nil)
}

// LoadYear reads the claim lines and member months of one year.
func (s *Store) LoadYear(ctx context.Context, year int) (*model.Dataset, error) {
	return s.load(ctx, sq.Eq{"year": year})
}

func (s *Store) load(ctx context.Context, where sq.Sqlizer) (*model.Dataset, error) {
	claims, err := s.claims(ctx, where)
	if err != nil {
		return nil, err
	}
	months, err := s.memberMonths(ctx, where)
	if err != nil {
		return nil, err
	}
	return &model.Dataset{Claims: claims, MemberMonths: months}, nil
}

// Years returns the distinct member-month years, newest first.
func (s *Store) Years(ctx context.Context) ([]int, error) {
	query, args, err := psql.Select("DISTINCT year").
		From("outlier.member_months").
		OrderBy("year DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build years query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query years: %w", err)
	}
	years, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("scan years: %w", err)
	}
	return years, nil
}

func (s *Store) claims(ctx context.Context, where sq.Sqlizer) ([]model.ClaimLine, error) {
	b := psql.Select(claimSelectColumns...).From("outlier.claim_lines")
	if where != nil {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build claims query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.ClaimLine, error) {
		var c model.ClaimLine
		err := row.Scan(
			&c.MemberID,
			&c.EncounterID,
			&c.Year,
			&c.EncounterGroup,
			&c.EncounterType,
			&c.DiagnosisCategory,
			&c.DiagnosisDescription,
			&c.PaidAmount,
		)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan claims: %w", err)
	}
	return out, nil
}

func (s *Store) memberMonths(ctx context.Context, where sq.Sqlizer) ([]model.MemberMonth, error) {
	b := psql.Select(memberMonthSelectColumns...).From("outlier.member_months")
	if where != nil {
		b = b.Where(where)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build member months query: %w", err)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query member months: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (model.MemberMonth, error) {
		var m model.MemberMonth
		err := row.Scan(
			&m.MemberID,
			&m.Year,
			&m.YearMonth,
			&m.Age,
			&m.Sex,
			&m.Race,
			&m.State,
			&m.RiskScore,
		)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan member months: %w", err)
	}
	return out, nil
}
