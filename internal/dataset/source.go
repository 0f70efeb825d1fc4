// Package dataset loads the claim-line and member-month tables the metrics
// aggregator works over, from files or from Postgres.
package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gyeh/outlierstats/internal/csvread"
	"github.com/gyeh/outlierstats/internal/model"
	"github.com/gyeh/outlierstats/internal/parquetread"
)

// Source produces a dataset.
type Source interface {
	Load(ctx context.Context) (*model.Dataset, error)
}

// Format is an input file encoding.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
)

// DetectFormat infers the encoding from the file extension.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("cannot infer format of %s (want .csv or .parquet)", path)
}

// Files loads both tables from local CSV or Parquet files.
type Files struct {
	ClaimsPath       string
	MemberMonthsPath string
}

// Load reads both files. Either path may be empty, leaving that table empty.
func (f Files) Load(ctx context.Context) (*model.Dataset, error) {
	ds := &model.Dataset{}
	if f.ClaimsPath != "" {
		claims, err := ReadClaims(f.ClaimsPath)
		if err != nil {
			return nil, fmt.Errorf("load claims: %w", err)
		}
		ds.Claims = claims
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.MemberMonthsPath != "" {
		months, err := ReadMemberMonths(f.MemberMonthsPath)
		if err != nil {
			return nil, fmt.Errorf("load member months: %w", err)
		}
		ds.MemberMonths = months
	}
	return ds, nil
}

// ReadClaims reads a claim-line file in whichever format its extension names.
func ReadClaims(path string) ([]model.ClaimLine, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatParquet {
		return parquetread.ReadClaims(path)
	}
	return csvread.ReadClaims(path)
}

// ReadMemberMonths reads a member-month file in whichever format its extension names.
func ReadMemberMonths(path string) ([]model.MemberMonth, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	if format == FormatParquet {
		return parquetread.ReadMemberMonths(path)
	}
	return csvread.ReadMemberMonths(path)
}

// Static serves an in-memory dataset, for tests and fixtures.
type Static struct {
	Dataset *model.Dataset
}

// Load returns the wrapped dataset.
func (s Static) Load(context.Context) (*model.Dataset, error) {
	if s.Dataset == nil {
		return &model.Dataset{}, nil
	}
	return s.Dataset, nil
}
