package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/outlierstats/internal/model"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	f, err := DetectFormat("data/outlier_claims_agg.CSV")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	f, err = DetectFormat("claims.parquet")
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, f)

	_, err = DetectFormat("claims.xlsx")
	assert.Error(t, err)
}

func TestFiles_MixedFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	claims := filepath.Join(dir, "claims.csv")
	require.NoError(t, os.WriteFile(claims, []byte("encounter_id,year,paid_amount\nE1,2020,10\nE2,2020,5\n"), 0o644))
	months := filepath.Join(dir, "member_months.parquet")
	require.NoError(t, parquet.WriteFile(months, []model.MemberMonth{
		{MemberID: "M1", Year: 2020, YearMonth: 202001, Sex: "female"},
	}))

	ds, err := Files{ClaimsPath: claims, MemberMonthsPath: months}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds.Claims, 2)
	require.Len(t, ds.MemberMonths, 1)
	assert.Equal(t, "female", ds.MemberMonths[0].Sex)
}

func TestFiles_EmptyPaths(t *testing.T) {
	t.Parallel()

	ds, err := Files{}.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ds.Claims)
	assert.Empty(t, ds.MemberMonths)
}

func TestFiles_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Files{ClaimsPath: filepath.Join(t.TempDir(), "nope.csv")}.Load(context.Background())
	assert.Error(t, err)
}

func TestStatic(t *testing.T) {
	t.Parallel()

	ds, err := Static{}.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, ds)
}
