package ingest

import (
	"errors"
	"io"
	"math"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/outlierstats/internal/config"
	"github.com/gyeh/outlierstats/internal/dataset"
	"github.com/gyeh/outlierstats/internal/model"
)

func TestCheckClaim(t *testing.T) {
	assert.NoError(t, checkClaim(&model.ClaimLine{EncounterID: "E1", Year: 2020}))
	assert.Error(t, checkClaim(&model.ClaimLine{Year: 2020}))
	assert.Error(t, checkClaim(&model.ClaimLine{EncounterID: "E1"}))
	assert.Error(t, checkClaim(&model.ClaimLine{EncounterID: "E1", Year: 2020, PaidAmount: -1}))
	assert.Error(t, checkClaim(&model.ClaimLine{EncounterID: "E1", Year: 2020, PaidAmount: math.Inf(1)}))
	assert.Error(t, checkClaim(&model.ClaimLine{EncounterID: "E1", Year: 2020, PaidAmount: math.NaN()}))
}

func TestCheckMemberMonth_DerivesYear(t *testing.T) {
	m := &model.MemberMonth{MemberID: "M1", YearMonth: 202103}
	require.NoError(t, checkMemberMonth(m))
	assert.Equal(t, 2021, m.Year)

	assert.Error(t, checkMemberMonth(&model.MemberMonth{YearMonth: 202103}))
	assert.Error(t, checkMemberMonth(&model.MemberMonth{MemberID: "M1"}))
	assert.Error(t, checkMemberMonth(&model.MemberMonth{MemberID: "M1", YearMonth: 202103, Age: -4}))

	inf := math.Inf(1)
	assert.Error(t, checkMemberMonth(&model.MemberMonth{MemberID: "M1", YearMonth: 202103, RiskScore: &inf}))
}

func TestParquetStream(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.parquet")
	rows := make([]model.ClaimLine, readBatchSize+5)
	for i := range rows {
		rows[i] = model.ClaimLine{EncounterID: "E", Year: 2020, PaidAmount: float64(i)}
	}
	require.NoError(t, parquet.WriteFile(path, rows))

	s, err := openClaims(dataset.FormatParquet, path)
	require.NoError(t, err)
	defer s.Close()

	var n int
	for {
		c, err := s.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		assert.Equal(t, float64(n), c.PaidAmount)
		n++
	}
	assert.Equal(t, len(rows), n)
}

func TestOpenStream_ParquetMissingColumn(t *testing.T) {
	type partial struct {
		MemberID string `parquet:"member_id"`
	}
	path := filepath.Join(t.TempDir(), "mm.parquet")
	require.NoError(t, parquet.WriteFile(path, []partial{{MemberID: "M1"}}))

	_, err := openStream(model.KindMemberMonths, dataset.FormatParquet, path)
	assert.ErrorContains(t, err, "year_month")
}

func TestInputs(t *testing.T) {
	got := inputs(&config.Config{ClaimsPath: "c.csv", MemberMonthsPath: "m.parquet"})
	assert.Equal(t, []input{
		{kind: model.KindClaims, path: "c.csv"},
		{kind: model.KindMemberMonths, path: "m.parquet"},
	}, got)
	assert.Empty(t, inputs(&config.Config{}))
}
