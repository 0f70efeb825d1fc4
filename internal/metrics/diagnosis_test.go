package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/outlierstats/internal/model"
)

func diagnosisDataset() *model.Dataset {
	return &model.Dataset{
		MemberMonths: []model.MemberMonth{
			{MemberID: "M1", Year: 2020, YearMonth: 202001},
			{MemberID: "M2", Year: 2020, YearMonth: 202001},
		},
		Claims: []model.ClaimLine{
			{EncounterID: "E1", Year: 2020, DiagnosisCategory: strptr("CIR"), DiagnosisDescription: strptr("Heart failure"), PaidAmount: 60},
			{EncounterID: "E1", Year: 2020, DiagnosisCategory: strptr("CIR"), DiagnosisDescription: strptr("Hypertension"), PaidAmount: 40},
			{EncounterID: "E2", Year: 2020, DiagnosisCategory: strptr("RSP"), DiagnosisDescription: strptr("Pneumonia"), PaidAmount: 60},
			{EncounterID: "E3", Year: 2020, PaidAmount: 40},
			{EncounterID: "E4", Year: 2020, DiagnosisCategory: strptr("END"), DiagnosisDescription: strptr("Diabetes"), PaidAmount: 0},
		},
	}
}

func TestPMPMByDiagnosis_Category(t *testing.T) {
	t.Parallel()

	got := New(diagnosisDataset()).PMPMByDiagnosis(2020, model.GranularityCategory)

	want := []model.DiagnosisPMPM{
		{Label: "END", PMPM: 0, PercentOfTotal: 0, CumulativePMPM: 100},
		{Label: "null", PMPM: 20, PercentOfTotal: 20, CumulativePMPM: 100},
		{Label: "RSP", PMPM: 30, PercentOfTotal: 30, CumulativePMPM: 80},
		{Label: "CIR", PMPM: 50, PercentOfTotal: 50, CumulativePMPM: 50},
	}
	assert.Equal(t, want, got)
}

func TestPMPMByDiagnosis_Description(t *testing.T) {
	t.Parallel()

	got := New(diagnosisDataset()).PMPMByDiagnosis(2020, model.GranularityDescription)
	require.Len(t, got, 5)

	// Heart failure and Pneumonia tie at 30; the descending pass breaks the
	// tie by label, so the ascending output lists them in reverse.
	assert.Equal(t, "Pneumonia", got[3].Label)
	assert.Equal(t, "Heart failure", got[4].Label)
	assert.InDelta(t, 30.0, got[4].CumulativePMPM, 1e-9)
	assert.InDelta(t, 60.0, got[3].CumulativePMPM, 1e-9)
}

func TestPMPMByDiagnosis_CumulativeOrdering(t *testing.T) {
	t.Parallel()

	got := New(diagnosisDataset()).PMPMByDiagnosis(2020, model.GranularityDescription)
	require.NotEmpty(t, got)

	var percent, maxCum float64
	for i, row := range got {
		percent += row.PercentOfTotal
		maxCum = max(maxCum, row.CumulativePMPM)
		if i > 0 {
			assert.LessOrEqual(t, got[i-1].PMPM, row.PMPM, "display order ascends by PMPM")
			assert.GreaterOrEqual(t, got[i-1].CumulativePMPM, row.CumulativePMPM, "cumulative grows in descending-PMPM order")
		}
	}
	assert.InDelta(t, 100.0, percent, 1e-9)
	assert.InDelta(t, maxCum, got[0].CumulativePMPM, 1e-9)
}

func TestPMPMByDiagnosis_AllZeroPaid(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{
		MemberMonths: []model.MemberMonth{{MemberID: "M1", Year: 2020, YearMonth: 202001}},
		Claims:       []model.ClaimLine{{EncounterID: "E1", Year: 2020, DiagnosisCategory: strptr("CIR")}},
	}

	got := New(ds).PMPMByDiagnosis(2020, model.GranularityCategory)
	assert.Equal(t, []model.DiagnosisPMPM{{Label: "CIR"}}, got)
}

func TestPMPMByDiagnosis_NoMemberMonths(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{
		Claims: []model.ClaimLine{{EncounterID: "E1", Year: 2020, DiagnosisCategory: strptr("CIR"), PaidAmount: 100}},
	}

	got := New(ds).PMPMByDiagnosis(2020, model.GranularityCategory)
	assert.Equal(t, []model.DiagnosisPMPM{{Label: "CIR"}}, got)
}

func TestPMPMByDiagnosis_NoClaims(t *testing.T) {
	t.Parallel()

	ds := &model.Dataset{MemberMonths: []model.MemberMonth{{MemberID: "M1", Year: 2020, YearMonth: 202001}}}

	assert.Empty(t, New(ds).PMPMByDiagnosis(2020, model.GranularityCategory))
}
