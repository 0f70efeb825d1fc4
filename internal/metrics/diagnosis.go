package metrics

import (
	"cmp"
	"slices"

	"github.com/gyeh/outlierstats/internal/model"
)

// PMPMByDiagnosis returns PMPM per diagnosis category or description in year.
// CumulativePMPM is the running sum taken from the largest contributor down;
// the rows are then returned smallest PMPM first, so the first row carries the
// full cumulative total. Equal PMPM values therefore appear in descending label
// order, the reverse of PopulationBreakdown. Null diagnoses are labelled "null".
func (a *Aggregator) PMPMByDiagnosis(year int, g model.Granularity) []model.DiagnosisPMPM {
	memberMonths := float64(a.MemberMonthCount(year))
	paid := make(map[string]float64)
	a.eachClaim(year, func(c *model.ClaimLine) {
		label, _ := model.LabelNull.Label(c.Diagnosis(g))
		paid[label] += c.PaidAmount
	})
	if len(paid) == 0 {
		return []model.DiagnosisPMPM{}
	}

	out := make([]model.DiagnosisPMPM, 0, len(paid))
	for label, amount := range paid {
		out = append(out, model.DiagnosisPMPM{Label: label, PMPM: model.SafeDiv(amount, memberMonths)})
	}

	// Descending pass: largest first, ties by label.
	slices.SortFunc(out, func(x, y model.DiagnosisPMPM) int {
		if c := cmp.Compare(y.PMPM, x.PMPM); c != 0 {
			return c
		}
		return cmp.Compare(x.Label, y.Label)
	})
	var totalPMPM float64
	for _, row := range out {
		totalPMPM += row.PMPM
	}
	var running float64
	for i := range out {
		running += out[i].PMPM
		out[i].CumulativePMPM = running
		out[i].PercentOfTotal = model.SafeDiv(out[i].PMPM, totalPMPM) * 100
	}

	slices.Reverse(out)
	return out
}
