package metrics

import (
	"cmp"
	"math"
	"slices"

	"github.com/gyeh/outlierstats/internal/model"
)

// RiskScores summarizes the non-null risk scores of year's member-month rows.
// The median interpolates linearly between the two middle values.
func (a *Aggregator) RiskScores(year int) model.RiskScoreStats {
	var scores []float64
	a.eachMemberMonth(year, func(m *model.MemberMonth) {
		if m.RiskScore != nil {
			scores = append(scores, *m.RiskScore)
		}
	})
	if len(scores) == 0 {
		return model.RiskScoreStats{}
	}

	slices.Sort(scores)
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return model.RiskScoreStats{
		Count:  len(scores),
		Mean:   sum / float64(len(scores)),
		Median: percentile(scores, 0.5),
		Min:    scores[0],
		Max:    scores[len(scores)-1],
	}
}

// MemberRiskScores returns the distinct (member, score) pairs with a score in
// year, ordered by member then score.
func (a *Aggregator) MemberRiskScores(year int) []model.MemberRiskScore {
	seen := make(map[model.MemberRiskScore]struct{})
	a.eachMemberMonth(year, func(m *model.MemberMonth) {
		if m.RiskScore != nil {
			seen[model.MemberRiskScore{MemberID: m.MemberID, RiskScore: *m.RiskScore}] = struct{}{}
		}
	})
	out := make([]model.MemberRiskScore, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	slices.SortFunc(out, func(x, y model.MemberRiskScore) int {
		if c := cmp.Compare(x.MemberID, y.MemberID); c != 0 {
			return c
		}
		return cmp.Compare(x.RiskScore, y.RiskScore)
	})
	return out
}

// Quartiles returns min, Q1, median, Q3 and max of the given scores.
func Quartiles(scores []model.MemberRiskScore) [5]float64 {
	if len(scores) == 0 {
		return [5]float64{}
	}
	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.RiskScore
	}
	slices.Sort(values)
	return [5]float64{
		values[0],
		percentile(values, 0.25),
		percentile(values, 0.5),
		percentile(values, 0.75),
		values[len(values)-1],
	}
}

// percentile expects sorted input.
func percentile(sorted []float64, p float64) float64 {
	idx := p * float64(len(sorted)-1)
	lower := int(math.Floor(idx))
	upper := int(math.Ceil(idx))
	if lower == upper {
		return sorted[lower]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
