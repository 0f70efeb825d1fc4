package metrics

import (
	"cmp"
	"math"
	"slices"

	"github.com/gyeh/outlierstats/internal/model"
)

// PopulationBreakdown counts distinct members per race or state value in year.
// Rows with a null value are dropped before grouping. Percentages are rounded
// to two decimals; rows are ordered by percentage, then value.
func (a *Aggregator) PopulationBreakdown(year int, dim model.Dimension) []model.PopulationShare {
	groups := make(map[string]map[string]struct{})
	a.eachMemberMonth(year, func(m *model.MemberMonth) {
		label, ok := model.DropNull.Label(m.Value(dim))
		if !ok {
			return
		}
		members, ok := groups[label]
		if !ok {
			members = make(map[string]struct{})
			groups[label] = members
		}
		members[m.MemberID] = struct{}{}
	})
	if len(groups) == 0 {
		return []model.PopulationShare{}
	}

	var total int
	for _, members := range groups {
		total += len(members)
	}

	out := make([]model.PopulationShare, 0, len(groups))
	for label, members := range groups {
		out = append(out, model.PopulationShare{
			Value:       label,
			MemberCount: len(members),
			Percentage:  round2(float64(len(members)) / float64(total) * 100),
		})
	}
	slices.SortFunc(out, func(x, y model.PopulationShare) int {
		if c := cmp.Compare(x.Percentage, y.Percentage); c != 0 {
			return c
		}
		return cmp.Compare(x.Value, y.Value)
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
