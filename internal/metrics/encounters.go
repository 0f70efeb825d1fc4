package metrics

import (
	"cmp"
	"slices"

	"github.com/gyeh/outlierstats/internal/model"
)

// perThousandMonths scales encounters per member-month to encounters per
// 1000 members per year.
const perThousandMonths = 12000.0

type encounterKey struct {
	group string
	typ   string
}

type encounterAcc struct {
	paid       float64
	encounters map[string]struct{}
}

// EncounterGroupMetrics returns PMPM, encounters per 1000 and paid per
// encounter by encounter group, plus a Grand Total row, ordered by PMPM.
// Null groups are labelled "null". A year without member months still lists
// its groups, with the per-member-month rates at 0.
func (a *Aggregator) EncounterGroupMetrics(year int) []model.EncounterMetric {
	return a.encounterMetrics(year, false)
}

// EncounterTypeMetrics is EncounterGroupMetrics grouped by (group, type).
func (a *Aggregator) EncounterTypeMetrics(year int) []model.EncounterMetric {
	return a.encounterMetrics(year, true)
}

func (a *Aggregator) encounterMetrics(year int, byType bool) []model.EncounterMetric {
	memberMonths := a.MemberMonthCount(year)
	encounterCount := a.EncounterCount(year)
	if encounterCount == 0 {
		return []model.EncounterMetric{}
	}

	groups := make(map[encounterKey]*encounterAcc)
	a.eachClaim(year, func(c *model.ClaimLine) {
		key := encounterKey{}
		key.group, _ = model.LabelNull.Label(c.EncounterGroup)
		if byType {
			key.typ, _ = model.LabelNull.Label(c.EncounterType)
		}
		acc, ok := groups[key]
		if !ok {
			acc = &encounterAcc{encounters: make(map[string]struct{})}
			groups[key] = acc
		}
		acc.paid += c.PaidAmount
		acc.encounters[c.EncounterID] = struct{}{}
	})

	mm := float64(memberMonths)
	out := make([]model.EncounterMetric, 0, len(groups)+1)
	total := model.EncounterMetric{
		EncounterGroup: model.GrandTotalLabel,
		Encounters:     encounterCount,
		GrandTotal:     true,
	}
	if byType {
		total.EncounterType = model.GrandTotalLabel
	}
	for key, acc := range groups {
		n := len(acc.encounters)
		row := model.EncounterMetric{
			EncounterGroup:    key.group,
			EncounterType:     key.typ,
			PaidAmount:        acc.paid,
			Encounters:        n,
			PMPM:              model.SafeDiv(acc.paid, mm),
			EncountersPer1000: model.SafeDiv(float64(n)*perThousandMonths, mm),
			PaidPerEncounter:  model.SafeDiv(acc.paid, float64(n)),
		}
		out = append(out, row)
	}

	// Total rates are sums of the group rates, summed in label order.
	// Paid per encounter is recomputed from the totals.
	slices.SortFunc(out, compareEncounterLabels)
	for _, row := range out {
		total.PaidAmount += row.PaidAmount
		total.PMPM += row.PMPM
		total.EncountersPer1000 += row.EncountersPer1000
	}
	total.PaidPerEncounter = model.SafeDiv(total.PaidAmount, float64(encounterCount))
	out = append(out, total)

	slices.SortStableFunc(out, func(x, y model.EncounterMetric) int {
		if c := cmp.Compare(x.PMPM, y.PMPM); c != 0 {
			return c
		}
		if x.GrandTotal != y.GrandTotal {
			if x.GrandTotal {
				return 1
			}
			return -1
		}
		return compareEncounterLabels(x, y)
	})
	return out
}

func compareEncounterLabels(x, y model.EncounterMetric) int {
	if c := cmp.Compare(x.EncounterGroup, y.EncounterGroup); c != 0 {
		return c
	}
	return cmp.Compare(x.EncounterType, y.EncounterType)
}
