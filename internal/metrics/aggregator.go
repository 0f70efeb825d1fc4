// Package metrics computes the outlier dashboard metrics from already loaded
// claim-line and member-month tables. Every operation is a pure function of
// the dataset and its arguments; a year of 0 means "no selection".
package metrics

import (
	"slices"

	"github.com/gyeh/outlierstats/internal/model"
)

// DefaultFemaleMarker is the sex value counted as female.
const DefaultFemaleMarker = "female"

// Aggregator answers metric queries over a fixed dataset. It never mutates the
// dataset and holds no other state, so it is safe for concurrent use.
type Aggregator struct {
	claims       []model.ClaimLine
	memberMonths []model.MemberMonth
	femaleMarker string
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithFemaleMarker overrides the sex value counted by Summary.FemaleCount.
func WithFemaleMarker(marker string) Option {
	return func(a *Aggregator) {
		if marker != "" {
			a.femaleMarker = marker
		}
	}
}

// New returns an Aggregator over ds. A nil dataset behaves as an empty one.
func New(ds *model.Dataset, opts ...Option) *Aggregator {
	a := &Aggregator{femaleMarker: DefaultFemaleMarker}
	if ds != nil {
		a.claims = ds.Claims
		a.memberMonths = ds.MemberMonths
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type memberMonthKey struct {
	memberID  string
	yearMonth int
}

// Years returns the distinct member-month years, newest first.
func (a *Aggregator) Years() []int {
	seen := make(map[int]struct{})
	for i := range a.memberMonths {
		seen[a.memberMonths[i].Year] = struct{}{}
	}
	years := make([]int, 0, len(seen))
	for y := range seen {
		years = append(years, y)
	}
	slices.Sort(years)
	slices.Reverse(years)
	return years
}

// MemberCount returns the number of distinct members enrolled in year.
func (a *Aggregator) MemberCount(year int) int {
	members := make(map[string]struct{})
	a.eachMemberMonth(year, func(m *model.MemberMonth) {
		members[m.MemberID] = struct{}{}
	})
	return len(members)
}

// MemberMonthCount returns the number of distinct (member, year_month) pairs in year.
func (a *Aggregator) MemberMonthCount(year int) int {
	months := make(map[memberMonthKey]struct{})
	a.eachMemberMonth(year, func(m *model.MemberMonth) {
		months[memberMonthKey{m.MemberID, m.YearMonth}] = struct{}{}
	})
	return len(months)
}

// EncounterCount returns the number of distinct encounters with claims in year.
func (a *Aggregator) EncounterCount(year int) int {
	encounters := make(map[string]struct{})
	a.eachClaim(year, func(c *model.ClaimLine) {
		encounters[c.EncounterID] = struct{}{}
	})
	return len(encounters)
}

// Summary returns the tile inputs for year. Ratios are derived by Summary.Ratios.
func (a *Aggregator) Summary(year int) model.Summary {
	s := model.Summary{Year: year}

	members := make(map[string]struct{})
	females := make(map[string]struct{})
	months := make(map[memberMonthKey]struct{})
	var ageSum float64
	var rows int
	a.eachMemberMonth(year, func(m *model.MemberMonth) {
		rows++
		ageSum += float64(m.Age)
		members[m.MemberID] = struct{}{}
		months[memberMonthKey{m.MemberID, m.YearMonth}] = struct{}{}
		if m.Sex == a.femaleMarker {
			females[m.MemberID] = struct{}{}
		}
	})
	s.MemberCount = len(members)
	s.MemberMonthCount = len(months)
	s.FemaleCount = len(females)
	s.MeanAge = model.SafeDiv(ageSum, float64(rows))

	encounters := make(map[string]struct{})
	a.eachClaim(year, func(c *model.ClaimLine) {
		s.TotalPaid += c.PaidAmount
		encounters[c.EncounterID] = struct{}{}
	})
	s.TotalEncounters = len(encounters)
	return s
}

func (a *Aggregator) eachMemberMonth(year int, fn func(*model.MemberMonth)) {
	if year == 0 {
		return
	}
	for i := range a.memberMonths {
		if a.memberMonths[i].Year == year {
			fn(&a.memberMonths[i])
		}
	}
}

func (a *Aggregator) eachClaim(year int, fn func(*model.ClaimLine)) {
	if year == 0 {
		return
	}
	for i := range a.claims {
		if a.claims[i].Year == year {
			fn(&a.claims[i])
		}
	}
}
