// Package memo memoizes metric queries in a bounded, caller-owned LRU keyed
// by operation name and arguments.
package memo

import (
	"fmt"
	"slices"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gyeh/outlierstats/internal/metrics"
	"github.com/gyeh/outlierstats/internal/model"
)

// DefaultSize is the entry bound used when New is given a non-positive size.
const DefaultSize = 256

// Cache wraps an Aggregator and memoizes each distinct call.
type Cache struct {
	agg     *metrics.Aggregator
	entries *lru.Cache[entryKey, any]

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats reports cache effectiveness.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// New returns a Cache over agg holding at most size entries.
func New(agg *metrics.Aggregator, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	entries, err := lru.New[entryKey, any](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache{agg: agg, entries: entries}, nil
}

// Stats returns hit/miss counters and the current entry count.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: c.entries.Len()}
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// entryKey identifies one call. arg holds the dimension or granularity and is
// empty for single-argument operations.
type entryKey struct {
	op   string
	year int
	arg  string
}

// lookup returns the cached value for k, computing and storing it on a miss.
func lookup[T any](c *Cache, k entryKey, compute func() T) T {
	if v, ok := c.entries.Get(k); ok {
		c.hits.Add(1)
		return v.(T)
	}
	c.misses.Add(1)
	v := compute()
	c.entries.Add(k, v)
	return v
}

// Years returns the distinct member-month years, newest first.
func (c *Cache) Years() []int {
	return slices.Clone(lookup(c, entryKey{op: "years"}, c.agg.Years))
}

// MemberCount memoizes Aggregator.MemberCount.
func (c *Cache) MemberCount(year int) int {
	return lookup(c, entryKey{op: "member_count", year: year}, func() int { return c.agg.MemberCount(year) })
}

// MemberMonthCount memoizes Aggregator.MemberMonthCount.
func (c *Cache) MemberMonthCount(year int) int {
	return lookup(c, entryKey{op: "member_month_count", year: year}, func() int { return c.agg.MemberMonthCount(year) })
}

// EncounterCount memoizes Aggregator.EncounterCount.
func (c *Cache) EncounterCount(year int) int {
	return lookup(c, entryKey{op: "encounter_count", year: year}, func() int { return c.agg.EncounterCount(year) })
}

// Summary memoizes Aggregator.Summary.
func (c *Cache) Summary(year int) model.Summary {
	return lookup(c, entryKey{op: "summary", year: year}, func() model.Summary { return c.agg.Summary(year) })
}

// PopulationBreakdown memoizes Aggregator.PopulationBreakdown.
func (c *Cache) PopulationBreakdown(year int, dim model.Dimension) []model.PopulationShare {
	return slices.Clone(lookup(c, entryKey{op: "population_breakdown", year: year, arg: string(dim)}, func() []model.PopulationShare {
		return c.agg.PopulationBreakdown(year, dim)
	}))
}

// EncounterGroupMetrics memoizes Aggregator.EncounterGroupMetrics.
func (c *Cache) EncounterGroupMetrics(year int) []model.EncounterMetric {
	return slices.Clone(lookup(c, entryKey{op: "encounter_group_metrics", year: year}, func() []model.EncounterMetric {
		return c.agg.EncounterGroupMetrics(year)
	}))
}

// EncounterTypeMetrics memoizes Aggregator.EncounterTypeMetrics.
func (c *Cache) EncounterTypeMetrics(year int) []model.EncounterMetric {
	return slices.Clone(lookup(c, entryKey{op: "encounter_type_metrics", year: year}, func() []model.EncounterMetric {
		return c.agg.EncounterTypeMetrics(year)
	}))
}

// PMPMByDiagnosis memoizes Aggregator.PMPMByDiagnosis.
func (c *Cache) PMPMByDiagnosis(year int, g model.Granularity) []model.DiagnosisPMPM {
	return slices.Clone(lookup(c, entryKey{op: "pmpm_by_diagnosis", year: year, arg: string(g)}, func() []model.DiagnosisPMPM {
		return c.agg.PMPMByDiagnosis(year, g)
	}))
}

// RiskScores memoizes Aggregator.RiskScores.
func (c *Cache) RiskScores(year int) model.RiskScoreStats {
	return lookup(c, entryKey{op: "risk_scores", year: year}, func() model.RiskScoreStats { return c.agg.RiskScores(year) })
}

// MemberRiskScores memoizes Aggregator.MemberRiskScores.
func (c *Cache) MemberRiskScores(year int) []model.MemberRiskScore {
	return slices.Clone(lookup(c, entryKey{op: "member_risk_scores", year: year}, func() []model.MemberRiskScore {
		return c.agg.MemberRiskScores(year)
	}))
}

var _ metrics.Querier = (*Cache)(nil)
