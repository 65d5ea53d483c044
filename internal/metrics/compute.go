package metrics

import (
	"fmt"

	"github.com/AngelCh415/influencer-metrics/internal/models"
)

// Result is everything the presentation layer needs for one filter spec.
type Result struct {
	Filter     FilterSpec                 `json:"filter"`
	Filtered   Filtered                   `json:"-"`
	Records    []models.PerformanceRecord `json:"records"`
	Insights   models.InsightSummary      `json:"insights"`
	Engagement []models.EngagementRow     `json:"engagement"`
	Charts     models.Charts              `json:"charts"`
}

// Compute runs filter, aggregation, derivation and summarization over an
// immutable dataset snapshot. It holds no state between calls: identical
// inputs give identical output. A dataset that fails validation aborts the
// whole computation.
func Compute(ds models.Dataset, spec FilterSpec) (Result, error) {
	if err := ds.Validate(); err != nil {
		return Result{}, fmt.Errorf("compute: %w", err)
	}
	names := make(map[string]string, len(ds.Influencers))
	for _, inf := range ds.Influencers {
		names[inf.ID] = inf.Name
	}

	f := ApplyFilters(ds, spec)
	recs := Derive(Aggregate(f))
	eng := Engagement(f, names)
	return Result{
		Filter:     spec,
		Filtered:   f,
		Records:    recs,
		Insights:   Summarize(recs, f, eng, names),
		Engagement: eng,
		Charts:     BuildCharts(recs, f),
	}, nil
}
