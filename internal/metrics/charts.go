package metrics

import "github.com/AngelCh415/influencer-metrics/internal/models"

// BuildCharts derives the chart series from the derived table and filtered
// tables. Undefined values are left out of the series.
func BuildCharts(recs []models.PerformanceRecord, f Filtered) models.Charts {
	c := models.Charts{
		ROASByInfluencer:            []models.SeriesPoint{},
		IncrementalROASByInfluencer: []models.SeriesPoint{},
		PayoutByPlatform:            []models.SeriesPoint{},
		RevenueTrend:                []models.SeriesPoint{},
	}
	for _, r := range recs {
		if r.ROAS.Valid {
			c.ROASByInfluencer = append(c.ROASByInfluencer, models.SeriesPoint{Label: r.Name, Value: r.ROAS.Value})
		}
		if r.IncrementalROAS.Valid {
			c.IncrementalROASByInfluencer = append(c.IncrementalROASByInfluencer, models.SeriesPoint{Label: r.Name, Value: r.IncrementalROAS.Value})
		}
	}

	platformOf := make(map[string]string, len(f.Influencers))
	for _, inf := range f.Influencers {
		platformOf[inf.ID] = inf.Platform
	}
	payout := make(map[string]float64)
	for _, p := range f.Payouts {
		payout[platformOf[p.InfluencerID]] += p.TotalPayout
	}
	for _, k := range sortedKeys(payout) {
		c.PayoutByPlatform = append(c.PayoutByPlatform, models.SeriesPoint{Label: k, Value: payout[k]})
	}

	daily := make(map[string]float64)
	for _, t := range f.Tracking {
		daily[t.Date.Format("2006-01-02")] += t.Revenue
	}
	for _, d := range sortedKeys(daily) {
		c.RevenueTrend = append(c.RevenueTrend, models.SeriesPoint{Label: d, Value: daily[d]})
	}
	return c
}
