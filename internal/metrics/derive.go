package metrics

import (
	"sort"

	"github.com/AngelCh415/influencer-metrics/internal/models"
)

const (
	// BaselineRevenuePerUser is the organic revenue assumed for every unique
	// purchasing user, absent the influencer.
	BaselineRevenuePerUser = 200
	// TopROASCount is how many records receive the Top ROAS label.
	TopROASCount = 3
)

// Derive computes ROAS, incremental ROAS and the performance label for every
// candidate. The input slice is left untouched.
func Derive(candidates []models.PerformanceRecord) []models.PerformanceRecord {
	out := make([]models.PerformanceRecord, len(candidates))
	copy(out, candidates)

	for i := range out {
		r := &out[i]
		revenue := models.Float(r.Revenue.OrZero())
		r.ROAS = revenue.Div(r.TotalPayout)
		r.BaselineRevenue = float64(r.UniqueUsers.OrZero()) * BaselineRevenuePerUser
		r.IncrementalRevenue = revenue.Value - r.BaselineRevenue
		r.IncrementalROAS = models.Float(r.IncrementalRevenue).Div(r.TotalPayout)
		r.Performance = models.LabelUnset
	}
	classify(out)
	return out
}

type rule struct {
	label models.Label
	match func(models.PerformanceRecord) bool
}

// rules after Top ROAS, in precedence order. A rule only labels records that
// are still unset.
var rules = []rule{
	{models.LabelNoRevenue, func(r models.PerformanceRecord) bool {
		return paid(r) && r.Revenue.OrZero() == 0
	}},
	{models.LabelLowROAS, func(r models.PerformanceRecord) bool {
		return paid(r) && r.ROAS.Less(1)
	}},
}

func paid(r models.PerformanceRecord) bool {
	return r.TotalPayout.Valid && r.TotalPayout.Value > 0
}

func classify(recs []models.PerformanceRecord) {
	for _, i := range topROAS(recs, TopROASCount) {
		recs[i].Performance = models.LabelTopROAS
	}
	for _, rl := range rules {
		for i := range recs {
			if recs[i].Performance == models.LabelUnset && rl.match(recs[i]) {
				recs[i].Performance = rl.label
			}
		}
	}
}

// topROAS returns the indices of the n highest defined ROAS values. Equal
// values keep table order, so a tie at the cut-off favours the earlier row.
func topROAS(recs []models.PerformanceRecord, n int) []int {
	idx := make([]int, 0, len(recs))
	for i, r := range recs {
		if r.ROAS.Valid {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return recs[idx[a]].ROAS.Value > recs[idx[b]].ROAS.Value
	})
	if len(idx) > n {
		idx = idx[:n]
	}
	return idx
}
