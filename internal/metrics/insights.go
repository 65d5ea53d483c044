package metrics

import (
	"fmt"
	"sort"

	"github.com/AngelCh415/influencer-metrics/internal/models"
)

const (
	// NotApplicable is reported for the revenue leader when nothing was tracked.
	NotApplicable = "N/A"
	NoDataLine    = "No data available for current filters."
)

// Engagement computes the per-influencer engagement table over posts of the
// filtered influencers, ordered by influencer id. Reach of zero leaves the
// rate undefined.
func Engagement(f Filtered, names map[string]string) []models.EngagementRow {
	posts := sumPosts(f.Posts)
	if len(posts) == 0 {
		return []models.EngagementRow{}
	}
	track := sumTracking(f.Tracking)
	platforms := make(map[string]string, len(f.Influencers))
	for _, inf := range f.Influencers {
		platforms[inf.ID] = inf.Platform
	}

	out := make([]models.EngagementRow, 0, len(posts))
	for _, id := range sortedKeys(posts) {
		a := posts[id]
		row := models.EngagementRow{
			InfluencerID: id,
			Name:         names[id],
			Platform:     platforms[id],
			Reach:        a.reach,
			Likes:        a.likes,
			Comments:     a.comments,
		}
		row.EngagementRate = models.Float(float64(a.likes + a.comments)).Div(models.Float(float64(a.reach)))
		if t, ok := track[id]; ok {
			row.Revenue = models.Float(t.revenue)
		}
		out = append(out, row)
	}
	return out
}

// BestPlatform averages the defined per-influencer engagement rates by
// platform and returns the highest mean. Equal means resolve alphabetically.
func BestPlatform(rows []models.EngagementRow) (models.PlatformEngagement, bool) {
	type acc struct {
		sum float64
		n   int
	}
	by := make(map[string]*acc)
	for _, r := range rows {
		if !r.EngagementRate.Valid {
			continue
		}
		a, ok := by[r.Platform]
		if !ok {
			a = &acc{}
			by[r.Platform] = a
		}
		a.sum += r.EngagementRate.Value
		a.n++
	}
	var best models.PlatformEngagement
	found := false
	for _, p := range sortedKeys(by) {
		mean := by[p].sum / float64(by[p].n)
		if !found || mean > best.AvgEngagementRate {
			best = models.PlatformEngagement{Platform: p, AvgEngagementRate: mean}
			found = true
		}
	}
	return best, found
}

// Summarize reduces the derived table and filtered tables into the insight
// summary.
func Summarize(recs []models.PerformanceRecord, f Filtered, engagement []models.EngagementRow, names map[string]string) models.InsightSummary {
	s := models.InsightSummary{TopInfluencerName: NotApplicable}

	campaigns := make(map[string]struct{})
	for _, t := range f.Tracking {
		s.TotalRevenue += t.Revenue
		s.TotalOrders += t.Orders
		campaigns[t.Campaign] = struct{}{}
	}
	s.Campaigns = len(campaigns)
	for _, p := range f.Payouts {
		s.TotalSpend += p.TotalPayout
	}
	if s.TotalSpend > 0 {
		s.AvgROAS = s.TotalRevenue / s.TotalSpend
	}

	if track := sumTracking(f.Tracking); len(track) > 0 {
		var top string
		for _, id := range sortedKeys(track) {
			if top == "" || track[id].revenue > track[top].revenue {
				top = id
			}
		}
		s.TopInfluencerID = top
		s.TopInfluencerName = top
		if n, ok := names[top]; ok {
			s.TopInfluencerName = n
		}
	}

	if len(recs) == 0 {
		s.Lines = []string{NoDataLine}
		return s
	}

	for _, r := range recs {
		if r.ROAS.Less(1) {
			s.PoorROICount++
		}
		if r.ROAS.Valid && (s.TopROAS == nil || r.ROAS.Value > s.TopROAS.ROAS) {
			s.TopROAS = &models.InfluencerROAS{InfluencerID: r.ID, Name: r.Name, ROAS: r.ROAS.Value}
		}
	}
	if bp, ok := BestPlatform(engagement); ok {
		s.BestPlatform = &bp
	}

	if s.TopROAS != nil {
		s.Lines = append(s.Lines, fmt.Sprintf("Top-performing influencer: %s with ROAS of %.2f", s.TopROAS.Name, s.TopROAS.ROAS))
	}
	if s.BestPlatform != nil {
		s.Lines = append(s.Lines, fmt.Sprintf("Platform with best engagement: %s, avg %.1f%%", s.BestPlatform.Platform, s.BestPlatform.AvgEngagementRate*100))
	}
	s.Lines = append(s.Lines, fmt.Sprintf("Poor ROI warning: %d influencers with ROAS < 1", s.PoorROICount))
	return s
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
