package metrics

import (
	"github.com/AngelCh415/influencer-metrics/internal/models"
)

type postAgg struct{ reach, likes, comments int64 }

type trackAgg struct {
	orders  int64
	revenue float64
	users   map[string]struct{}
}

func sumPosts(posts []models.Post) map[string]*postAgg {
	out := make(map[string]*postAgg)
	for _, p := range posts {
		a, ok := out[p.InfluencerID]
		if !ok {
			a = &postAgg{}
			out[p.InfluencerID] = a
		}
		a.reach += p.Reach
		a.likes += p.Likes
		a.comments += p.Comments
	}
	return out
}

func sumTracking(events []models.TrackingEvent) map[string]*trackAgg {
	out := make(map[string]*trackAgg)
	for _, t := range events {
		a, ok := out[t.InfluencerID]
		if !ok {
			a = &trackAgg{users: make(map[string]struct{})}
			out[t.InfluencerID] = a
		}
		a.orders += t.Orders
		a.revenue += t.Revenue
		a.users[t.UserID] = struct{}{}
	}
	return out
}

// Aggregate runs the join stage: one candidate per filtered influencer, in
// filtered-influencer order. Missing aggregates stay null.
func Aggregate(f Filtered) []models.PerformanceRecord {
	posts := sumPosts(f.Posts)
	track := sumTracking(f.Tracking)
	payouts := make(map[string]float64, len(f.Payouts))
	for _, p := range f.Payouts {
		payouts[p.InfluencerID] = p.TotalPayout
	}

	out := make([]models.PerformanceRecord, 0, len(f.Influencers))
	for _, inf := range f.Influencers {
		r := models.PerformanceRecord{
			ID:            inf.ID,
			Name:          inf.Name,
			Category:      inf.Category,
			Platform:      inf.Platform,
			Tier:          inf.Tier(),
			FollowerCount: inf.FollowerCount,
		}
		if a, ok := posts[inf.ID]; ok {
			r.Reach = models.Int(a.reach)
			r.Likes = models.Int(a.likes)
			r.Comments = models.Int(a.comments)
		}
		if a, ok := track[inf.ID]; ok {
			r.Orders = models.Int(a.orders)
			r.Revenue = models.Float(a.revenue)
			r.UniqueUsers = models.Int(int64(len(a.users)))
		}
		if v, ok := payouts[inf.ID]; ok {
			r.TotalPayout = models.Float(v)
		}
		out = append(out, r)
	}
	return out
}
