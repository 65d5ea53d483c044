package metrics

import (
	"time"

	"github.com/AngelCh415/influencer-metrics/internal/models"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

// fixture mirrors internal/ingest/testdata.
func fixture() models.Dataset {
	return models.Dataset{
		Influencers: []models.Influencer{
			{ID: "inf_001", Name: "Asha Rao", Category: "fitness", Gender: "female", FollowerCount: 150000, Platform: "Instagram"},
			{ID: "inf_002", Name: "Ben Cole", Category: "tech", Gender: "male", FollowerCount: 60000, Platform: "YouTube"},
			{ID: "inf_003", Name: "Chen Li", Category: "food", Gender: "other", FollowerCount: 20000, Platform: "Instagram"},
			{ID: "inf_004", Name: "Dana Fox", Category: "fashion", Gender: "female", FollowerCount: 80000, Platform: "Twitter"},
		},
		Posts: []models.Post{
			{InfluencerID: "inf_001", Date: day("2024-06-03"), Reach: 100000, Likes: 10000, Comments: 1000},
			{InfluencerID: "inf_001", Date: day("2024-06-10"), Reach: 80000, Likes: 8000, Comments: 800},
			{InfluencerID: "inf_002", Date: day("2024-06-05"), Reach: 50000, Likes: 2500, Comments: 500},
			{InfluencerID: "inf_003", Date: day("2024-06-07"), Reach: 0, Likes: 0, Comments: 0},
			{InfluencerID: "inf_004", Date: day("2024-06-08"), Reach: 40000, Likes: 2000, Comments: 200},
		},
		Tracking: []models.TrackingEvent{
			{Source: "Instagram", Campaign: "MB-Summer23", InfluencerID: "inf_001", UserID: "u_inf_001_001", Product: "MB-WheyProtein", Date: day("2024-06-04"), Orders: 2, Revenue: 3998},
			{Source: "Instagram", Campaign: "MB-Summer23", InfluencerID: "inf_001", UserID: "u_inf_001_002", Product: "MB-Gainer", Date: day("2024-06-05"), Orders: 1, Revenue: 1499},
			{Source: "Instagram", Campaign: "MB-Winter23", InfluencerID: "inf_001", UserID: "u_inf_001_001", Product: "MB-BCAA", Date: day("2024-06-06"), Orders: 1, Revenue: 799},
			{Source: "YouTube", Campaign: "MB-Summer23", InfluencerID: "inf_002", UserID: "u_inf_002_001", Product: "MB-VitaminC", Date: day("2024-06-05"), Orders: 1, Revenue: 999},
			{Source: "Instagram", Campaign: "MB-Spring24", InfluencerID: "inf_003", UserID: "u_inf_003_001", Product: "MB-WheyProtein", Date: day("2024-06-09"), Orders: 2, Revenue: 2598},
		},
		Payouts: []models.Payout{
			{InfluencerID: "inf_001", Basis: models.BasisPost, Rate: 3000, TotalPayout: 6000},
			{InfluencerID: "inf_002", Basis: models.BasisOrder, Rate: 100, Orders: 10, TotalPayout: 1000},
			{InfluencerID: "inf_003", Basis: models.BasisPost, Rate: 4000, TotalPayout: 4000},
			{InfluencerID: "inf_004", Basis: models.BasisOrder, Rate: 150, Orders: 20, TotalPayout: 3000},
		},
	}
}

// everything selects every option present in ds.
func everything(ds models.Dataset) FilterSpec {
	o := OptionsOf(ds)
	return FilterSpec{
		Campaign:   "All",
		Products:   o.Products,
		Platforms:  o.Platforms,
		Tiers:      o.Tiers,
		Genders:    o.Genders,
		Categories: o.Categories,
	}
}

func ids(recs []models.PerformanceRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}
