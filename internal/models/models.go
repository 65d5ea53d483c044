package models

import "time"

type Tier string

const (
	TierMacro Tier = "macro"
	TierMicro Tier = "micro"
	TierNano  Tier = "nano"
)

// TierFor classifies an influencer by follower count.
func TierFor(followers int) Tier {
	switch {
	case followers >= 100000:
		return TierMacro
	case followers >= 50000:
		return TierMicro
	default:
		return TierNano
	}
}

type Influencer struct {
	ID            string `json:"id" validate:"required"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	Gender        string `json:"gender"`
	FollowerCount int    `json:"follower_count" validate:"gte=0"`
	Platform      string `json:"platform"`
}

// Tier is derived on every call; it is never stored on the record.
func (i Influencer) Tier() Tier { return TierFor(i.FollowerCount) }

type Post struct {
	InfluencerID string    `json:"influencer_id" validate:"required"`
	Platform     string    `json:"platform,omitempty"`
	Date         time.Time `json:"date"`
	URL          string    `json:"url,omitempty"`
	Caption      string    `json:"caption,omitempty"`
	Reach        int64     `json:"reach" validate:"gte=0"`
	Likes        int64     `json:"likes" validate:"gte=0"`
	Comments     int64     `json:"comments" validate:"gte=0"`
}

type TrackingEvent struct {
	Source       string    `json:"source"`
	Campaign     string    `json:"campaign"`
	InfluencerID string    `json:"influencer_id" validate:"required"`
	UserID       string    `json:"user_id"`
	Product      string    `json:"product"`
	Date         time.Time `json:"date"`
	Orders       int64     `json:"orders" validate:"gte=0"`
	Revenue      float64   `json:"revenue" validate:"gte=0"`
}

type PayoutBasis string

const (
	BasisPost  PayoutBasis = "post"
	BasisOrder PayoutBasis = "order"
)

type Payout struct {
	InfluencerID string      `json:"influencer_id" validate:"required"`
	Basis        PayoutBasis `json:"basis"`
	Rate         float64     `json:"rate" validate:"gte=0"`
	Orders       int64       `json:"orders" validate:"gte=0"`
	TotalPayout  float64     `json:"total_payout" validate:"gte=0"`
}

// Dataset is an immutable snapshot of the four source tables.
type Dataset struct {
	Influencers []Influencer    `json:"influencers" validate:"dive"`
	Posts       []Post          `json:"posts" validate:"dive"`
	Tracking    []TrackingEvent `json:"tracking" validate:"dive"`
	Payouts     []Payout        `json:"payouts" validate:"dive"`
	LoadedAt    time.Time       `json:"loaded_at"`
}

// PerformanceRecord is one row of the per-influencer performance table.
type PerformanceRecord struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Category           string    `json:"category"`
	Platform           string    `json:"platform"`
	Tier               Tier      `json:"tier"`
	FollowerCount      int       `json:"follower_count"`
	Reach              NullInt   `json:"reach"`
	Likes              NullInt   `json:"likes"`
	Comments           NullInt   `json:"comments"`
	Orders             NullInt   `json:"orders"`
	Revenue            NullFloat `json:"revenue"`
	TotalPayout        NullFloat `json:"total_payout"`
	UniqueUsers        NullInt   `json:"unique_users"`
	ROAS               NullFloat `json:"roas"`
	BaselineRevenue    float64   `json:"baseline_revenue"`
	IncrementalRevenue float64   `json:"incremental_revenue"`
	IncrementalROAS    NullFloat `json:"incremental_roas"`
	Performance        Label     `json:"performance"`
}

type EngagementRow struct {
	InfluencerID   string    `json:"influencer_id"`
	Name           string    `json:"name"`
	Platform       string    `json:"platform"`
	Reach          int64     `json:"reach"`
	Likes          int64     `json:"likes"`
	Comments       int64     `json:"comments"`
	EngagementRate NullFloat `json:"engagement_rate"`
	Revenue        NullFloat `json:"revenue"`
}

type PlatformEngagement struct {
	Platform          string  `json:"platform"`
	AvgEngagementRate float64 `json:"avg_engagement_rate"`
}

type InfluencerROAS struct {
	InfluencerID string  `json:"influencer_id"`
	Name         string  `json:"name"`
	ROAS         float64 `json:"roas"`
}

type InsightSummary struct {
	TotalRevenue      float64             `json:"total_revenue"`
	TotalSpend        float64             `json:"total_spend"`
	TotalOrders       int64               `json:"total_orders"`
	Campaigns         int                 `json:"campaigns"`
	AvgROAS           float64             `json:"avg_roas"`
	TopInfluencerID   string              `json:"top_influencer_id"`
	TopInfluencerName string              `json:"top_influencer_name"`
	TopROAS           *InfluencerROAS     `json:"top_roas,omitempty"`
	BestPlatform      *PlatformEngagement `json:"best_platform,omitempty"`
	PoorROICount      int                 `json:"poor_roi_count"`
	Lines             []string            `json:"lines"`
}

type SeriesPoint struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

type Charts struct {
	ROASByInfluencer            []SeriesPoint `json:"roas_by_influencer"`
	IncrementalROASByInfluencer []SeriesPoint `json:"incremental_roas_by_influencer"`
	PayoutByPlatform            []SeriesPoint `json:"payout_by_platform"`
	RevenueTrend                []SeriesPoint `json:"revenue_trend"`
}
