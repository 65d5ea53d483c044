package metrics

import (
	"strings"

	"github.com/AngelCh415/influencer-metrics/internal/models"
)

// AllCampaigns is the campaign sentinel that disables the campaign predicate.
const AllCampaigns = "all"

// FilterSpec selects the slice of the campaign under inspection. Sets are
// exact-match; an empty set matches nothing.
type FilterSpec struct {
	Campaign   string   `json:"campaign"`
	Products   []string `json:"products"`
	Platforms  []string `json:"platforms"`
	Tiers      []string `json:"tiers"`
	Genders    []string `json:"genders"`
	Categories []string `json:"categories"`
}

// campaign returns the campaign to match and whether the predicate applies.
func (f FilterSpec) campaign() (string, bool) {
	c := strings.TrimSpace(f.Campaign)
	return c, c != "" && !strings.EqualFold(c, AllCampaigns)
}

// Filtered holds the consistent filtered subsets of a dataset.
type Filtered struct {
	Influencers []models.Influencer    `json:"influencers"`
	Posts       []models.Post          `json:"posts"`
	Tracking    []models.TrackingEvent `json:"tracking"`
	Payouts     []models.Payout        `json:"payouts"`
}

func set(vals []string) map[string]struct{} {
	out := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		out[v] = struct{}{}
	}
	return out
}

func has(s map[string]struct{}, v string) bool {
	_, ok := s[v]
	return ok
}

// ApplyFilters runs the filter stage. Influencers survive only if their own
// attributes match and at least one tracking event survives for them.
func ApplyFilters(ds models.Dataset, spec FilterSpec) Filtered {
	products := set(spec.Products)
	platforms := set(spec.Platforms)
	tiers := set(spec.Tiers)
	genders := set(spec.Genders)
	categories := set(spec.Categories)

	campaign, byCampaign := spec.campaign()

	var out Filtered
	tracked := make(map[string]struct{})
	for _, t := range ds.Tracking {
		if !has(products, t.Product) || !has(platforms, t.Source) {
			continue
		}
		if byCampaign && t.Campaign != campaign {
			continue
		}
		out.Tracking = append(out.Tracking, t)
		tracked[t.InfluencerID] = struct{}{}
	}

	ids := make(map[string]struct{})
	for _, inf := range ds.Influencers {
		if !has(platforms, inf.Platform) || !has(tiers, string(inf.Tier())) ||
			!has(genders, inf.Gender) || !has(categories, inf.Category) {
			continue
		}
		if !has(tracked, inf.ID) {
			continue
		}
		out.Influencers = append(out.Influencers, inf)
		ids[inf.ID] = struct{}{}
	}

	for _, p := range ds.Payouts {
		if has(ids, p.InfluencerID) {
			out.Payouts = append(out.Payouts, p)
		}
	}
	// posts follow influencer identity only, never the commerce-side filters
	for _, p := range ds.Posts {
		if has(ids, p.InfluencerID) {
			out.Posts = append(out.Posts, p)
		}
	}
	return out
}
