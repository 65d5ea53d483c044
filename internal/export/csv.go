// Package export writes engine output as flat CSV rows.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/AngelCh415/influencer-metrics/internal/models"
)

var PerformanceHeader = []string{
	"Influencer", "Category", "Platform", "Type", "Followers", "Reach", "Likes", "Comments",
	"Orders", "Revenue", "Payout", "ROAS", "Incremental ROAS", "Performance Flag",
}

var TrackingHeader = []string{
	"source", "campaign", "influencer_id", "user_id", "product", "date", "orders", "revenue",
}

// WritePerformance writes the performance table. Undefined values become
// empty cells.
func WritePerformance(w io.Writer, recs []models.PerformanceRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PerformanceHeader); err != nil {
		return err
	}
	for _, r := range recs {
		row := []string{
			r.Name,
			r.Category,
			r.Platform,
			string(r.Tier),
			strconv.Itoa(r.FollowerCount),
			r.Reach.String(),
			r.Likes.String(),
			r.Comments.String(),
			r.Orders.String(),
			r.Revenue.String(),
			r.TotalPayout.String(),
			r.ROAS.String(),
			r.IncrementalROAS.String(),
			r.Performance.String(),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteTracking(w io.Writer, events []models.TrackingEvent) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(TrackingHeader); err != nil {
		return err
	}
	for _, t := range events {
		row := []string{
			t.Source,
			t.Campaign,
			t.InfluencerID,
			t.UserID,
			t.Product,
			t.Date.Format("2006-01-02"),
			strconv.FormatInt(t.Orders, 10),
			strconv.FormatFloat(t.Revenue, 'f', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
