package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/AngelCh415/influencer-metrics/internal/models"
)

const (
	DatasetInfluencers = "influencers"
	DatasetPosts       = "posts"
	DatasetTracking    = "tracking"
	DatasetPayouts     = "payouts"
)

var requiredColumns = map[string][]string{
	DatasetInfluencers: {"id", "name", "category", "gender", "follower_count", "platform"},
	DatasetPosts:       {"influencer_id", "date", "reach", "likes", "comments"},
	DatasetTracking:    {"source", "campaign", "influencer_id", "user_id", "product", "date", "orders", "revenue"},
	DatasetPayouts:     {"influencer_id", "basis", "rate", "orders", "total_payout"},
}

type table struct {
	name string
	cols map[string]int
	rows [][]string
}

// readTable parses a CSV with a header row and checks the required columns.
// Header names are matched case-insensitively.
func readTable(name string, data []byte) (*table, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return nil, &models.SchemaError{Dataset: name, Column: requiredColumns[name][0]}
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", name, err)
	}
	t := &table{name: name, cols: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := t.cols[h]; !dup {
			t.cols[h] = i
		}
	}
	for _, c := range requiredColumns[name] {
		if _, ok := t.cols[c]; !ok {
			return nil, &models.SchemaError{Dataset: name, Column: c}
		}
	}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: read row: %w", name, err)
		}
		t.rows = append(t.rows, row)
	}
	return t, nil
}

func (t *table) get(row []string, col string) string {
	i, ok := t.cols[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// rowErr collects the first parse failure of a row.
type rowErr struct{ err error }

func (e *rowErr) intVal(t *table, row []string, col string) int64 {
	s := t.get(row, col)
	v, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return v
	}
	f, ferr := strconv.ParseFloat(s, 64)
	if ferr != nil || f != float64(int64(f)) {
		e.set(col, s)
		return 0
	}
	return int64(f)
}

func (e *rowErr) floatVal(t *table, row []string, col string) float64 {
	s := t.get(row, col)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		e.set(col, s)
		return 0
	}
	return v
}

func (e *rowErr) dateVal(t *table, row []string, col string) time.Time {
	s := t.get(row, col)
	if d, err := time.Parse("2006-01-02", s); err == nil {
		return d
	}
	d, err := time.Parse(time.RFC3339, s)
	if err != nil {
		e.set(col, s)
	}
	return d
}

func (e *rowErr) set(col, val string) {
	if e.err == nil {
		e.err = fmt.Errorf("column %s: bad value %q", col, val)
	}
}

// Each parser returns the rows it could read and the number it skipped.

func parseInfluencers(data []byte) ([]models.Influencer, int, error) {
	t, err := readTable(DatasetInfluencers, data)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.Influencer, 0, len(t.rows))
	skipped := 0
	for _, row := range t.rows {
		var e rowErr
		inf := models.Influencer{
			ID:            t.get(row, "id"),
			Name:          t.get(row, "name"),
			Category:      t.get(row, "category"),
			Gender:        t.get(row, "gender"),
			FollowerCount: int(e.intVal(t, row, "follower_count")),
			Platform:      t.get(row, "platform"),
		}
		if e.err != nil || inf.ID == "" {
			skipped++
			continue
		}
		out = append(out, inf)
	}
	return out, skipped, nil
}

func parsePosts(data []byte) ([]models.Post, int, error) {
	t, err := readTable(DatasetPosts, data)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.Post, 0, len(t.rows))
	skipped := 0
	for _, row := range t.rows {
		var e rowErr
		p := models.Post{
			InfluencerID: t.get(row, "influencer_id"),
			Platform:     t.get(row, "platform"),
			Date:         e.dateVal(t, row, "date"),
			URL:          t.get(row, "url"),
			Caption:      t.get(row, "caption"),
			Reach:        e.intVal(t, row, "reach"),
			Likes:        e.intVal(t, row, "likes"),
			Comments:     e.intVal(t, row, "comments"),
		}
		if e.err != nil || p.InfluencerID == "" {
			skipped++
			continue
		}
		out = append(out, p)
	}
	return out, skipped, nil
}

func parseTracking(data []byte) ([]models.TrackingEvent, int, error) {
	t, err := readTable(DatasetTracking, data)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.TrackingEvent, 0, len(t.rows))
	skipped := 0
	for _, row := range t.rows {
		var e rowErr
		ev := models.TrackingEvent{
			Source:       t.get(row, "source"),
			Campaign:     t.get(row, "campaign"),
			InfluencerID: t.get(row, "influencer_id"),
			UserID:       t.get(row, "user_id"),
			Product:      t.get(row, "product"),
			Date:         e.dateVal(t, row, "date"),
			Orders:       e.intVal(t, row, "orders"),
			Revenue:      e.floatVal(t, row, "revenue"),
		}
		if e.err != nil || ev.InfluencerID == "" {
			skipped++
			continue
		}
		out = append(out, ev)
	}
	return out, skipped, nil
}

func parsePayouts(data []byte) ([]models.Payout, int, error) {
	t, err := readTable(DatasetPayouts, data)
	if err != nil {
		return nil, 0, err
	}
	out := make([]models.Payout, 0, len(t.rows))
	skipped := 0
	for _, row := range t.rows {
		var e rowErr
		p := models.Payout{
			InfluencerID: t.get(row, "influencer_id"),
			Basis:        models.PayoutBasis(strings.ToLower(t.get(row, "basis"))),
			Rate:         e.floatVal(t, row, "rate"),
			Orders:       e.intVal(t, row, "orders"),
			TotalPayout:  e.floatVal(t, row, "total_payout"),
		}
		if e.err != nil || p.InfluencerID == "" {
			skipped++
			continue
		}
		out = append(out, p)
	}
	return out, skipped, nil
}
