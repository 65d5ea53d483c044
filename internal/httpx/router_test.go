package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AngelCh415/influencer-metrics/internal/metrics"
	"github.com/AngelCh415/influencer-metrics/internal/models"
	"github.com/AngelCh415/influencer-metrics/internal/store"
	"github.com/AngelCh415/influencer-metrics/internal/telemetry"
)

type stubLoader struct {
	ds  models.Dataset
	err error
}

func (s stubLoader) Load(context.Context) (models.Dataset, error) { return s.ds, s.err }

func sample() models.Dataset {
	return models.Dataset{
		Influencers: []models.Influencer{
			{ID: "inf_001", Name: "Asha Rao", Category: "fitness", Gender: "female", FollowerCount: 150000, Platform: "Instagram"},
			{ID: "inf_002", Name: "Ben Cole", Category: "tech", Gender: "male", FollowerCount: 60000, Platform: "YouTube"},
		},
		Posts: []models.Post{
			{InfluencerID: "inf_001", Reach: 1000, Likes: 100, Comments: 10},
			{InfluencerID: "inf_002", Reach: 1000, Likes: 50, Comments: 5},
		},
		Tracking: []models.TrackingEvent{
			{Source: "Instagram", Campaign: "MB-Summer23", InfluencerID: "inf_001", UserID: "u1", Product: "MB-Gainer", Orders: 1, Revenue: 1999},
			{Source: "YouTube", Campaign: "MB-Winter23", InfluencerID: "inf_002", UserID: "u2", Product: "MB-BCAA", Orders: 1, Revenue: 799},
		},
		Payouts: []models.Payout{
			{InfluencerID: "inf_001", Basis: models.BasisPost, Rate: 1000, TotalPayout: 1000},
			{InfluencerID: "inf_002", Basis: models.BasisOrder, Rate: 100, Orders: 10, TotalPayout: 1000},
		},
	}
}

func newServer(t *testing.T, l metrics.DatasetLoader, load bool) *httptest.Server {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	tel := telemetry.New(reg)
	svc := metrics.NewService(store.NewMemoryStore(), l, tel, log, 100)
	if load {
		if err := svc.Reload(context.Background()); err != nil {
			t.Fatalf("reload: %v", err)
		}
	}
	srv := httptest.NewServer(NewRouter(log, svc, tel, reg))
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp, string(b)
}

func TestNotReadyBeforeLoad(t *testing.T) {
	srv := newServer(t, stubLoader{ds: sample()}, false)
	if resp, _ := get(t, srv.URL+"/readyz"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
	if resp, _ := get(t, srv.URL+"/insights"); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}

	resp, err := http.Post(srv.URL+"/reload", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected reload 200, got %d", resp.StatusCode)
	}
	if resp, _ := get(t, srv.URL+"/readyz"); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected ready after reload, got %d", resp.StatusCode)
	}
}

func TestReloadFailureIs502(t *testing.T) {
	srv := newServer(t, stubLoader{err: errors.New("source down")}, false)
	resp, err := http.Post(srv.URL+"/reload", "", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestPerformanceEndpoint(t *testing.T) {
	srv := newServer(t, stubLoader{ds: sample()}, true)
	resp, body := get(t, srv.URL+"/performance?platform=Instagram")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var page struct {
		Total   int `json:"total"`
		Records []struct {
			ID          string   `json:"id"`
			ROAS        *float64 `json:"roas"`
			Performance string   `json:"performance"`
		} `json:"records"`
	}
	if err := json.Unmarshal([]byte(body), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 1 || page.Records[0].ID != "inf_001" {
		t.Fatalf("unexpected page %+v", page)
	}
	if page.Records[0].ROAS == nil || *page.Records[0].ROAS != 1.999 || page.Records[0].Performance != "Top ROAS" {
		t.Fatalf("unexpected record %+v", page.Records[0])
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestBadFilterIs400(t *testing.T) {
	srv := newServer(t, stubLoader{ds: sample()}, true)
	if resp, _ := get(t, srv.URL+"/insights?tier=giga"); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestInsightsNoData(t *testing.T) {
	srv := newServer(t, stubLoader{ds: sample()}, true)
	_, body := get(t, srv.URL+"/insights?product=")
	if !strings.Contains(body, metrics.NoDataLine) || !strings.Contains(body, `"top_influencer_name": "N/A"`) {
		t.Fatalf("unexpected insights %s", body)
	}
}

func TestExports(t *testing.T) {
	srv := newServer(t, stubLoader{ds: sample()}, true)

	resp, body := get(t, srv.URL+"/export/performance.csv?campaign=MB-Winter23")
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Fatalf("unexpected content type %q", ct)
	}
	lines := strings.Split(strings.TrimSpace(body), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "Ben Cole,tech,YouTube,micro,60000,1000,50,5,1,799,1000,0.799,") {
		t.Fatalf("unexpected performance csv %q", body)
	}

	_, body = get(t, srv.URL+"/export/tracking.csv?campaign=MB-Summer23")
	if !strings.Contains(body, "Instagram,MB-Summer23,inf_001,u1,MB-Gainer,") || strings.Contains(body, "MB-Winter23") {
		t.Fatalf("unexpected tracking csv %q", body)
	}
}

func TestFiltersTablesAndMetrics(t *testing.T) {
	srv := newServer(t, stubLoader{ds: sample()}, true)

	_, body := get(t, srv.URL+"/filters")
	if !strings.Contains(body, `"MB-Summer23"`) || !strings.Contains(body, `"macro"`) {
		t.Fatalf("unexpected filters %s", body)
	}
	_, body = get(t, srv.URL+"/tables?gender=male")
	if !strings.Contains(body, `"tier": "micro"`) || strings.Contains(body, "Asha Rao") {
		t.Fatalf("unexpected tables %s", body)
	}
	_, body = get(t, srv.URL+"/charts")
	if !strings.Contains(body, "payout_by_platform") {
		t.Fatalf("unexpected charts %s", body)
	}
	_, body = get(t, srv.URL+"/metrics")
	if !strings.Contains(body, "influencer_compute_total") || !strings.Contains(body, `route="/charts"`) {
		t.Fatalf("expected prometheus output, got %s", body)
	}
}

func TestWriteJSONEncodeFailureIs500(t *testing.T) {
	rr := httptest.NewRecorder()
	writeJSON(rr, map[string]float64{"total_revenue": math.Inf(1)})
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct == "application/json" {
		t.Fatalf("error response should not be labelled json")
	}
}
