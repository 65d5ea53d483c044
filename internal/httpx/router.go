package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/AngelCh415/influencer-metrics/internal/export"
	"github.com/AngelCh415/influencer-metrics/internal/metrics"
	"github.com/AngelCh415/influencer-metrics/internal/models"
	"github.com/AngelCh415/influencer-metrics/internal/telemetry"
	"github.com/AngelCh415/influencer-metrics/internal/utils"
)

func NewRouter(log *slog.Logger, svc *metrics.Service, tel *telemetry.Collectors, gatherer prometheus.Gatherer) http.Handler {
	mux := chi.NewRouter()
	mux.Use(utils.RequestID)
	mux.Use(utils.Logger(log))
	mux.Use(tel.Middleware)

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); w.Write([]byte("ok")) })
	mux.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !svc.Ready() {
			http.Error(w, "datasets not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(200)
		w.Write([]byte("ready"))
	})
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	mux.Post("/reload", func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Reload(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		writeJSON(w, map[string]any{"reloaded": true})
	})

	mux.Get("/filters", func(w http.ResponseWriter, r *http.Request) {
		opts, err := svc.Options()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, opts)
	})

	mux.Get("/performance", func(w http.ResponseWriter, r *http.Request) {
		page, err := svc.Performance(r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, page)
	})

	mux.Get("/insights", query(svc, func(res metrics.Result) any { return res.Insights }))
	mux.Get("/engagement", query(svc, func(res metrics.Result) any { return res.Engagement }))
	mux.Get("/charts", query(svc, func(res metrics.Result) any { return res.Charts }))
	mux.Get("/tables", query(svc, func(res metrics.Result) any { return tables(res.Filtered) }))

	mux.Get("/export/performance.csv", func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Query(r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		csvHeaders(w, "influencer_performance.csv")
		if err := export.WritePerformance(w, res.Records); err != nil {
			log.Error("export performance", slog.String("err", err.Error()))
		}
	})

	mux.Get("/export/tracking.csv", func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Query(r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		csvHeaders(w, "filtered_tracking_data.csv")
		if err := export.WriteTracking(w, res.Filtered.Tracking); err != nil {
			log.Error("export tracking", slog.String("err", err.Error()))
		}
	})

	return mux
}

func query(svc *metrics.Service, pick func(metrics.Result) any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := svc.Query(r.URL.Query())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, pick(res))
	}
}

type influencerRow struct {
	models.Influencer
	Tier models.Tier `json:"tier"`
}

type filteredTables struct {
	Influencers []influencerRow        `json:"influencers"`
	Posts       []models.Post          `json:"posts"`
	Tracking    []models.TrackingEvent `json:"tracking"`
	Payouts     []models.Payout        `json:"payouts"`
}

func tables(f metrics.Filtered) filteredTables {
	out := filteredTables{
		Influencers: make([]influencerRow, 0, len(f.Influencers)),
		Posts:       nonNil(f.Posts),
		Tracking:    nonNil(f.Tracking),
		Payouts:     nonNil(f.Payouts),
	}
	for _, inf := range f.Influencers {
		out.Influencers = append(out.Influencers, influencerRow{Influencer: inf, Tier: inf.Tier()})
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, metrics.ErrNoDataset):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	case errors.Is(err, metrics.ErrBadFilter):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func csvHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
}

// writeJSON encodes fully before writing so a failed encode is a 500, not a
// truncated 200.
func writeJSON(w http.ResponseWriter, v any) {
	b, err := json.MarshalIndent(v, "", " ")
	if err != nil {
		http.Error(w, "encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(append(b, '\n'))
}
