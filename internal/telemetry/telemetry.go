package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AngelCh415/influencer-metrics/internal/utils"
)

// Collectors groups the service's Prometheus metrics.
type Collectors struct {
	computeTotal    *prometheus.CounterVec
	computeDuration prometheus.Histogram
	records         prometheus.Gauge
	datasetRows     *prometheus.GaugeVec
	reloadTotal     *prometheus.CounterVec
	lastReloadTS    prometheus.Gauge
	httpTotal       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Collectors {
	c := &Collectors{
		computeTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "influencer",
			Name:      "compute_total",
			Help:      "Engine computations by outcome",
		}, []string{"outcome"}),
		computeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "influencer",
			Name:      "compute_duration_seconds",
			Help:      "Time spent computing one filter specification",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "influencer",
			Name:      "performance_records",
			Help:      "Rows in the most recent performance table",
		}),
		datasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "influencer",
			Name:      "dataset_rows",
			Help:      "Rows in the loaded source datasets",
		}, []string{"dataset"}),
		reloadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "influencer",
			Name:      "reload_total",
			Help:      "Dataset reloads by status",
		}, []string{"status"}),
		lastReloadTS: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "influencer",
			Name:      "last_reload_timestamp_seconds",
			Help:      "Unix timestamp of the last successful reload",
		}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "influencer",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		c.computeTotal, c.computeDuration, c.records,
		c.datasetRows, c.reloadTotal, c.lastReloadTS, c.httpTotal,
	)
	return c
}

func (c *Collectors) ObserveCompute(start time.Time, records int, err error) {
	c.computeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.computeTotal.WithLabelValues("error").Inc()
		return
	}
	c.computeTotal.WithLabelValues("ok").Inc()
	c.records.Set(float64(records))
}

func (c *Collectors) ObserveReload(counts map[string]int, err error) {
	if err != nil {
		c.reloadTotal.WithLabelValues("error").Inc()
		return
	}
	c.reloadTotal.WithLabelValues("ok").Inc()
	c.lastReloadTS.Set(float64(time.Now().Unix()))
	for name, n := range counts {
		c.datasetRows.WithLabelValues(name).Set(float64(n))
	}
}

// Middleware counts requests by chi route pattern, so path values never
// become label values.
func (c *Collectors) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := utils.NewStatusWriter(w)
		next.ServeHTTP(sw, r)
		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		c.httpTotal.WithLabelValues(route, strconv.Itoa(sw.Status)).Inc()
	})
}
