package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the counters the analytics engine reports.
type Registry struct {
	reg *prometheus.Registry

	ForecastsComputed prometheus.Counter
	BatchItemsSkipped prometheus.Counter
	RestockRuns       prometheus.Counter
	AnalyticsRefresh  prometheus.Counter
	ReportLatencySec  prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	forecasts := prometheus.NewCounter(prometheus.CounterOpts{Name: "analytics_forecasts_computed_total"})
	skipped := prometheus.NewCounter(prometheus.CounterOpts{Name: "analytics_batch_items_skipped_total"})
	restock := prometheus.NewCounter(prometheus.CounterOpts{Name: "analytics_restock_runs_total"})
	refresh := prometheus.NewCounter(prometheus.CounterOpts{Name: "analytics_refresh_total"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "analytics_report_latency_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(forecasts, skipped, restock, refresh, latency)
	return &Registry{
		reg:               r,
		ForecastsComputed: forecasts,
		BatchItemsSkipped: skipped,
		RestockRuns:       restock,
		AnalyticsRefresh:  refresh,
		ReportLatencySec:  latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }

// Default is the registry the running server exposes on /metrics.
var Default = NewRegistry()
