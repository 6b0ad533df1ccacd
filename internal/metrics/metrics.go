package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for scans.
type Metrics struct {
	ScansTotal   prometheus.Counter
	TickersTotal *prometheus.CounterVec // labels: outcome
	ScanDuration prometheus.Histogram
	CacheLookups *prometheus.CounterVec // labels: result=hit|miss|error
}

// NewMetrics creates the metrics and registers them with reg. A nil reg uses
// the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanner_scans_total",
			Help: "Total scans executed",
		}),
		TickersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_tickers_total",
			Help: "Tickers analyzed, by outcome (ok or error kind)",
		}, []string{"outcome"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scanner_scan_duration_seconds",
			Help:    "Wall time of a full scan",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_bar_cache_lookups_total",
			Help: "Provider response cache lookups",
		}, []string{"result"}),
	}
	reg.MustRegister(m.ScansTotal, m.TickersTotal, m.ScanDuration, m.CacheLookups)
	return m
}

// ObserveTicker counts one ticker outcome. An empty kind means success.
func (m *Metrics) ObserveTicker(kind string) {
	if m == nil {
		return
	}
	if kind == "" {
		kind = "ok"
	}
	m.TickersTotal.WithLabelValues(kind).Inc()
}

// ObserveScan records a finished scan.
func (m *Metrics) ObserveScan(d time.Duration) {
	if m == nil {
		return
	}
	m.ScansTotal.Inc()
	m.ScanDuration.Observe(d.Seconds())
}

// ObserveCache counts a cache lookup result.
func (m *Metrics) ObserveCache(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
