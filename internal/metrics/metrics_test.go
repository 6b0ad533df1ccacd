package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Observe(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.ObserveTicker("")
	m.ObserveTicker("")
	m.ObserveTicker("InsufficientData")
	m.ObserveScan(120 * time.Millisecond)
	m.ObserveCache("hit")

	if got := testutil.ToFloat64(m.TickersTotal.WithLabelValues("ok")); got != 2 {
		t.Errorf("ok tickers = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.TickersTotal.WithLabelValues("InsufficientData")); got != 1 {
		t.Errorf("failed tickers = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ScansTotal); got != 1 {
		t.Errorf("scans = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CacheLookups.WithLabelValues("hit")); got != 1 {
		t.Errorf("cache hits = %v, want 1", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.ObserveTicker("")
	m.ObserveScan(time.Second)
	m.ObserveCache("miss")
}
