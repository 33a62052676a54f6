// Package metrics exposes Prometheus metrics for the language server.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tliron/commonlog"

	"github.com/jdujava/texlab/internal/cache"
)

var log = commonlog.GetLogger("texlab.metrics")

// Source reports the state sampled at scrape time.
type Source interface {
	TreeStats() cache.Stats
	RecordStats() cache.Stats
	Documents() int
}

// Metrics holds all Prometheus metrics of the server.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	server *http.Server
}

// New registers the request metrics and the collectors reading source on
// a fresh registry.
func New(source Source) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	m := &Metrics{registry: reg}

	m.RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "texlab_requests_total",
			Help: "Total number of LSP requests",
		},
		[]string{"method", "status"},
	)
	m.RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "texlab_request_duration_seconds",
			Help:    "Duration of LSP requests in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method"},
	)

	memo := func(name, help string, stats func() cache.Stats, hit bool) {
		factory.NewCounterFunc(prometheus.CounterOpts{Name: name, Help: help}, func() float64 {
			s := stats()
			if hit {
				return float64(s.Hits)
			}
			return float64(s.Misses)
		})
	}
	memo("texlab_tree_cache_hits_total", "Syntax trees served from the memo", source.TreeStats, true)
	memo("texlab_tree_cache_misses_total", "Syntax trees computed", source.TreeStats, false)
	memo("texlab_record_cache_hits_total", "Analysis records served from the memo", source.RecordStats, true)
	memo("texlab_record_cache_misses_total", "Analysis records computed", source.RecordStats, false)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "texlab_documents",
		Help: "Number of documents in the current workspace",
	}, func() float64 { return float64(source.Documents()) })

	return m
}

// Observe records one request.
func (m *Metrics) Observe(method string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.RequestsTotal.WithLabelValues(method, status).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Start serves /metrics on addr and returns the bound address.
func (m *Metrics) Start(addr string) (string, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("metrics: listen: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	m.server = &http.Server{Handler: mux}
	go func() {
		if err := m.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("metrics server error: %v", err)
		}
	}()
	return l.Addr().String(), nil
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}
	return m.server.Shutdown(ctx)
}
