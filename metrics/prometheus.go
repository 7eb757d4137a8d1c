//go:build !noprom

package metrics

import (
	"fmt"
	"net"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

type promRecorder struct {
	opTotal    *prom.CounterVec
	opSeconds  *prom.HistogramVec
	candidates prom.Histogram
	accepted   prom.Histogram
}

func (p *promRecorder) IncOpTotal(op string, success bool) {
	p.opTotal.WithLabelValues(op, fmt.Sprintf("%t", success)).Inc()
}

func (p *promRecorder) ObserveOpSeconds(op string, success bool, seconds float64) {
	p.opSeconds.WithLabelValues(op, fmt.Sprintf("%t", success)).Observe(seconds)
}

func (p *promRecorder) ObserveGraphs(candidates, accepted int) {
	p.candidates.Observe(float64(candidates))
	p.accepted.Observe(float64(accepted))
}

func newPromRecorder(registry *prom.Registry) *promRecorder {
	p := &promRecorder{
		opTotal: prom.NewCounterVec(prom.CounterOpts{
			Name: "xfts_ops_total",
			Help: "Total number of search and index operations",
		}, []string{"op", "success"}),
		opSeconds: prom.NewHistogramVec(prom.HistogramOpts{
			Name:    "xfts_op_seconds",
			Help:    "Search and index operation duration in seconds",
			Buckets: prom.DefBuckets,
		}, []string{"op", "success"}),
		candidates: prom.NewHistogram(prom.HistogramOpts{
			Name:    "xfts_search_candidate_graphs",
			Help:    "Entity graphs built per search",
			Buckets: prom.ExponentialBuckets(1, 4, 8),
		}),
		accepted: prom.NewHistogram(prom.HistogramOpts{
			Name:    "xfts_search_accepted_graphs",
			Help:    "Entity graphs satisfying every query term per search",
			Buckets: prom.ExponentialBuckets(1, 4, 8),
		}),
	}
	registry.MustRegister(p.opTotal, p.opSeconds, p.candidates, p.accepted)
	return p
}

// Enable installs the Prometheus recorder and serves /metrics and /healthz
// on addr in the background.
func Enable(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}

	registry := prom.NewRegistry()
	SetRecorder(newPromRecorder(registry))

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	go func() { _ = http.Serve(listener, mux) }()
	return nil
}
