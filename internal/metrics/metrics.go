// Package metrics exposes Prometheus counters and gauges for the feed
// pipeline's throughput and the SPSC ring's depth, and the /metrics HTTP handler
// that serves them. It is a pure observer: nothing in internal/engine or
// internal/feed depends on it, they only report into it.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Recorder is the narrow interface the pipeline reports through, so
// internal/feed never imports prometheus directly.
type Recorder interface {
	MessageProcessed()
	TradeExecuted(quantity uint32)
	SetRingDepth(depth int)
}

// Registry wraps a private Prometheus registry with the counters and gauges
// this engine reports. A private registry (rather than the global default)
// keeps repeated test runs from panicking on duplicate registration.
type Registry struct {
	registry *prometheus.Registry

	messagesProcessed prometheus.Counter
	tradesExecuted    prometheus.Counter
	tradeVolume       prometheus.Counter
	ringDepth         prometheus.Gauge
}

// New builds a Registry with all series pre-registered.
func New() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		messagesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "messages_processed_total",
			Help:      "Number of feed messages dispatched into the order book.",
		}),
		tradesExecuted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "trades_executed_total",
			Help:      "Number of trades recorded by the matcher.",
		}),
		tradeVolume: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lob",
			Name:      "trade_volume_total",
			Help:      "Total matched quantity across all trades.",
		}),
		ringDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lob",
			Name:      "ring_depth",
			Help:      "Number of messages currently buffered in the SPSC ring.",
		}),
	}

	reg.MustRegister(r.messagesProcessed, r.tradesExecuted, r.tradeVolume, r.ringDepth)
	return r
}

func (r *Registry) MessageProcessed() {
	r.messagesProcessed.Inc()
}

func (r *Registry) TradeExecuted(quantity uint32) {
	r.tradesExecuted.Inc()
	r.tradeVolume.Add(float64(quantity))
}

func (r *Registry) SetRingDepth(depth int) {
	r.ringDepth.Set(float64(depth))
}

// Serve starts an HTTP server exposing /metrics and /healthz on addr,
// shutting down when ctx is cancelled. It blocks until the server exits.
func (r *Registry) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("metrics server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
