package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once              sync.Once
	askDuration       prom.Histogram
	retrievalDuration prom.Histogram
	renderDuration    prom.Histogram
	askOutcome        *prom.CounterVec
	excerptsReturned  prom.Histogram
	indexedChunks     prom.Gauge
	rotations         prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.askDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "razgovaraj",
			Name:      "ask_duration_seconds",
			Help:      "Total duration of ask requests",
			Buckets:   prom.DefBuckets,
		})
		pr.retrievalDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "razgovaraj",
			Name:      "retrieval_duration_seconds",
			Help:      "Duration of corpus searches",
			Buckets:   prom.DefBuckets,
		})
		pr.renderDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "razgovaraj",
			Name:      "render_duration_seconds",
			Help:      "Duration of markup conversion",
			Buckets:   prom.DefBuckets,
		})
		pr.askOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "razgovaraj",
			Name:      "ask_outcomes_total",
			Help:      "Ask outcomes by final status",
		}, []string{"outcome"})
		pr.excerptsReturned = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "razgovaraj",
			Name:      "excerpts_returned",
			Help:      "Number of excerpts attached to an answer",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8, 12},
		})
		pr.indexedChunks = prom.NewGauge(prom.GaugeOpts{
			Namespace: "razgovaraj",
			Name:      "indexed_chunks",
			Help:      "Number of chunks currently in the corpus index",
		})
		pr.rotations = prom.NewCounter(prom.CounterOpts{
			Namespace: "razgovaraj",
			Name:      "suggestion_rotations_total",
			Help:      "Number of suggestion window rotations",
		})
		reg.MustRegister(pr.askDuration, pr.retrievalDuration, pr.renderDuration,
			pr.askOutcome, pr.excerptsReturned, pr.indexedChunks, pr.rotations)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveAskDuration(d time.Duration) {
	if p == nil || p.askDuration == nil {
		return
	}
	p.askDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRetrievalDuration(d time.Duration) {
	if p == nil || p.retrievalDuration == nil {
		return
	}
	p.retrievalDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRenderDuration(d time.Duration) {
	if p == nil || p.renderDuration == nil {
		return
	}
	p.renderDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncAskOutcome(outcome OutcomeLabel) {
	if p == nil || p.askOutcome == nil {
		return
	}
	p.askOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveExcerptsReturned(n int) {
	if p == nil || p.excerptsReturned == nil {
		return
	}
	p.excerptsReturned.Observe(float64(n))
}

func (p *PrometheusRecorder) SetIndexedChunks(n int) {
	if p == nil || p.indexedChunks == nil {
		return
	}
	p.indexedChunks.Set(float64(n))
}

func (p *PrometheusRecorder) IncSuggestionRotations() {
	if p == nil || p.rotations == nil {
		return
	}
	p.rotations.Inc()
}
