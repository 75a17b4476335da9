package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	fetchTotal    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	enrichTotal   *prometheus.CounterVec
	digestSource  *prometheus.CounterVec
	buildDuration *prometheus.HistogramVec
	errorsTotal   *prometheus.CounterVec
}

// New creates a recorder registered with the default registry.
func New() *Recorder {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates a recorder registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		fetchTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyfin_fetch_total",
				Help: "Source fetches by outcome",
			},
			[]string{"source", "result"},
		),
		fetchDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dailyfin_fetch_duration_seconds",
				Help:    "Duration of source fetches in seconds",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"source"},
		),
		enrichTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyfin_enrichment_total",
				Help: "Enrichment calls by outcome",
			},
			[]string{"outcome"},
		),
		digestSource: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyfin_digest_source_total",
				Help: "Which digest tier each built report used",
			},
			[]string{"source"},
		),
		buildDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dailyfin_report_build_seconds",
				Help:    "Report build duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dailyfin_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
	}
}

// RecordFetch records one source fetch.
func (r *Recorder) RecordFetch(source string, ok bool, seconds float64) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.fetchTotal.WithLabelValues(source, result).Inc()
	r.fetchDuration.WithLabelValues(source).Observe(seconds)
}

// RecordEnrichment records an enrichment outcome (ok or fallback).
func (r *Recorder) RecordEnrichment(outcome string) {
	r.enrichTotal.WithLabelValues(outcome).Inc()
}

func (r *Recorder) RecordDigestSource(source string) {
	r.digestSource.WithLabelValues(source).Inc()
}

func (r *Recorder) RecordBuild(kind string, seconds float64) {
	r.buildDuration.WithLabelValues(kind).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// Nop discards everything.
type Nop struct{}

func (Nop) RecordFetch(string, bool, float64) {}
func (Nop) RecordEnrichment(string)           {}
func (Nop) RecordDigestSource(string)         {}
func (Nop) RecordBuild(string, float64)       {}
func (Nop) RecordError(string)                {}
