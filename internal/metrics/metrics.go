// Package metrics exposes Prometheus instruments for the detector.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/media"
	"github.com/akhilprojects64/Smart-Deepfake-Detection-System/internal/verdict"
)

const namespace = "detector"

// Recorder implements widget.Observer on top of Prometheus collectors
type Recorder struct {
	gatherer prometheus.Gatherer

	rejections     *prometheus.CounterVec
	submissions    *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	verdicts       *prometheus.CounterVec
	livePreviews   prometheus.Gauge
	activeSessions prometheus.Gauge
}

// NewRecorder registers the collectors on a fresh registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewRecorderWith(reg, reg)
}

// NewRecorderWith registers the collectors on reg and serves them from g
func NewRecorderWith(reg prometheus.Registerer, g prometheus.Gatherer) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		gatherer: g,
		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_rejections_total",
			Help:      "Files rejected by client-side validation",
		}, []string{"kind", "reason"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Analysis requests by outcome",
		}, []string{"kind", "outcome"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent waiting for the classification service",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"kind"}),
		verdicts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdicts_total",
			Help:      "Displayed verdicts",
		}, []string{"kind", "verdict"}),
		livePreviews: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "live_previews",
			Help:      "Preview handles not yet released",
		}),
		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Widget sessions currently held",
		}),
	}
}

func (r *Recorder) Rejected(kind media.Kind, reason media.Reason) {
	r.rejections.WithLabelValues(string(kind), string(reason)).Inc()
}

func (r *Recorder) Submitted(kind media.Kind, outcome string, elapsed time.Duration) {
	r.submissions.WithLabelValues(string(kind), outcome).Inc()
	r.duration.WithLabelValues(string(kind)).Observe(elapsed.Seconds())
}

func (r *Recorder) Classified(kind media.Kind, v verdict.Verdict) {
	r.verdicts.WithLabelValues(string(kind), v.Class()).Inc()
}

func (r *Recorder) PreviewCreated() {
	r.livePreviews.Inc()
}

func (r *Recorder) PreviewReleased() {
	r.livePreviews.Dec()
}

// SessionOpened counts a new widget session
func (r *Recorder) SessionOpened() {
	r.activeSessions.Inc()
}

// SessionClosed counts a session torn down
func (r *Recorder) SessionClosed() {
	r.activeSessions.Dec()
}

// Handler serves the collected metrics
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
