package metrics

import (
	"strings"
	"time"

	"mcq-portal/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "mcqportal"

// Action names used as the "action" label.
const (
	ActionUpload   = "upload"
	ActionGenerate = "generate"
	ActionDownload = "download"
)

// Recorder counts controller actions by outcome and times the MCQ service
// calls behind them. A nil *Recorder records nothing.
type Recorder struct {
	actions  *prometheus.CounterVec
	upstream *prometheus.HistogramVec
	deduped  prometheus.Counter
}

func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		actions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "actions_total",
			Help:      "Upload, generate and download actions by outcome.",
		}, []string{"action", "outcome"}),
		upstream: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of requests to the MCQ service.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"action"}),
		deduped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generate_shared_total",
			Help:      "Generate calls whose MCQ service response was shared with an identical concurrent call.",
		}),
	}
}

// Observe records one action. err may be nil.
func (r *Recorder) Observe(action string, err error) {
	if r == nil {
		return
	}
	r.actions.WithLabelValues(action, Outcome(err)).Inc()
}

// ObserveUpstream records the latency of one MCQ service call.
func (r *Recorder) ObserveUpstream(action string, d time.Duration) {
	if r == nil {
		return
	}
	r.upstream.WithLabelValues(action).Observe(d.Seconds())
}

// SharedGenerate counts a generate call that shared its response.
func (r *Recorder) SharedGenerate() {
	if r == nil {
		return
	}
	r.deduped.Inc()
}

// Outcome maps an error to a low-cardinality label value.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return strings.ToLower(string(domain.CodeOf(err)))
}
