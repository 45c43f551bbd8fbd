// Package metrics exposes Prometheus collectors for window evaluations.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder feeds evaluation observations into Prometheus collectors. It satisfies
// window.Recorder.
type Recorder struct {
	// EvaluationsTotal counts evaluations by outcome (ok, error, config_error, cancelled).
	EvaluationsTotal *prometheus.CounterVec
	// RowsEvaluated counts input rows of evaluations that reached the partitioning step.
	RowsEvaluated prometheus.Counter
	// PartitionsTotal counts partitions scheduled, summed over all window blocks.
	PartitionsTotal prometheus.Counter
	// EvaluationDuration is the wall time of an evaluation.
	EvaluationDuration prometheus.Histogram
}

// NewRecorder registers the collectors with reg
func NewRecorder(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		EvaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "parwin_evaluations_total",
				Help: "Total number of window evaluations",
			},
			[]string{"status"},
		),
		RowsEvaluated: factory.NewCounter(prometheus.CounterOpts{
			Name: "parwin_rows_evaluated_total",
			Help: "Total number of input rows evaluated",
		}),
		PartitionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "parwin_partitions_total",
			Help: "Total number of partitions evaluated",
		}),
		EvaluationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "parwin_evaluation_duration_seconds",
			Help:    "Window evaluation latency in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveEvaluation records one evaluation
func (r *Recorder) ObserveEvaluation(status string, rows, partitions int, elapsed time.Duration) {
	if status == "" {
		status = "unknown"
	}
	r.EvaluationsTotal.WithLabelValues(status).Inc()
	r.RowsEvaluated.Add(float64(rows))
	r.PartitionsTotal.Add(float64(partitions))
	r.EvaluationDuration.Observe(elapsed.Seconds())
}

var (
	once     sync.Once
	recorder *Recorder
)

// Default returns the recorder registered with the default Prometheus registry
func Default() *Recorder {
	once.Do(func() {
		recorder = NewRecorder(prometheus.DefaultRegisterer)
	})
	return recorder
}

// Handler returns the Prometheus HTTP handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
