package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "payment_statistics_"

	ResultSuccess = "success"
	ResultError   = "error"
)

var (
	registerOnce sync.Once

	decisionsTotal   *prometheus.CounterVec
	applyErrorsTotal *prometheus.CounterVec
	batchTotal       *prometheus.CounterVec
	batchLatency     *prometheus.HistogramVec
	jobChunksTotal   *prometheus.CounterVec
)

// Init registers the recovery metrics on reg. A nil reg uses the default registerer.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		decisionsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "decisions_total",
				Help: "Total reconciliation decisions by kind",
			},
			[]string{"kind"},
		)
		applyErrorsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "apply_errors_total",
				Help: "Total failed storage operations by operation",
			},
			[]string{"op"},
		)
		batchTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "batches_total",
				Help: "Total recovery batches by result",
			},
			[]string{"result"},
		)
		batchLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "batch_duration_seconds",
				Help:    "Recovery batch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		jobChunksTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "job_chunks_total",
				Help: "Total job log chunks executed by result",
			},
			[]string{"result"},
		)

		reg.MustRegister(
			decisionsTotal,
			applyErrorsTotal,
			batchTotal,
			batchLatency,
			jobChunksTotal,
		)
	})
}

// IncDecision increments the decision counter.
func IncDecision(kind string) {
	if kind == "" {
		kind = "unknown"
	}
	if decisionsTotal != nil {
		decisionsTotal.WithLabelValues(kind).Inc()
	}
}

// IncApplyError increments the apply error counter.
func IncApplyError(op string) {
	if op == "" {
		op = "unknown"
	}
	if applyErrorsTotal != nil {
		applyErrorsTotal.WithLabelValues(op).Inc()
	}
}

// ObserveBatch records batch duration and result.
func ObserveBatch(result string, duration time.Duration) {
	if result == "" {
		result = ResultSuccess
	}
	if batchTotal != nil {
		batchTotal.WithLabelValues(result).Inc()
	}
	if batchLatency != nil {
		batchLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

func IncJobChunk(result string) {
	if result == "" {
		result = ResultSuccess
	}
	if jobChunksTotal != nil {
		jobChunksTotal.WithLabelValues(result).Inc()
	}
}
