package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gitlab.com/fcv-2025.net/codejudge/internal/core/ports/secondary"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codejudge_evaluations_total",
			Help: "Total number of preview and grade evaluations",
		},
		[]string{"mode", "language", "status"},
	)

	EvaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codejudge_evaluation_duration_ms",
			Help:    "Wall time of a whole evaluation in milliseconds",
			Buckets: []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		},
		[]string{"mode", "language"},
	)

	CasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codejudge_cases_total",
			Help: "Total number of executed test cases by outcome",
		},
		[]string{"language", "outcome"},
	)

	CaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "codejudge_case_duration_ms",
			Help:    "Sandbox time per test case in milliseconds",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000},
		},
		[]string{"language"},
	)

	ScoreUpserts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codejudge_score_upserts_total",
			Help: "Score ledger writes by result",
		},
		[]string{"result"},
	)

	InFlightEvaluations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codejudge_inflight_evaluations",
			Help: "Evaluations currently holding an execution slot",
		},
	)

	RateLimitHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "codejudge_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	CaseCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codejudge_case_cache_lookups_total",
			Help: "Test case cache lookups by result",
		},
		[]string{"result"},
	)
)

var _ secondary.JudgeMetrics = Recorder{}

// Recorder feeds judge events into the package collectors
type Recorder struct{}

func (Recorder) ObserveCase(language, outcome string, duration time.Duration) {
	CasesTotal.WithLabelValues(language, outcome).Inc()
	CaseDuration.WithLabelValues(language).Observe(float64(duration.Milliseconds()))
}

func (Recorder) ObserveEvaluation(mode, language, status string, duration time.Duration) {
	EvaluationsTotal.WithLabelValues(mode, language, status).Inc()
	EvaluationDuration.WithLabelValues(mode, language).Observe(float64(duration.Milliseconds()))
}

func (Recorder) ObserveScoreUpsert(success bool) {
	result := "ok"
	if !success {
		result = "error"
	}
	ScoreUpserts.WithLabelValues(result).Inc()
}
