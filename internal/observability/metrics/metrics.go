package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success                  Outcome       = "success"
	Error                    Outcome       = "error"
	MetricRequestTimeout     time.Duration = 5 * time.Second
	MetricRequestIdleTimeout time.Duration = 10 * time.Second
)

func (O Outcome) String() string {
	return string(O)
}

func outcome(failure bool) Outcome {
	if failure {
		return Error
	}
	return Success
}

var defaultHistogramBucketsSeconds = []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30}

// collectors are created eagerly so that recording works before Init, as in
// tests. Init only registers them and starts the http endpoint.
var (
	once          sync.Once
	metricsRouter *chi.Mux

	// client requests are the ones sending to other service
	clientRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "client_request_duration_seconds",
			Help:    "Histogram of outgoing client request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"baseurl", "method", "path", "status"},
	)

	nearClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "near_client_latency_seconds",
			Help:    "Histogram of near rpc client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	relayerClientLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relayer_client_latency_seconds",
			Help:    "Histogram of relayer client durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "status"},
	)

	queueSendErrorCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "queue_send_error_count",
			Help: "The total number of errors when sending messages to the queue",
		},
	)

	pollerDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "poller_duration_seconds",
			Help:    "Histogram of poller durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"type", "status"},
	)

	executorTaskDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "executor_task_duration_seconds",
			Help:    "Duration of a task run on a ledger executor in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"executor", "kind"},
	)

	executorQueueDepth = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "executor_queue_depth",
			Help: "Number of tasks waiting for a ledger executor",
		},
		[]string{"executor"},
	)

	externalCallFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "external_call_failure_count",
			Help: "Number of failed calls to collaborators split by call",
		},
		[]string{"call"},
	)

	emittedEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emitted_event_count",
			Help: "Number of emitted ledger events split by event",
		},
		[]string{"event"},
	)

	claimsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claim_count",
			Help: "Number of finished claims split by resulting state",
		},
		[]string{"state"},
	)

	pendingClaimsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pending_claims",
			Help: "Number of claims waiting for their external calls",
		},
	)

	claimsByStateGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "stored_claims",
			Help: "Number of stored claims split by state",
		},
		[]string{"state"},
	)

	totalStakedGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_nft_staked",
			Help: "Number of currently staked positions",
		},
	)

	totalScoreGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "total_score",
			Help: "Sum of all recorded score, as float",
		},
	)

	dbLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "db_latency_seconds",
			Help: "DB latency in seconds splitted by method and execution status",
		},
		[]string{"method", "status"},
	)
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		registerMetrics()
		initMetricsRouter(metricsPort)
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})
	// Create a custom server with timeout settings
	metricsAddr := fmt.Sprintf(":%d", metricsPort)
	server := &http.Server{
		Addr:         metricsAddr,
		Handler:      metricsRouter,
		ReadTimeout:  MetricRequestTimeout,
		WriteTimeout: MetricRequestTimeout,
		IdleTimeout:  MetricRequestIdleTimeout,
	}

	// Start the server in a separate goroutine
	go func() {
		log.Printf("Starting metrics server on %s", metricsAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msgf("Error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics registers the Prometheus metrics.
func registerMetrics() {
	prometheus.MustRegister(
		clientRequestDurationHistogram,
		nearClientLatency,
		relayerClientLatency,
		queueSendErrorCounter,
		pollerDurationHistogram,
		executorTaskDuration,
		executorQueueDepth,
		externalCallFailures,
		emittedEvents,
		claimsCounter,
		pendingClaimsGauge,
		claimsByStateGauge,
		totalStakedGauge,
		totalScoreGauge,
		dbLatency,
	)
}

func RecordNearClientLatency(d time.Duration, method string, failure bool) {
	nearClientLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordRelayerClientLatency(d time.Duration, method string, failure bool) {
	relayerClientLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordDbLatency(d time.Duration, method string, failure bool) {
	dbLatency.WithLabelValues(method, outcome(failure).String()).Observe(d.Seconds())
}

func RecordExecutorTask(executor, kind string, d time.Duration) {
	executorTaskDuration.WithLabelValues(executor, kind).Observe(d.Seconds())
}

func RecordExecutorQueueDepth(executor string, depth int) {
	executorQueueDepth.WithLabelValues(executor).Set(float64(depth))
}

func IncExternalCallFailures(call string) {
	externalCallFailures.WithLabelValues(call).Inc()
}

func IncEmittedEvents(event string) {
	emittedEvents.WithLabelValues(event).Inc()
}

func IncClaims(state string) {
	claimsCounter.WithLabelValues(state).Inc()
}

func IncPendingClaims() {
	pendingClaimsGauge.Inc()
}

func DecPendingClaims() {
	pendingClaimsGauge.Dec()
}

func RecordClaimsByState(state string, count int64) {
	claimsByStateGauge.WithLabelValues(state).Set(float64(count))
}

func RecordTotalStaked(count uint64) {
	totalStakedGauge.Set(float64(count))
}

func RecordTotalScore(score float64) {
	totalScoreGauge.Set(score)
}

// StartClientRequestDurationTimer starts a timer to measure outgoing client request duration.
func StartClientRequestDurationTimer(baseUrl, method, path string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		clientRequestDurationHistogram.WithLabelValues(
			baseUrl,
			method,
			path,
			fmt.Sprintf("%d", statusCode),
		).Observe(duration)
	}
}

func RecordQueueSendError() {
	queueSendErrorCounter.Inc()
}
