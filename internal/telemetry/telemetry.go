package telemetry

import (
	"log"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/saathi-labs/saathi/config"
)

// Telemetry tracks request and per-step processing metrics for the gateway.
type Telemetry struct {
	config config.TelemetryConfig
	logger *log.Logger

	mu      sync.RWMutex
	metrics *Metrics

	promRequests      *prometheus.CounterVec
	promStepDuration  *prometheus.HistogramVec
	promProviderError *prometheus.CounterVec
}

// Metrics holds in-memory counters mirroring what Prometheus exports, handy
// for tests and the status endpoint.
type Metrics struct {
	TotalRequests      int64
	SuccessfulRequests int64
	FailedRequests     int64

	StepExecutions   map[string]int64
	StepFailures     map[string]int64
	StepAverageTimes map[string]time.Duration
}

// RequestEvent represents one completed pipeline request.
type RequestEvent struct {
	ID             string
	Query          string
	StartTime      time.Time
	EndTime        time.Time
	ProcessingTime time.Duration
	Success        bool
	Error          string
	UsedScreen     bool
	UsedWebSearch  bool
}

// StepEvent represents one pipeline step execution.
type StepEvent struct {
	ID       string
	Step     string
	Duration time.Duration
	Success  bool
	Error    string
}

// NewTelemetry creates a telemetry instance and registers its Prometheus
// collectors. Registration conflicts (repeated construction in tests) fall
// back to the already-registered collector.
func NewTelemetry(cfg config.TelemetryConfig) *Telemetry {
	t := &Telemetry{
		config: cfg,
		logger: log.New(log.Writer(), "[TELEMETRY] ", log.LstdFlags),
		metrics: &Metrics{
			StepExecutions:   make(map[string]int64),
			StepFailures:     make(map[string]int64),
			StepAverageTimes: make(map[string]time.Duration),
		},
	}

	if !cfg.Enabled {
		return t
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saathi_requests_total",
		Help: "Pipeline requests by outcome.",
	}, []string{"outcome"})
	stepDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "saathi_step_duration_seconds",
		Help:    "Duration of pipeline steps.",
		Buckets: prometheus.DefBuckets,
	}, []string{"step"})
	providerErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "saathi_step_errors_total",
		Help: "Pipeline step failures by step.",
	}, []string{"step"})

	t.promRequests = registerCounterVec(requests)
	t.promStepDuration = registerHistogramVec(stepDuration)
	t.promProviderError = registerCounterVec(providerErrors)

	return t
}

func registerCounterVec(c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.CounterVec)
		}
		return nil
	}
	return c
}

func registerHistogramVec(h *prometheus.HistogramVec) *prometheus.HistogramVec {
	if err := prometheus.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(*prometheus.HistogramVec)
		}
		return nil
	}
	return h
}

// RecordRequestEvent records a completed request.
func (t *Telemetry) RecordRequestEvent(ev RequestEvent) {
	t.mu.Lock()
	t.metrics.TotalRequests++
	if ev.Success {
		t.metrics.SuccessfulRequests++
	} else {
		t.metrics.FailedRequests++
	}
	t.mu.Unlock()

	if t.promRequests != nil {
		outcome := "success"
		if !ev.Success {
			outcome = "failure"
		}
		t.promRequests.WithLabelValues(outcome).Inc()
	}

	if t.config.Enabled && !ev.Success {
		t.logger.Printf("request %s failed after %v: %s", ev.ID, ev.ProcessingTime, ev.Error)
	}
}

// RecordStepEvent records one pipeline step execution.
func (t *Telemetry) RecordStepEvent(ev StepEvent) {
	t.mu.Lock()
	count := t.metrics.StepExecutions[ev.Step] + 1
	t.metrics.StepExecutions[ev.Step] = count
	if !ev.Success {
		t.metrics.StepFailures[ev.Step]++
	}
	// running average
	prev := t.metrics.StepAverageTimes[ev.Step]
	t.metrics.StepAverageTimes[ev.Step] = prev + (ev.Duration-prev)/time.Duration(count)
	t.mu.Unlock()

	if t.promStepDuration != nil {
		t.promStepDuration.WithLabelValues(ev.Step).Observe(ev.Duration.Seconds())
	}
	if !ev.Success && t.promProviderError != nil {
		t.promProviderError.WithLabelValues(ev.Step).Inc()
	}
}

// Snapshot returns a copy of the in-memory metrics.
func (t *Telemetry) Snapshot() Metrics {
	t.mu.RLock()
	defer t.mu.RUnlock()

	snap := Metrics{
		TotalRequests:      t.metrics.TotalRequests,
		SuccessfulRequests: t.metrics.SuccessfulRequests,
		FailedRequests:     t.metrics.FailedRequests,
		StepExecutions:     make(map[string]int64, len(t.metrics.StepExecutions)),
		StepFailures:       make(map[string]int64, len(t.metrics.StepFailures)),
		StepAverageTimes:   make(map[string]time.Duration, len(t.metrics.StepAverageTimes)),
	}
	for k, v := range t.metrics.StepExecutions {
		snap.StepExecutions[k] = v
	}
	for k, v := range t.metrics.StepFailures {
		snap.StepFailures[k] = v
	}
	for k, v := range t.metrics.StepAverageTimes {
		snap.StepAverageTimes[k] = v
	}
	return snap
}
