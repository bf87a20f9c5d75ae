package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics records outcomes of inventory sync runs and webhook events.
type SyncMetrics struct {
	runs     *prometheus.CounterVec
	vehicles *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewSyncMetrics registers the sync metrics on the provided registerer.
func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	if reg == nil {
		return &SyncMetrics{}
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_sync_runs_total",
		Help: "Sync runs by run type and resulting status.",
	}, []string{"run_type", "status"})
	vehicles := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_sync_vehicles_total",
		Help: "Vehicles touched by sync runs, by action.",
	}, []string{"action"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_sync_duration_seconds",
		Help:    "Duration of sync runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"run_type"})
	reg.MustRegister(runs, vehicles, duration)
	return &SyncMetrics{runs: runs, vehicles: vehicles, duration: duration}
}

// ObserveRun records one finished run.
func (m *SyncMetrics) ObserveRun(runType, status string, duration time.Duration) {
	if m == nil || m.runs == nil {
		return
	}
	m.runs.WithLabelValues(normalizeLabel(runType), normalizeLabel(status)).Inc()
	m.duration.WithLabelValues(normalizeLabel(runType)).Observe(duration.Seconds())
}

// AddVehicles accumulates the per-action vehicle counters.
func (m *SyncMetrics) AddVehicles(action string, n int) {
	if m == nil || m.vehicles == nil || n <= 0 {
		return
	}
	m.vehicles.WithLabelValues(normalizeLabel(action)).Add(float64(n))
}

// CronJobMetrics records metadata for scheduled jobs.
type CronJobMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewCronJobMetrics registers the cron job metrics on the provided registerer.
func NewCronJobMetrics(reg prometheus.Registerer) *CronJobMetrics {
	if reg == nil {
		return &CronJobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "job_duration_seconds",
		Help:    "Duration of cron jobs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_success",
		Help: "Successful cron job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "job_failure",
		Help: "Failed cron job executions.",
	}, []string{"job"})
	reg.MustRegister(duration, success, failure)
	return &CronJobMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named job.
func (c *CronJobMetrics) ObserveDuration(job string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named job.
func (c *CronJobMetrics) IncSuccess(job string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(job)).Inc()
}

// IncFailure increments the failure counter for the named job.
func (c *CronJobMetrics) IncFailure(job string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
