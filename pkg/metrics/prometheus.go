// Package metrics provides Prometheus metrics for the talent simulation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Snapshot load results.
const (
	LoadHit    = "hit"
	LoadMiss   = "miss"
	LoadFailed = "error"
)

// Manager manages all Prometheus metrics for the simulation.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Round lifecycle
	roundsCommitted   prometheus.Counter
	commitRejections  *prometheus.CounterVec
	commitLatency     prometheus.Histogram
	departures        *prometheus.CounterVec
	hires             prometheus.Counter
	promotions        prometheus.Counter
	trainingsAssigned *prometheus.CounterVec

	// Organization state
	score          prometheus.Gauge
	round          prometheus.Gauge
	activeCount    prometheus.Gauge
	openPositions  prometheus.Gauge
	applicantCount prometheus.Gauge

	// Persistence
	snapshotSaves       prometheus.Counter
	snapshotSaveErrors  prometheus.Counter
	snapshotSaveLatency prometheus.Histogram
	snapshotLoads       *prometheus.CounterVec
	persistQueueLength  prometheus.Gauge
	persistQueueCap     prometheus.Gauge
	persistDrops        prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "talentsim",
		subsystem:        "simulation",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.roundsCommitted = auto.NewCounter(m.counterOpts("rounds_committed_total", "Total number of committed rounds"))
	m.commitRejections = auto.NewCounterVec(m.counterOpts("commit_rejections_total", "Commits refused by a precondition"), []string{"reason"})
	m.commitLatency = auto.NewHistogram(m.histogramOpts("commit_latency_milliseconds", "Time spent advancing one round in milliseconds"))
	m.departures = auto.NewCounterVec(m.counterOpts("departures_total", "Employees leaving the organization by reason"), []string{"reason"})
	m.hires = auto.NewCounter(m.counterOpts("hires_total", "Applicants hired into open positions"))
	m.promotions = auto.NewCounter(m.counterOpts("promotions_total", "Internal promotions into open positions"))
	m.trainingsAssigned = auto.NewCounterVec(m.counterOpts("trainings_assigned_total", "Training assignments by kind"), []string{"kind"})

	m.score = auto.NewGauge(m.gaugeOpts("score", "Current organization score"))
	m.round = auto.NewGauge(m.gaugeOpts("round", "Current round number"))
	m.activeCount = auto.NewGauge(m.gaugeOpts("active_employees", "Number of active employees"))
	m.openPositions = auto.NewGauge(m.gaugeOpts("open_positions", "Number of open position titles"))
	m.applicantCount = auto.NewGauge(m.gaugeOpts("applicants", "Number of eligible applicants"))

	m.snapshotSaves = auto.NewCounter(m.counterOpts("snapshot_saves_total", "Snapshots written to the store"))
	m.snapshotSaveErrors = auto.NewCounter(m.counterOpts("snapshot_save_errors_total", "Snapshot writes that failed"))
	m.snapshotSaveLatency = auto.NewHistogram(m.histogramOpts("snapshot_save_latency_milliseconds", "Snapshot write latency in milliseconds"))
	m.snapshotLoads = auto.NewCounterVec(m.counterOpts("snapshot_loads_total", "Snapshot loads by result"), []string{"result"})
	m.persistQueueLength = auto.NewGauge(m.gaugeOpts("persist_queue_length", "Snapshots waiting to be written"))
	m.persistQueueCap = auto.NewGauge(m.gaugeOpts("persist_queue_capacity", "Capacity of the persistence queue"))
	m.persistDrops = auto.NewCounter(m.counterOpts("persist_drops_total", "Snapshots dropped because the persistence queue was full or closed"))
}

// Enabled reports whether the manager records anything.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordRoundCommitted counts a committed round and its latency.
func (m *Manager) RecordRoundCommitted(latencyMs float64) {
	if !m.enabled {
		return
	}
	m.roundsCommitted.Inc()
	m.commitLatency.Observe(latencyMs)
}

// RecordCommitRejected counts a refused commit.
func (m *Manager) RecordCommitRejected(reason string) {
	if !m.enabled {
		return
	}
	m.commitRejections.WithLabelValues(reason).Inc()
}

// RecordDeparture counts an employee leaving for the given reason.
func (m *Manager) RecordDeparture(reason string) {
	if !m.enabled {
		return
	}
	m.departures.WithLabelValues(reason).Inc()
}

// RecordHire counts a hire.
func (m *Manager) RecordHire() {
	if m.enabled {
		m.hires.Inc()
	}
}

// RecordPromotion counts a promotion.
func (m *Manager) RecordPromotion() {
	if m.enabled {
		m.promotions.Inc()
	}
}

// RecordTraining counts a training assignment.
func (m *Manager) RecordTraining(kind string) {
	if !m.enabled {
		return
	}
	m.trainingsAssigned.WithLabelValues(kind).Inc()
}

// UpdateOrganization sets the organization gauges.
func (m *Manager) UpdateOrganization(round int, score float64, active, open, applicants int) {
	if !m.enabled {
		return
	}
	m.round.Set(float64(round))
	m.score.Set(score)
	m.activeCount.Set(float64(active))
	m.openPositions.Set(float64(open))
	m.applicantCount.Set(float64(applicants))
}

// RecordSnapshotSave records one store write.
func (m *Manager) RecordSnapshotSave(latencyMs float64, err error) {
	if !m.enabled {
		return
	}
	if err != nil {
		m.snapshotSaveErrors.Inc()
		return
	}
	m.snapshotSaves.Inc()
	m.snapshotSaveLatency.Observe(latencyMs)
}

// RecordSnapshotLoad records one store read with a Load* result.
func (m *Manager) RecordSnapshotLoad(result string) {
	if !m.enabled {
		return
	}
	m.snapshotLoads.WithLabelValues(result).Inc()
}

// UpdatePersistQueue sets the persistence queue gauges.
func (m *Manager) UpdatePersistQueue(length, capacity int) {
	if !m.enabled {
		return
	}
	m.persistQueueLength.Set(float64(length))
	m.persistQueueCap.Set(float64(capacity))
}

// RecordPersistDrop counts a snapshot that could not be queued.
func (m *Manager) RecordPersistDrop() {
	if m.enabled {
		m.persistDrops.Inc()
	}
}

// RecordRoundCommitted counts a committed round on the global manager.
func RecordRoundCommitted(latencyMs float64) { globalManager.RecordRoundCommitted(latencyMs) }

// RecordCommitRejected counts a refused commit on the global manager.
func RecordCommitRejected(reason string) { globalManager.RecordCommitRejected(reason) }

// RecordDeparture counts a departure on the global manager.
func RecordDeparture(reason string) { globalManager.RecordDeparture(reason) }

// RecordHire counts a hire on the global manager.
func RecordHire() { globalManager.RecordHire() }

// RecordPromotion counts a promotion on the global manager.
func RecordPromotion() { globalManager.RecordPromotion() }

// RecordTraining counts a training assignment on the global manager.
func RecordTraining(kind string) { globalManager.RecordTraining(kind) }

// UpdateOrganization sets the organization gauges on the global manager.
func UpdateOrganization(round int, score float64, active, open, applicants int) {
	globalManager.UpdateOrganization(round, score, active, open, applicants)
}

// RecordSnapshotSave records a store write on the global manager.
func RecordSnapshotSave(latencyMs float64, err error) { globalManager.RecordSnapshotSave(latencyMs, err) }

// RecordSnapshotLoad records a store read on the global manager.
func RecordSnapshotLoad(result string) { globalManager.RecordSnapshotLoad(result) }

// UpdatePersistQueue sets the queue gauges on the global manager.
func UpdatePersistQueue(length, capacity int) { globalManager.UpdatePersistQueue(length, capacity) }

// RecordPersistDrop counts a dropped snapshot on the global manager.
func RecordPersistDrop() { globalManager.RecordPersistDrop() }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
