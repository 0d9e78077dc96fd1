package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Repository outcomes recorded by Metrics.
const (
	resultIndexed  = "indexed"
	resultTimedOut = "timed_out"
	resultFailed   = "failed"
)

// Metrics holds the collectors of one process on a private registry.
type Metrics struct {
	Registry *prometheus.Registry

	repositories   *prometheus.CounterVec
	commits        *prometheus.CounterVec
	repoDuration   prometheus.Histogram
	rollupDuration prometheus.Histogram
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		repositories: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "git_indexer_repositories_total",
			Help: "Repositories processed, by result.",
		}, []string{"result"}),
		commits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "git_indexer_commits_total",
			Help: "Commits written, by kind.",
		}, []string{"kind"}),
		repoDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "git_indexer_repository_duration_seconds",
			Help:    "Time spent indexing one repository.",
			Buckets: prometheus.ExponentialBuckets(0.5, 4, 8),
		}),
		rollupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "git_indexer_rollup_duration_seconds",
			Help:    "Time spent recomputing commit statistics.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeRepository(result string, elapsed time.Duration) {
	m.repositories.WithLabelValues(result).Inc()
	m.repoDuration.Observe(elapsed.Seconds())
}

// observeCommits records the writes of a committed repository pass.
func (m *Metrics) observeCommits(created, reused, branchUpdates int) {
	m.commits.WithLabelValues("new").Add(float64(created))
	m.commits.WithLabelValues("reused").Add(float64(reused))
	m.commits.WithLabelValues("branch_update").Add(float64(branchUpdates))
}

func (m *Metrics) observeRollup(elapsed time.Duration) {
	m.rollupDuration.Observe(elapsed.Seconds())
}

// WriteFile writes every collector in the text exposition format, replacing
// path atomically.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
