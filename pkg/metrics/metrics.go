// Package metrics provides Prometheus metrics for the sportscast engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sportscast"

// Core ingestion metrics.
var (
	pollCycles = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "poll_cycles_total",
		Help:      "Completed poll cycles, real and synthetic.",
	})
	fetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_failures_total",
		Help:      "Feed fetches that failed at the transport level.",
	})
	fetchNotModified = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_not_modified_total",
		Help:      "Conditional fetches answered with not-modified.",
	})
	eventsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_admitted_total",
		Help:      "Feed items admitted into the event log.",
	})
	itemsDuplicate = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_duplicate_total",
		Help:      "Feed items dropped because their ID was already seen.",
	})
	itemsMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_malformed_total",
		Help:      "Feed items dropped for missing required fields.",
	})
)

// Commentary metrics.
var (
	commentaryRemote = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commentary_remote_total",
		Help:      "Commentary lines produced by the remote collaborator.",
	})
	commentaryFallback = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commentary_fallback_total",
		Help:      "Commentary lines produced by the deterministic templates.",
	})
)

// Scheduler and budget gauges.
var (
	rateBudgetRemaining = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_budget_remaining",
		Help:      "Remaining calls reported by the feed collaborator.",
	})
	rateBudgetLimit = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rate_budget_limit",
		Help:      "Total call ceiling reported by the feed collaborator.",
	})
	pollInterval = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "poll_interval_seconds",
		Help:      "Effective interval between poll cycles.",
	})
	schedulerMode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "scheduler_mode",
		Help:      "Scheduler mode: 0 normal, 1 throttled, 2 demo fallback.",
	})
	trackedRepos = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "tracked_repositories",
		Help:      "Repositories with at least one admitted event.",
	})
)

// Recording helpers. All are safe to call from any goroutine.

func RecordPollCycle()          { pollCycles.Inc() }
func RecordFetchFailure()       { fetchFailures.Inc() }
func RecordFetchNotModified()   { fetchNotModified.Inc() }
func RecordEventAdmitted()      { eventsAdmitted.Inc() }
func RecordItemDuplicate()      { itemsDuplicate.Inc() }
func RecordItemMalformed()      { itemsMalformed.Inc() }
func RecordCommentaryRemote()   { commentaryRemote.Inc() }
func RecordCommentaryFallback() { commentaryFallback.Inc() }

// SetRateBudget publishes the last observed budget headers.
func SetRateBudget(remaining, limit int) {
	rateBudgetRemaining.Set(float64(remaining))
	rateBudgetLimit.Set(float64(limit))
}

// SetPollInterval publishes the effective poll interval.
func SetPollInterval(d time.Duration) {
	pollInterval.Set(d.Seconds())
}

// SetSchedulerMode publishes the scheduler state machine mode.
func SetSchedulerMode(mode int) {
	schedulerMode.Set(float64(mode))
}

// SetTrackedRepos publishes the tracked repository count.
func SetTrackedRepos(n int) {
	trackedRepos.Set(float64(n))
}
