package observability

import (
	"context"

	"github.com/aretw0/catsort/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "catsort"

// Metrics holds the collectors fed by engine hooks.
type Metrics struct {
	Runs              *prometheus.CounterVec
	RunDuration       *prometheus.HistogramVec
	ItemsPlaced       *prometheus.CounterVec
	ItemsSkipped      prometheus.Counter
	GroupsAttached    *prometheus.CounterVec
	MountsSynthesized *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil. Registration panics on duplicates, like prometheus.MustRegister.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of grouping runs by outcome and layout",
			},
			[]string{"outcome", "layout"},
		),
		RunDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of grouping runs",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"outcome"},
		),
		ItemsPlaced: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "items_placed_total",
				Help:      "Total number of categories moved into a group",
			},
			[]string{"group"},
		),
		ItemsSkipped: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "items_skipped_total",
				Help:      "Total number of categories without a rendered item",
			},
		),
		GroupsAttached: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "groups_attached_total",
				Help:      "Total number of group containers mounted",
			},
			[]string{"group"},
		),
		MountsSynthesized: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mounts_synthesized_total",
				Help:      "Total number of mounted groups whose mount point had to be synthesized",
			},
			[]string{"group"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Runs, m.RunDuration, m.ItemsPlaced, m.ItemsSkipped, m.GroupsAttached, m.MountsSynthesized)
	}
	return m
}

// Hooks returns lifecycle hooks recording into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnItemPlaced: func(_ context.Context, e *domain.PlacementEvent) {
			m.ItemsPlaced.WithLabelValues(e.Group).Inc()
		},
		OnItemSkipped: func(context.Context, *domain.PlacementEvent) {
			m.ItemsSkipped.Inc()
		},
		OnGroupAttached: func(_ context.Context, e *domain.GroupEvent) {
			m.GroupsAttached.WithLabelValues(e.Group).Inc()
			if e.SynthesizedMount {
				m.MountsSynthesized.WithLabelValues(e.Group).Inc()
			}
		},
		OnRunFinished: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(string(e.Outcome), e.Layout).Inc()
			m.RunDuration.WithLabelValues(string(e.Outcome)).Observe(e.Duration.Seconds())
		},
	}
}
