package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ActionsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_actions_applied_total",
		Help: "Total number of actions folded into the state, labelled by kind.",
	}, []string{"kind"})

	ActionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_actions_rejected_total",
		Help: "Total number of actions the reducer rejected, labelled by kind.",
	}, []string{"kind"})

	Explorations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_explorations_total",
		Help: "Total number of finished explorations, labelled by kind and outcome.",
	}, []string{"kind", "outcome"})

	ExplorationsSuperseded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "explorer_explorations_superseded_total",
		Help: "Total number of in-flight explorations cancelled by a newer one.",
	})

	Lookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "explorer_lookups_total",
		Help: "Total number of encyclopedia API calls, labelled by operation and outcome.",
	}, []string{"op", "outcome"})

	LookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "explorer_lookup_duration_ms",
		Help:    "Encyclopedia API call latency in milliseconds.",
		Buckets: []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"op"})

	HistoryLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "explorer_history_topics",
		Help: "Number of topics on the active branch.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "explorer_graph_nodes",
		Help: "Number of nodes in the current graph session.",
	})

	Subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "explorer_state_subscribers",
		Help: "Number of live state stream subscribers.",
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "explorer_queue_utilization_ratio",
		Help: "Current action queue utilization (0–1).",
	})
)
