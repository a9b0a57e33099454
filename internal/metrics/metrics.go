package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpdatePasses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipetree_update_passes_total",
		Help: "Total number of full pipeline synchronization passes.",
	})

	RecordsEmitted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipetree_records_emitted",
		Help: "Number of tree records produced by the most recent pass.",
	})

	ResolveFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipetree_resolve_failures_total",
		Help: "Total number of raw node ids that did not resolve to a live proxy.",
	})

	HooksFired = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipetree_hooks_fired_total",
		Help: "Total number of lifecycle notifications, labelled by kind and status.",
	}, []string{"kind", "status"})

	CommandsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipetree_commands_total",
		Help: "Total number of browser commands executed, labelled by command.",
	}, []string{"command"})

	CommandsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipetree_commands_dropped_total",
		Help: "Total number of commands rejected due to a full queue.",
	})

	CommandDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pipetree_command_duration_ms",
		Help:    "Command execution latency in milliseconds.",
		Buckets: []float64{0.1, 0.5, 1, 5, 10, 25, 50, 100, 250, 1000},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pipetree_queue_utilization_ratio",
		Help: "Current command queue utilization (0–1).",
	})
)
