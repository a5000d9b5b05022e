// Package metrics holds the bot's Prometheus collectors on a private registry.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics groups the collectors updated by handlers, the broadcaster and tasks.
type Metrics struct {
	Registry *prometheus.Registry

	BroadcastOutcomes *prometheus.CounterVec
	BroadcastRuns     prometheus.Counter
	CaptionEdits      *prometheus.CounterVec
	Registrations     prometheus.Counter
	RegisteredUsers   prometheus.Gauge
	TaskRuns          *prometheus.CounterVec
}

// New creates the collectors and registers them, with Go and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		BroadcastOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capbot_broadcast_deliveries_total",
			Help: "Broadcast deliveries by outcome.",
		}, []string{"outcome"}),
		BroadcastRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "capbot_broadcast_runs_total",
			Help: "Completed broadcast runs.",
		}),
		CaptionEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capbot_caption_edits_total",
			Help: "Channel caption rewrites by result.",
		}, []string{"result"}),
		Registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "capbot_user_registrations_total",
			Help: "New users registered through /start.",
		}),
		RegisteredUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "capbot_registered_users",
			Help: "Users currently in the registry.",
		}),
		TaskRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "capbot_task_runs_total",
			Help: "Scheduled task executions by task and result.",
		}, []string{"task", "result"}),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.BroadcastOutcomes,
		m.BroadcastRuns,
		m.CaptionEdits,
		m.Registrations,
		m.RegisteredUsers,
		m.TaskRuns,
	)
	return m
}

// Result returns "ok" or "error" for use as a label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
