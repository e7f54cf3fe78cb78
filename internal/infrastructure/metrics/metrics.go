package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is separate from prometheus.DefaultRegisterer so tests can
// construct the handler without global collisions.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		ModelCalls, ModelDuration,
		ToolCalls, ToolDuration,
		Generations,
	)
}

var ModelCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "setup_agent_model_calls_total",
		Help: "Chat completion calls by outcome.",
	},
	[]string{"outcome"}, // ok | error
)

var ModelDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "setup_agent_model_duration_seconds",
		Help:    "Chat completion latency in seconds.",
		Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32, 64},
	},
)

var ToolCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "setup_agent_tool_calls_total",
		Help: "Tool invocations by tool and outcome.",
	},
	[]string{"tool", "outcome"}, // ok | error | not_found
)

var ToolDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "setup_agent_tool_duration_seconds",
		Help:    "Tool execution latency in seconds.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"tool"},
)

var Generations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "setup_agent_generations_total",
		Help: "Setup generation requests by status.",
	},
	[]string{"status"}, // success | failed | invalid
)

func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
