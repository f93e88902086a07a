package metrics

import "github.com/prometheus/client_golang/prometheus"

// Prometheus metrics for the public endpoints and the external calls behind them
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	StepsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flow_steps_total",
			Help: "External call steps by flow, step and result",
		},
		[]string{"flow", "step", "result"},
	)

	StepDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flow_step_duration_seconds",
			Help:    "Duration of external call steps",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"flow", "step"},
	)
)

// Register registers all metrics with reg
func Register(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequestsTotal)
	reg.MustRegister(HTTPRequestDuration)
	reg.MustRegister(StepsTotal)
	reg.MustRegister(StepDuration)
}
