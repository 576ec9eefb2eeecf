package internal

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	loginSteps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tclctl_login_step_total",
			Help: "Login chain steps by outcome",
		},
		[]string{"step", "result"},
	)
	credentialRefresh = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tclctl_credential_refresh_total",
			Help: "Shadow credential refreshes by outcome",
		},
		[]string{"result"},
	)
	shadowRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tclctl_shadow_request_total",
			Help: "Shadow API requests by operation and HTTP status",
		},
		[]string{"op", "code"},
	)
	shadowRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tclctl_shadow_retry_total",
			Help: "Shadow requests retried after a credential refresh",
		},
		[]string{"op"},
	)
	credentialExpiry = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tclctl_credential_expiry_timestamp_seconds",
			Help: "Expiry of the current signing credentials",
		},
	)
)

// MetricsCollectors returns collectors for the session and shadow client.
func MetricsCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		loginSteps,
		credentialRefresh,
		shadowRequests,
		shadowRetries,
		credentialExpiry,
	}
}

func observeStep(step int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	loginSteps.WithLabelValues(strconv.Itoa(step), result).Inc()
}

func observeRefresh(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	credentialRefresh.WithLabelValues(result).Inc()
}
