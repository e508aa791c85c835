package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EmailSendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plana_email_sends_total",
			Help: "Transactional email sends by final provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	EmailSDKAttempts = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plana_email_sdk_attempts",
			Help:    "SDK attempts made per send",
			Buckets: []float64{0, 1, 2, 3},
		},
	)

	EmailSendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "plana_email_send_duration_seconds",
			Help: "Duration of a full send through the fallback chain",
		},
		[]string{"provider"},
	)

	EmailJobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plana_email_jobs_active",
			Help: "Email jobs currently being processed by the worker",
		},
	)
)
