package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EvaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "water_advisory_evaluations_total",
			Help: "Total number of location evaluations",
		},
		[]string{"location", "result"}, // result: alert, ok, no_data
	)

	LocationAlerting = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "water_advisory_location_alerting",
			Help: "1 if the location's latest series crosses an alert threshold",
		},
		[]string{"location"},
	)

	RefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "water_advisory_refresh_total",
			Help: "Total number of sample snapshot refreshes",
		},
		[]string{"status"}, // status: success, failed, skipped
	)
)
