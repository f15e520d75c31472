// Package metrics exposes the dashboard's prometheus counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Push frame outcomes.
const (
	OutcomeApplied  = "applied"
	OutcomeRejected = "rejected"
	OutcomeError    = "channel_error"
)

var (
	// LoadFailures counts failed loads per resource.
	LoadFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinicdesk",
		Name:      "load_failures_total",
		Help:      "Failed dashboard loads by resource.",
	}, []string{"resource"})

	// PushFrames counts push frames by channel and outcome.
	PushFrames = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinicdesk",
		Name:      "push_frames_total",
		Help:      "Push frames received by channel and outcome.",
	}, []string{"channel", "outcome"})

	// DroppedShifts counts shifts the calendar grid could not place.
	DroppedShifts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinicdesk",
		Name:      "calendar_dropped_shifts_total",
		Help:      "Shifts left out of the schedule grid, by reason.",
	}, []string{"reason"})

	// PushAlerts counts web push alerts sent to doctors' browsers.
	PushAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinicdesk",
		Name:      "web_push_alerts_total",
		Help:      "Web push alerts by result.",
	}, []string{"result"})
)
