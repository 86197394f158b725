package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_active_sessions",
		Help: "Number of currently open streaming sessions.",
	})

	droppedFrames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_dropped_frames_total",
		Help: "Frames dropped because the session buffer was full or closed.",
	})

	unmatchedResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_unmatched_responses_total",
		Help: "Responses that arrived for an unknown or already settled call.",
	})

	expiredCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_expired_calls_total",
		Help: "Calls that timed out before a response arrived.",
	})
)
