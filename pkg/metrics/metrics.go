package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Values of the outcome label
const (
	OutcomeSuccess         = "success"
	OutcomeStatusError     = "status_error"
	OutcomeTransportError  = "transport_error"
	OutcomeMalformedAnswer = "malformed_response"
)

// SubmissionMetrics tracks outbound waitlist registrations.
// A nil *SubmissionMetrics is valid and records nothing.
type SubmissionMetrics struct {
	submissions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewSubmissionMetrics registers the collectors on reg
func NewSubmissionMetrics(reg prometheus.Registerer) (*SubmissionMetrics, error) {
	m := &SubmissionMetrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waitlist",
			Name:      "submissions_total",
			Help:      "Waitlist registrations sent to the registration endpoint, by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "waitlist",
			Name:      "submission_duration_seconds",
			Help:      "Latency of registration calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
	}

	for _, c := range []prometheus.Collector{m.submissions, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records one registration call
func (m *SubmissionMetrics) Observe(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
