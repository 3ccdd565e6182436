package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmissionMetrics_Observe(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewSubmissionMetrics(reg)
	require.NoError(t, err)

	m.Observe(OutcomeSuccess, 20*time.Millisecond)
	m.Observe(OutcomeSuccess, 30*time.Millisecond)
	m.Observe(OutcomeStatusError, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.submissions.WithLabelValues(OutcomeStatusError)))
	assert.Equal(t, 2, testutil.CollectAndCount(m.duration))
}

func TestSubmissionMetrics_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewSubmissionMetrics(reg)
	require.NoError(t, err)

	_, err = NewSubmissionMetrics(reg)
	assert.Error(t, err)
}

func TestSubmissionMetrics_NilIsNoop(t *testing.T) {
	var m *SubmissionMetrics
	assert.NotPanics(t, func() { m.Observe(OutcomeSuccess, time.Millisecond) })
}
