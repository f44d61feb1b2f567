package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordAdmission(true, "none")
	m.RecordAdmission(false, "pair_open_limit")
	m.RecordAdmission(false, "pair_open_limit")
	m.RecordSigningRequest(false, "already_fully_signed")
	m.SetRepositorySize(3)
	m.IncrementRemoved()
	m.IncrementPolicyReplacements()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Admissions.WithLabelValues(ResultAllowed, "none")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Admissions.WithLabelValues(ResultDenied, "pair_open_limit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SigningRequests.WithLabelValues(ResultDenied, "already_fully_signed")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.RepositoryDocs))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DocumentsRemoved))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PolicyReplacements))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordAdmission(true, "none")
		m.RecordSigningRequest(true, "none")
		m.SetRepositorySize(1)
		m.IncrementRemoved()
		m.IncrementPolicyReplacements()
	})
}

func TestSeparateRegistriesDoNotCollide(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
