package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultAllowed = "allowed"
	ResultDenied  = "denied"
)

// Metrics records registry outcomes. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	Admissions         *prometheus.CounterVec
	SigningRequests    *prometheus.CounterVec
	RepositoryDocs     prometheus.Gauge
	DocumentsRemoved   prometheus.Counter
	PolicyReplacements prometheus.Counter
}

// New registers the workflow collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Admissions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docflow_admissions_total",
			Help: "Admission attempts by result and rejection reason",
		}, []string{"result", "reason"}),
		SigningRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "docflow_signing_requests_total",
			Help: "Signing requests by result and rejection reason",
		}, []string{"result", "reason"}),
		RepositoryDocs: factory.NewGauge(prometheus.GaugeOpts{
			Name: "docflow_repository_documents",
			Help: "Documents currently held by the workflow repository",
		}),
		DocumentsRemoved: factory.NewCounter(prometheus.CounterOpts{
			Name: "docflow_documents_removed_total",
			Help: "Documents removed from the workflow repository",
		}),
		PolicyReplacements: factory.NewCounter(prometheus.CounterOpts{
			Name: "docflow_policy_replacements_total",
			Help: "Times the limit policy was replaced",
		}),
	}
}

func (m *Metrics) RecordAdmission(allowed bool, reason string) {
	if m == nil {
		return
	}
	m.Admissions.WithLabelValues(result(allowed), reason).Inc()
}

func (m *Metrics) RecordSigningRequest(allowed bool, reason string) {
	if m == nil {
		return
	}
	m.SigningRequests.WithLabelValues(result(allowed), reason).Inc()
}

func (m *Metrics) SetRepositorySize(n int) {
	if m == nil {
		return
	}
	m.RepositoryDocs.Set(float64(n))
}

func (m *Metrics) IncrementRemoved() {
	if m == nil {
		return
	}
	m.DocumentsRemoved.Inc()
}

func (m *Metrics) IncrementPolicyReplacements() {
	if m == nil {
		return
	}
	m.PolicyReplacements.Inc()
}

func result(allowed bool) string {
	if allowed {
		return ResultAllowed
	}
	return ResultDenied
}
