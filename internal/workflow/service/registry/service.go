// Package registry admits documents into the workflow and gates every
// signing step on the current limit policy.
package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"docflow/internal/workflow/limits"
	"docflow/internal/workflow/metrics"
	"docflow/internal/workflow/models"
	"docflow/internal/workflow/policy"
	"docflow/internal/workflow/ports"
	id "docflow/pkg/domain"
	dErrors "docflow/pkg/domain-errors"
	"docflow/pkg/platform/audit"
	"docflow/pkg/platform/sentinel"
	"docflow/pkg/requestcontext"
)

const tracerName = "docflow/internal/workflow/service/registry"

// Type aliases for interfaces from ports package.
type (
	Repository     = ports.Repository
	AuditPublisher = ports.AuditPublisher
)

// Service owns the admitted documents and the active limit policy.
// Mutating calls are serialised so that counting and insertion happen
// atomically.
type Service struct {
	mu     sync.RWMutex
	repo   Repository
	policy policy.LimitPolicy

	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithPolicy sets the initial policy. The default is policy.Default().
func WithPolicy(p policy.LimitPolicy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tracer
	}
}

func New(repo Repository, opts ...Option) (*Service, error) {
	if repo == nil {
		return nil, errors.New("document repository is required")
	}

	svc := &Service{
		repo:   repo,
		policy: policy.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	if svc.tracer == nil {
		svc.tracer = otel.Tracer(tracerName)
	}
	return svc, nil
}

// Admit runs the policy checks against the repository as it stands, inserts
// the document, then tries to complete it: the drafter signs, hands custody
// to the counterparty, and the counterparty signs. It reports whether the
// document ends up fully signed.
func (s *Service) Admit(ctx context.Context, doc *models.Document) bool {
	ctx, span := s.tracer.Start(ctx, "registry.Admit", trace.WithAttributes(documentAttrs(doc)...))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	decision := limits.EvaluateAdmission(limits.Input{
		Policy:     s.policy,
		Document:   doc,
		Repository: s.repo.List(ctx),
		Now:        requestcontext.Now(ctx),
	})
	s.metrics.RecordAdmission(decision.Allowed, decision.Reason.String())
	if !decision.Allowed {
		span.SetAttributes(attribute.String("docflow.reason", decision.Reason.String()))
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDocumentAdmissionDenied,
			"document_id", documentID(doc),
			"decision", metrics.ResultDenied,
			"reason", decision.Reason.String(),
		)
		return false
	}

	if err := s.repo.Insert(ctx, doc); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to insert document", "document_id", doc.ID().String(), "error", err)
		}
		return false
	}
	s.metrics.SetRepositorySize(s.repo.Len(ctx))

	drafter, counterparty := doc.Parties()
	if s.requestSigning(ctx, doc, drafter).Allowed {
		drafter.TransferDocument(doc, counterparty)
		s.requestSigning(ctx, doc, counterparty)
	}

	fullySigned := doc.IsFullySigned()
	span.SetAttributes(attribute.Bool("docflow.fully_signed", fullySigned))
	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDocumentAdmitted,
		"document_id", doc.ID().String(),
		"decision", metrics.ResultAllowed,
		"state", doc.State().String(),
	)
	return fullySigned
}

// RequestSigning asks party to sign a document already in the workflow. The
// time window is checked again against the document's creation time. It
// reports whether party's flag is set afterwards.
func (s *Service) RequestSigning(ctx context.Context, doc *models.Document, party *models.Party) bool {
	ctx, span := s.tracer.Start(ctx, "registry.RequestSigning", trace.WithAttributes(documentAttrs(doc)...))
	defer span.End()
	if party != nil {
		span.SetAttributes(attribute.String("docflow.party_id", party.ID().String()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	decision := s.requestSigning(ctx, doc, party)
	if !decision.Allowed {
		span.SetAttributes(attribute.String("docflow.reason", decision.Reason.String()))
	}
	return decision.Allowed
}

// requestSigning expects s.mu to be held.
func (s *Service) requestSigning(ctx context.Context, doc *models.Document, party *models.Party) limits.Decision {
	decision := s.signingDecision(ctx, doc, party)
	s.metrics.RecordSigningRequest(decision.Allowed, decision.Reason.String())

	event := audit.EventDocumentSigned
	result := metrics.ResultAllowed
	if !decision.Allowed {
		event = audit.EventDocumentSigningDenied
		result = metrics.ResultDenied
	}
	ports.LogAudit(ctx, s.logger, s.auditPublisher, event,
		"document_id", documentID(doc),
		"party_id", partyID(party),
		"decision", result,
		"reason", decision.Reason.String(),
	)
	return decision
}

func (s *Service) signingDecision(ctx context.Context, doc *models.Document, party *models.Party) limits.Decision {
	if doc == nil {
		return limits.Deny(limits.ReasonNilDocument)
	}
	if d := limits.CheckTimeWindow(s.policy, doc); !d.Allowed {
		return d
	}
	if !s.repo.Contains(ctx, doc) {
		return limits.Deny(limits.ReasonNotInRepository)
	}
	if doc.IsFullySigned() {
		return limits.Deny(limits.ReasonAlreadyFullySigned)
	}
	doc.Sign(party)
	if !doc.IsSignedBy(party) {
		return limits.Deny(limits.ReasonSignerLacksCustody)
	}
	return limits.Allow()
}

// Evaluate runs the admission checks without admitting anything.
func (s *Service) Evaluate(ctx context.Context, doc *models.Document) limits.Decision {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return limits.EvaluateAdmission(limits.Input{
		Policy:     s.policy,
		Document:   doc,
		Repository: s.repo.List(ctx),
		Now:        requestcontext.Now(ctx),
	})
}

// Remove takes a document out of the workflow. Documents with exactly one
// signature stay put.
func (s *Service) Remove(ctx context.Context, doc *models.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	reason := limits.ReasonNone
	switch {
	case doc == nil:
		reason = limits.ReasonNilDocument
	case !s.repo.Contains(ctx, doc):
		reason = limits.ReasonNotInRepository
	case doc.IsPartiallySigned():
		reason = limits.ReasonPartiallySigned
	}
	if reason != limits.ReasonNone {
		ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDocumentRemovalDenied,
			"document_id", documentID(doc),
			"decision", metrics.ResultDenied,
			"reason", reason.String(),
		)
		return false
	}

	if err := s.repo.Remove(ctx, doc.ID()); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to remove document", "document_id", doc.ID().String(), "error", err)
		}
		return false
	}
	s.metrics.IncrementRemoved()
	s.metrics.SetRepositorySize(s.repo.Len(ctx))
	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventDocumentRemoved,
		"document_id", doc.ID().String(),
		"decision", metrics.ResultAllowed,
	)
	return true
}

// Policy returns the active policy.
func (s *Service) Policy() policy.LimitPolicy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy
}

// SetPolicy replaces the active policy. Documents already admitted are not
// re-evaluated.
func (s *Service) SetPolicy(ctx context.Context, p policy.LimitPolicy) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.policy = p
	s.metrics.IncrementPolicyReplacements()
	ports.LogAudit(ctx, s.logger, s.auditPublisher, audit.EventLimitPolicyReplaced,
		"time_window_enabled", p.TimeWindow().Enabled,
		"party_open_enabled", p.PartyOpen().Enabled,
		"party_rate_enabled", p.PartyRate().Enabled,
		"pair_open_enabled", p.PairOpen().Enabled,
	)
}

func (s *Service) Contains(ctx context.Context, doc *models.Document) bool {
	return s.repo.Contains(ctx, doc)
}

// Lookup finds an admitted document by ID.
func (s *Service) Lookup(ctx context.Context, docID id.DocumentID) (*models.Document, error) {
	doc, err := s.repo.Get(ctx, docID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up document")
	}
	return doc, nil
}

// Documents returns the admitted documents in admission order.
func (s *Service) Documents(ctx context.Context) []*models.Document {
	return s.repo.List(ctx)
}

// Stats summarises the repository by signature state.
type Stats struct {
	Total           int `json:"total" yaml:"total"`
	Open            int `json:"open" yaml:"open"`
	PartiallySigned int `json:"partially_signed" yaml:"partially_signed"`
	FullySigned     int `json:"fully_signed" yaml:"fully_signed"`
}

func (s *Service) Stats(ctx context.Context) Stats {
	var st Stats
	for _, doc := range s.repo.List(ctx) {
		st.Total++
		switch doc.State() {
		case models.StateFullySigned:
			st.FullySigned++
		case models.StatePartiallySigned:
			st.PartiallySigned++
			st.Open++
		default:
			st.Open++
		}
	}
	return st
}

func documentAttrs(doc *models.Document) []attribute.KeyValue {
	if doc == nil {
		return nil
	}
	return []attribute.KeyValue{
		attribute.String("docflow.document_id", doc.ID().String()),
		attribute.String("docflow.document_name", doc.Name()),
	}
}

func documentID(doc *models.Document) string {
	if doc == nil {
		return ""
	}
	return doc.ID().String()
}

func partyID(party *models.Party) string {
	if party == nil {
		return ""
	}
	return party.ID().String()
}
