package audit

import (
	"context"
	"time"
)

// EventCategory classifies audit events by their primary purpose so sinks can
// apply different retention.
type EventCategory string

const (
	// CategoryCompliance covers events that change the formal workflow record:
	// admissions, signatures, removals.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers refused transitions: limit rejections and
	// signing attempts by parties without custody.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers configuration changes and routine activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the workflow services to capture key actions. It is
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	// Subject is the document the action concerns (document ID), or empty
	// for registry-wide actions.
	Subject string
	Action  string
	// Party is the party ID performing or affected by the action.
	Party     string
	Decision  string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	EventDocumentAdmitted        AuditEvent = "document_admitted"
	EventDocumentAdmissionDenied AuditEvent = "document_admission_rejected"
	EventDocumentSigned          AuditEvent = "document_signed"
	EventDocumentSigningDenied   AuditEvent = "document_signing_rejected"
	EventDocumentRemoved         AuditEvent = "document_removed"
	EventDocumentRemovalDenied   AuditEvent = "document_removal_rejected"
	EventLimitPolicyReplaced     AuditEvent = "limit_policy_replaced"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventDocumentAdmitted: CategoryCompliance,
	EventDocumentSigned:   CategoryCompliance,
	EventDocumentRemoved:  CategoryCompliance,

	EventDocumentAdmissionDenied: CategorySecurity,
	EventDocumentSigningDenied:   CategorySecurity,
	EventDocumentRemovalDenied:   CategorySecurity,

	EventLimitPolicyReplaced: CategoryOperations,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subject string) ([]Event, error)
}
