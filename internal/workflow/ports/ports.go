// Package ports defines the interfaces the workflow registry consumes.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks Repository,AuditPublisher

import (
	"context"
	"log/slog"

	"docflow/internal/workflow/models"
	"docflow/pkg/attrs"
	id "docflow/pkg/domain"
	"docflow/pkg/platform/audit"
	"docflow/pkg/requestcontext"
)

// AuditPublisher emits audit events for workflow transitions.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Repository holds the documents admitted to the workflow.
type Repository interface {
	// Insert adds a document. Inserting a held document is a no-op.
	Insert(ctx context.Context, doc *models.Document) error

	// Remove drops a document by ID, returning sentinel.ErrNotFound when absent.
	Remove(ctx context.Context, docID id.DocumentID) error

	// Contains reports whether the exact document instance is held.
	Contains(ctx context.Context, doc *models.Document) bool

	// Get returns a document by ID, or sentinel.ErrNotFound.
	Get(ctx context.Context, docID id.DocumentID) (*models.Document, error)

	// List returns every held document in admission order.
	List(ctx context.Context) []*models.Document

	// Len returns the number of held documents.
	Len(ctx context.Context) int
}

// LogAudit logs an audit event to the structured logger and the publisher.
// Subject, party, decision and reason are lifted from attrList when present.
func LogAudit(ctx context.Context, logger *slog.Logger, publisher AuditPublisher, event audit.AuditEvent, attrList ...any) {
	requestID := requestcontext.RequestID(ctx)
	if requestID != "" {
		attrList = append(attrList, "request_id", requestID)
	}

	args := append(attrList, "event", string(event), "log_type", "audit")
	if logger != nil {
		logger.InfoContext(ctx, string(event), args...)
	}

	if publisher == nil {
		return
	}
	err := publisher.Emit(ctx, audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		Subject:   attrs.ExtractString(attrList, "document_id"),
		Action:    string(event),
		Party:     attrs.ExtractString(attrList, "party_id"),
		Decision:  attrs.ExtractString(attrList, "decision"),
		Reason:    attrs.ExtractString(attrList, "reason"),
		RequestID: requestID,
	})
	if err != nil && logger != nil {
		logger.WarnContext(ctx, "failed to emit audit event", "event", string(event), "error", err)
	}
}
