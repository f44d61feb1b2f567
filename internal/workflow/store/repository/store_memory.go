// Package repository holds the set of documents admitted to the workflow.
package repository

import (
	"context"
	"fmt"
	"sync"

	"docflow/internal/workflow/models"
	id "docflow/pkg/domain"
	"docflow/pkg/platform/sentinel"
)

// InMemoryRepository keeps admitted documents keyed by ID, in admission order.
type InMemoryRepository struct {
	mu    sync.RWMutex
	docs  map[id.DocumentID]*models.Document
	order []id.DocumentID
}

func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		docs: make(map[id.DocumentID]*models.Document),
	}
}

// Insert adds doc. Inserting a document already present is a no-op.
func (r *InMemoryRepository) Insert(_ context.Context, doc *models.Document) error {
	if doc == nil {
		return fmt.Errorf("insert nil document: %w", sentinel.ErrInvalidState)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[doc.ID()]; ok {
		return nil
	}
	r.docs[doc.ID()] = doc
	r.order = append(r.order, doc.ID())
	return nil
}

func (r *InMemoryRepository) Remove(_ context.Context, docID id.DocumentID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.docs[docID]; !ok {
		return fmt.Errorf("document %s: %w", docID, sentinel.ErrNotFound)
	}
	delete(r.docs, docID)
	for i, existing := range r.order {
		if existing == docID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Contains reports whether this exact document instance is held.
func (r *InMemoryRepository) Contains(_ context.Context, doc *models.Document) bool {
	if doc == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	held, ok := r.docs[doc.ID()]
	return ok && held == doc
}

func (r *InMemoryRepository) Get(_ context.Context, docID id.DocumentID) (*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if doc, ok := r.docs[docID]; ok {
		return doc, nil
	}
	return nil, fmt.Errorf("document %s: %w", docID, sentinel.ErrNotFound)
}

// List returns a snapshot of all documents in admission order.
func (r *InMemoryRepository) List(_ context.Context) []*models.Document {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*models.Document, 0, len(r.order))
	for _, docID := range r.order {
		out = append(out, r.docs[docID])
	}
	return out
}

func (r *InMemoryRepository) Len(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}
