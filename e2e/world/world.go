// Package world holds the per-scenario state shared by the feature steps.
package world

import (
	"context"
	"fmt"
	"time"

	"docflow/internal/workflow/limits"
	"docflow/internal/workflow/models"
	"docflow/internal/workflow/service/registry"
	"docflow/internal/workflow/store/repository"
	"docflow/pkg/platform/audit/store/memory"
	"docflow/pkg/requestcontext"
)

// World is rebuilt before every scenario.
type World struct {
	Registry *registry.Service
	Audit    *memory.InMemoryStore
	Ctx      context.Context

	parties   map[string]*models.Party
	documents []*models.Document

	LastAdmitted bool
	LastDecision limits.Decision
	Results      []bool
}

func New() (*World, error) {
	auditLog := memory.NewInMemoryStore()
	svc, err := registry.New(repository.NewInMemory(), registry.WithAuditPublisher(auditLog))
	if err != nil {
		return nil, err
	}
	return &World{
		Registry: svc,
		Audit:    auditLog,
		Ctx:      context.Background(),
		parties:  make(map[string]*models.Party),
	}, nil
}

// SetClock pins the scenario clock to the given time of day on a fixed date.
func (w *World) SetClock(tod time.Duration) {
	at := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).Add(tod)
	w.Ctx = requestcontext.WithTime(context.Background(), at)
}

func (w *World) AddParty(name string, role models.Role) error {
	p, err := models.NewParty(role, name)
	if err != nil {
		return err
	}
	w.parties[name] = p
	return nil
}

func (w *World) Party(name string) (*models.Party, error) {
	p, ok := w.parties[name]
	if !ok {
		return nil, fmt.Errorf("unknown party %q", name)
	}
	return p, nil
}

func (w *World) AddDocument(doc *models.Document) {
	w.documents = append(w.documents, doc)
}

// Document returns the most recently drafted document.
func (w *World) Document() (*models.Document, error) {
	if len(w.documents) == 0 {
		return nil, fmt.Errorf("no document drafted yet")
	}
	return w.documents[len(w.documents)-1], nil
}

// FirstDocument returns the earliest drafted document.
func (w *World) FirstDocument() (*models.Document, error) {
	if len(w.documents) == 0 {
		return nil, fmt.Errorf("no document drafted yet")
	}
	return w.documents[0], nil
}
