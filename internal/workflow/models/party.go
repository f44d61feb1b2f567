package models

import (
	"context"
	"sync"

	id "docflow/pkg/domain"
	dErrors "docflow/pkg/domain-errors"
	"docflow/pkg/requestcontext"
)

// Party is one side of the exchange. It holds the documents currently in its
// custody; custody is exclusive and moves with TransferDocument.
type Party struct {
	id   id.PartyID
	name string
	role Role

	mu        sync.RWMutex
	documents map[id.DocumentID]*Document
	order     []id.DocumentID
}

// NewParty creates a Party with a fresh ID and domain invariant validation.
func NewParty(role Role, name string) (*Party, error) {
	return NewPartyWithID(id.NewPartyID(), role, name)
}

// NewPartyWithID creates a Party with a caller-chosen ID, for callers that
// need stable identities across runs.
func NewPartyWithID(partyID id.PartyID, role Role, name string) (*Party, error) {
	if partyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "party ID is required")
	}
	if !role.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "invalid party role")
	}
	return &Party{
		id:        partyID,
		name:      name,
		role:      role,
		documents: make(map[id.DocumentID]*Document),
	}, nil
}

// MustNewParty is NewParty for fixed, known-good roles. It panics on an
// invalid role.
func MustNewParty(role Role, name string) *Party {
	p, err := NewParty(role, name)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *Party) ID() id.PartyID { return p.id }
func (p *Party) Name() string   { return p.name }
func (p *Party) Role() Role     { return p.role }

// Label returns the name, or the short ID when the party is unnamed.
func (p *Party) Label() string {
	if p.name != "" {
		return p.name
	}
	return p.id.Short()
}

// CreateDocument drafts a new document with p as drafter and counterparty as
// the other side, and takes custody of it. The creation time is read from ctx.
func (p *Party) CreateDocument(ctx context.Context, counterparty *Party) *Document {
	doc := NewDocument(p, counterparty, requestcontext.Now(ctx))
	p.AddDocument(doc)
	return doc
}

// ChangeDocument takes over the drafting role of a document p has received.
// When p is not the drafter the old drafter becomes the counterparty, both
// signatures are cleared and p takes custody. When p already drafts the
// document it is returned untouched.
func (p *Party) ChangeDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	if doc.reassignDrafter(p) {
		p.AddDocument(doc)
	}
	return doc
}

// TransferDocument hands custody of doc to another party. Roles and
// signatures are not touched.
func (p *Party) TransferDocument(doc *Document, to *Party) {
	if doc == nil || to == nil {
		return
	}
	to.AddDocument(doc)
	if to != p {
		p.RemoveDocument(doc)
	}
}

// AddDocument puts doc into p's custody. Adding a held document is a no-op.
func (p *Party) AddDocument(doc *Document) {
	if doc == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.documents[doc.ID()]; ok {
		return
	}
	p.documents[doc.ID()] = doc
	p.order = append(p.order, doc.ID())
}

// RemoveDocument drops doc from p's custody. Removing an absent document is a
// no-op.
func (p *Party) RemoveDocument(doc *Document) {
	if doc == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.documents[doc.ID()]; !ok {
		return
	}
	delete(p.documents, doc.ID())
	for i, docID := range p.order {
		if docID == doc.ID() {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// ContainsDocument reports whether p currently holds doc.
func (p *Party) ContainsDocument(doc *Document) bool {
	if p == nil || doc == nil {
		return false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	held, ok := p.documents[doc.ID()]
	return ok && held == doc
}

// Documents returns the documents in p's custody in the order they arrived.
func (p *Party) Documents() []*Document {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Document, 0, len(p.order))
	for _, docID := range p.order {
		out = append(out, p.documents[docID])
	}
	return out
}

// DocumentCount returns the number of documents in p's custody.
func (p *Party) DocumentCount() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.documents)
}
