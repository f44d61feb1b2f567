package models

import (
	"sync"
	"time"

	id "docflow/pkg/domain"
)

// Document is a bilateral record exchanged between a drafter and a
// counterparty. Its two signature flags are keyed by party Role, not by which
// party currently occupies the drafter slot.
type Document struct {
	id        id.DocumentID
	name      string
	createdAt time.Time

	mu              sync.RWMutex
	drafter         *Party
	counterparty    *Party
	primarySigned   bool
	secondarySigned bool
}

// NewDocument builds an unsigned document. It does not place the document in
// anyone's custody; Party.CreateDocument does that.
func NewDocument(drafter, counterparty *Party, createdAt time.Time) *Document {
	return &Document{
		id:           id.NewDocumentID(),
		name:         documentName(drafter, counterparty),
		createdAt:    createdAt,
		drafter:      drafter,
		counterparty: counterparty,
	}
}

// documentName derives the display label from the two parties. Labels are
// not unique; ID is the key.
func documentName(drafter, counterparty *Party) string {
	if drafter == nil || counterparty == nil {
		return ""
	}
	return "Doc" + drafter.ID().Short() + "&" + counterparty.ID().Short()
}

func (d *Document) ID() id.DocumentID    { return d.id }
func (d *Document) Name() string         { return d.name }
func (d *Document) CreatedAt() time.Time { return d.createdAt }

// Drafter returns the party in the drafting slot.
func (d *Document) Drafter() *Party {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.drafter
}

// Counterparty returns the party in the second slot.
func (d *Document) Counterparty() *Party {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.counterparty
}

// Parties returns drafter and counterparty under one read lock.
func (d *Document) Parties() (drafter, counterparty *Party) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.drafter, d.counterparty
}

// ContainsParty reports whether party is the drafter or the counterparty.
func (d *Document) ContainsParty(party *Party) bool {
	if party == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return party == d.drafter || party == d.counterparty
}

// Sign records party's signature, provided party holds the document. The
// flag set is the one for party's Role. Without custody the call is a no-op.
func (d *Document) Sign(party *Party) {
	if party == nil || !party.ContainsDocument(d) {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	switch party.Role() {
	case RolePrimary:
		d.primarySigned = true
	case RoleSecondary:
		d.secondarySigned = true
	}
}

// IsSignedBy returns the flag for party's Role.
func (d *Document) IsSignedBy(party *Party) bool {
	if party == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.flagFor(party.Role())
}

// IsFullySigned reports whether both the drafter and the counterparty have
// signed.
func (d *Document) IsFullySigned() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.fullySigned()
}

// IsPartiallySigned reports whether exactly one flag is set.
func (d *Document) IsPartiallySigned() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.primarySigned != d.secondarySigned
}

// ResetSigning clears both flags.
func (d *Document) ResetSigning() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.primarySigned = false
	d.secondarySigned = false
}

// State returns the derived signature state.
func (d *Document) State() SignatureState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state()
}

// Snapshot returns a point-in-time copy for reporting.
func (d *Document) Snapshot() DocumentSnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	snap := DocumentSnapshot{
		ID:              d.id.String(),
		Name:            d.name,
		CreatedAt:       d.createdAt,
		PrimarySigned:   d.primarySigned,
		SecondarySigned: d.secondarySigned,
	}
	if d.drafter != nil {
		snap.Drafter = d.drafter.Label()
	}
	if d.counterparty != nil {
		snap.Counterparty = d.counterparty.Label()
	}
	snap.State = d.state()
	return snap
}

// reassignDrafter makes p the drafter and the previous drafter the
// counterparty, clearing both signatures. It returns false when p already
// drafts the document.
func (d *Document) reassignDrafter(p *Party) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.drafter == p {
		return false
	}
	d.counterparty = d.drafter
	d.drafter = p
	d.primarySigned = false
	d.secondarySigned = false
	return true
}

// Must be called while holding d.mu.
func (d *Document) flagFor(role Role) bool {
	switch role {
	case RolePrimary:
		return d.primarySigned
	case RoleSecondary:
		return d.secondarySigned
	}
	return false
}

// Must be called while holding d.mu.
func (d *Document) fullySigned() bool {
	if d.drafter == nil || d.counterparty == nil {
		return false
	}
	return d.flagFor(d.drafter.Role()) && d.flagFor(d.counterparty.Role())
}

// Must be called while holding d.mu.
func (d *Document) state() SignatureState {
	switch {
	case d.fullySigned():
		return StateFullySigned
	case d.primarySigned != d.secondarySigned:
		return StatePartiallySigned
	default:
		return StateUnsigned
	}
}

// DocumentSnapshot is a read-only view of a document for CLIs and reports.
type DocumentSnapshot struct {
	ID              string         `json:"id" yaml:"id"`
	Name            string         `json:"name" yaml:"name"`
	Drafter         string         `json:"drafter" yaml:"drafter"`
	Counterparty    string         `json:"counterparty" yaml:"counterparty"`
	CreatedAt       time.Time      `json:"created_at" yaml:"created_at"`
	PrimarySigned   bool           `json:"primary_signed" yaml:"primary_signed"`
	SecondarySigned bool           `json:"secondary_signed" yaml:"secondary_signed"`
	State           SignatureState `json:"state" yaml:"state"`
}
