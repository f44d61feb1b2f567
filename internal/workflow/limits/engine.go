// Package limits evaluates a LimitPolicy against a document and the current
// repository contents. Nothing here mutates state; the caller supplies now.
package limits

import (
	"time"

	"docflow/internal/workflow/models"
	"docflow/internal/workflow/policy"
)

// Input carries everything the admission checks need.
type Input struct {
	Policy     policy.LimitPolicy
	Document   *models.Document
	// Repository is the snapshot taken before the document is inserted.
	Repository []*models.Document
	Now        time.Time
}

// rule is a single admission check. It returns ReasonNone on pass.
type rule func(in Input, drafter, counterparty *models.Party) Reason

// admissionRules run in order and stop at the first failure.
var admissionRules = []rule{
	checkTimeWindow,
	checkPartyOpen,
	checkPartyRate,
	checkPairOpen,
}

// EvaluateAdmission runs the four policy checks in their fixed order and
// returns the first failure.
func EvaluateAdmission(in Input) Decision {
	if in.Document == nil {
		return Deny(ReasonNilDocument)
	}
	drafter, counterparty := in.Document.Parties()
	for _, r := range admissionRules {
		if reason := r(in, drafter, counterparty); reason != ReasonNone {
			return Deny(reason)
		}
	}
	return Allow()
}

// CheckTimeWindow applies only the time-of-day check to doc's creation time.
func CheckTimeWindow(p policy.LimitPolicy, doc *models.Document) Decision {
	if doc == nil {
		return Deny(ReasonNilDocument)
	}
	if !p.TimeWindow().Allows(doc.CreatedAt()) {
		return Deny(ReasonOutsideTimeWindow)
	}
	return Allow()
}

func checkTimeWindow(in Input, _, _ *models.Party) Reason {
	return CheckTimeWindow(in.Policy, in.Document).Reason
}

func checkPartyOpen(in Input, drafter, counterparty *models.Party) Reason {
	c := in.Policy.PartyOpen()
	if !c.Enabled {
		return ReasonNone
	}
	if c.Exceeded(PartyOpenCount(in.Repository, drafter)) ||
		c.Exceeded(PartyOpenCount(in.Repository, counterparty)) {
		return ReasonPartyOpenLimit
	}
	return ReasonNone
}

func checkPartyRate(in Input, drafter, _ *models.Party) Reason {
	r := in.Policy.PartyRate()
	if !r.Enabled {
		return ReasonNone
	}
	if r.Exceeded(CreationCount(drafter, r, in.Now)) {
		return ReasonPartyRateLimit
	}
	return ReasonNone
}

func checkPairOpen(in Input, drafter, counterparty *models.Party) Reason {
	c := in.Policy.PairOpen()
	if !c.Enabled {
		return ReasonNone
	}
	if c.Exceeded(PairOpenCount(in.Repository, drafter, counterparty)) {
		return ReasonPairOpenLimit
	}
	return ReasonNone
}

// PartyOpenCount counts documents that are not fully signed and name party
// in either slot.
func PartyOpenCount(docs []*models.Document, party *models.Party) int {
	if party == nil {
		return 0
	}
	n := 0
	for _, d := range docs {
		if !d.IsFullySigned() && d.ContainsParty(party) {
			n++
		}
	}
	return n
}

// PairOpenCount counts documents that are not fully signed and name both
// parties, in either order.
func PairOpenCount(docs []*models.Document, a, b *models.Party) int {
	if a == nil || b == nil {
		return 0
	}
	n := 0
	for _, d := range docs {
		if !d.IsFullySigned() && d.ContainsParty(a) && d.ContainsParty(b) {
			n++
		}
	}
	return n
}

// CreationCount counts documents in party's custody created within the
// rate window ending at now. Documents dated after now count.
func CreationCount(party *models.Party, rate policy.RateCeiling, now time.Time) int {
	if party == nil {
		return 0
	}
	n := 0
	for _, d := range party.Documents() {
		if rate.InWindow(d.CreatedAt(), now) {
			n++
		}
	}
	return n
}
