package admission

import (
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"docflow/e2e/world"
	"docflow/internal/workflow/models"
	"docflow/internal/workflow/policy"
)

// RegisterSteps registers the admission and signing step definitions.
func RegisterSteps(ctx *godog.ScenarioContext, w func() *world.World) {
	steps := &admissionSteps{w: w}

	// Setup
	ctx.Step(`^a primary party "([^"]*)" and a secondary party "([^"]*)"$`, steps.twoParties)
	ctx.Step(`^the default limit policy$`, steps.defaultPolicy)
	ctx.Step(`^every limit is disabled$`, steps.disabledPolicy)
	ctx.Step(`^a time window from "([^"]*)" to "([^"]*)" and no other limits$`, steps.onlyTimeWindow)
	ctx.Step(`^a per-party open ceiling of (\d+) and no other limits$`, steps.onlyPartyCeiling)
	ctx.Step(`^per-party and per-pair open ceilings of (\d+) and no other limits$`, steps.onlyOpenCeilings)
	ctx.Step(`^the clock reads "([^"]*)"$`, steps.clockReads)

	// Actions
	ctx.Step(`^"([^"]*)" drafts a document for "([^"]*)"$`, steps.drafts)
	ctx.Step(`^the document is admitted$`, steps.admitLast)
	ctx.Step(`^the document signatures are reset$`, steps.resetLast)
	ctx.Step(`^the first document is signed by both parties$`, steps.completeFirst)
	ctx.Step(`^"([^"]*)" drafts and admits (\d+) documents for "([^"]*)"$`, steps.draftAndAdmitMany)
	ctx.Step(`^"([^"]*)" drafts and admits (\d+) documents for "([^"]*)" leaving them unsigned$`, steps.draftAndAdmitManyUnsigned)

	// Assertions
	ctx.Step(`^the admission should succeed$`, steps.admissionSucceeded)
	ctx.Step(`^the admission should fail with reason "([^"]*)"$`, steps.admissionFailedWith)
	ctx.Step(`^the document should be fully signed$`, steps.documentFullySigned)
	ctx.Step(`^"([^"]*)" should hold the document$`, steps.partyHoldsDocument)
	ctx.Step(`^the repository should hold (\d+) documents$`, steps.repositoryHolds)
	ctx.Step(`^all (\d+) admissions should succeed$`, steps.allSucceeded)
	ctx.Step(`^signing by "([^"]*)" should be refused$`, steps.signingRefused)
}

type admissionSteps struct {
	w func() *world.World
}

func (s *admissionSteps) twoParties(primary, secondary string) error {
	if err := s.w().AddParty(primary, models.RolePrimary); err != nil {
		return err
	}
	return s.w().AddParty(secondary, models.RoleSecondary)
}

func (s *admissionSteps) defaultPolicy() error {
	s.w().Registry.SetPolicy(s.w().Ctx, policy.Default())
	return nil
}

func (s *admissionSteps) disabledPolicy() error {
	s.w().Registry.SetPolicy(s.w().Ctx, policy.Disabled())
	return nil
}

func (s *admissionSteps) onlyTimeWindow(start, end string) error {
	from, err := policy.ParseTimeOfDay(start)
	if err != nil {
		return err
	}
	to, err := policy.ParseTimeOfDay(end)
	if err != nil {
		return err
	}
	return s.setPolicy(policy.TimeWindow{Enabled: true, Start: from, End: to}, policy.Ceiling{}, policy.Ceiling{})
}

func (s *admissionSteps) onlyPartyCeiling(limit int) error {
	return s.setPolicy(policy.TimeWindow{}, policy.Ceiling{Enabled: true, Limit: limit}, policy.Ceiling{})
}

func (s *admissionSteps) onlyOpenCeilings(limit int) error {
	return s.setPolicy(policy.TimeWindow{},
		policy.Ceiling{Enabled: true, Limit: limit},
		policy.Ceiling{Enabled: true, Limit: limit})
}

func (s *admissionSteps) setPolicy(window policy.TimeWindow, partyOpen, pairOpen policy.Ceiling) error {
	p, err := policy.Custom(window, partyOpen,
		policy.RateCeiling{Limit: policy.DefaultRateLimit, Window: policy.DefaultRateWindow},
		pairOpen)
	if err != nil {
		return err
	}
	s.w().Registry.SetPolicy(s.w().Ctx, p)
	return nil
}

func (s *admissionSteps) clockReads(value string) error {
	tod, err := policy.ParseTimeOfDay(value)
	if err != nil {
		return err
	}
	s.w().SetClock(time.Duration(tod))
	return nil
}

func (s *admissionSteps) drafts(drafter, counterparty string) error {
	from, to, err := s.pair(drafter, counterparty)
	if err != nil {
		return err
	}
	s.w().AddDocument(from.CreateDocument(s.w().Ctx, to))
	return nil
}

func (s *admissionSteps) admitLast() error {
	w := s.w()
	doc, err := w.Document()
	if err != nil {
		return err
	}
	w.LastDecision = w.Registry.Evaluate(w.Ctx, doc)
	w.LastAdmitted = w.Registry.Admit(w.Ctx, doc)
	return nil
}

func (s *admissionSteps) resetLast() error {
	doc, err := s.w().Document()
	if err != nil {
		return err
	}
	doc.ResetSigning()
	return nil
}

func (s *admissionSteps) completeFirst() error {
	w := s.w()
	doc, err := w.FirstDocument()
	if err != nil {
		return err
	}
	drafter, counterparty := doc.Parties()
	holder, other := counterparty, drafter
	if drafter.ContainsDocument(doc) {
		holder, other = drafter, counterparty
	}
	if !w.Registry.RequestSigning(w.Ctx, doc, holder) {
		return fmt.Errorf("%s could not sign", holder.Label())
	}
	holder.TransferDocument(doc, other)
	if !w.Registry.RequestSigning(w.Ctx, doc, other) {
		return fmt.Errorf("%s could not sign", other.Label())
	}
	return nil
}

func (s *admissionSteps) draftAndAdmitMany(drafter string, n int, counterparty string) error {
	return s.admitMany(drafter, n, counterparty, false)
}

func (s *admissionSteps) draftAndAdmitManyUnsigned(drafter string, n int, counterparty string) error {
	return s.admitMany(drafter, n, counterparty, true)
}

func (s *admissionSteps) admitMany(drafter string, n int, counterparty string, reset bool) error {
	w := s.w()
	from, to, err := s.pair(drafter, counterparty)
	if err != nil {
		return err
	}
	w.Results = w.Results[:0]
	for i := 0; i < n; i++ {
		doc := from.CreateDocument(w.Ctx, to)
		w.AddDocument(doc)
		w.Results = append(w.Results, w.Registry.Admit(w.Ctx, doc))
		if reset {
			doc.ResetSigning()
		}
	}
	return nil
}

func (s *admissionSteps) admissionSucceeded() error {
	w := s.w()
	if !w.LastAdmitted {
		return fmt.Errorf("expected admission to succeed, decision was %s", w.LastDecision.Reason)
	}
	return nil
}

func (s *admissionSteps) admissionFailedWith(reason string) error {
	w := s.w()
	if w.LastAdmitted {
		return fmt.Errorf("expected admission to fail")
	}
	if got := w.LastDecision.Reason.String(); got != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, got)
	}
	return nil
}

func (s *admissionSteps) documentFullySigned() error {
	doc, err := s.w().Document()
	if err != nil {
		return err
	}
	if !doc.IsFullySigned() {
		return fmt.Errorf("expected fully signed document, state is %s", doc.State())
	}
	return nil
}

func (s *admissionSteps) partyHoldsDocument(name string) error {
	p, err := s.w().Party(name)
	if err != nil {
		return err
	}
	doc, err := s.w().Document()
	if err != nil {
		return err
	}
	if !p.ContainsDocument(doc) {
		return fmt.Errorf("%s does not hold the document", name)
	}
	return nil
}

func (s *admissionSteps) repositoryHolds(n int) error {
	w := s.w()
	if got := len(w.Registry.Documents(w.Ctx)); got != n {
		return fmt.Errorf("expected %d documents in the repository, got %d", n, got)
	}
	return nil
}

func (s *admissionSteps) allSucceeded(n int) error {
	results := s.w().Results
	if len(results) != n {
		return fmt.Errorf("expected %d admissions, got %d", n, len(results))
	}
	for i, ok := range results {
		if !ok {
			return fmt.Errorf("admission %d failed", i+1)
		}
	}
	return nil
}

func (s *admissionSteps) signingRefused(name string) error {
	w := s.w()
	p, err := w.Party(name)
	if err != nil {
		return err
	}
	doc, err := w.Document()
	if err != nil {
		return err
	}
	if w.Registry.RequestSigning(w.Ctx, doc, p) {
		return fmt.Errorf("expected signing by %s to be refused", name)
	}
	return nil
}

func (s *admissionSteps) pair(a, b string) (*models.Party, *models.Party, error) {
	from, err := s.w().Party(a)
	if err != nil {
		return nil, nil, err
	}
	to, err := s.w().Party(b)
	if err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
