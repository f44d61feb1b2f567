// Package exchange drives a document between two parties by hand, without
// the registry: the drafter signs, then custody bounces back and forth with
// the counterparty taking over drafting and signing each round, until the
// original drafter countersigns.
package exchange

import (
	"context"
	"errors"
	"log/slog"

	"docflow/internal/workflow/models"
)

var (
	// ErrInitialSignature means the drafter could not sign the fresh document.
	ErrInitialSignature = errors.New("drafter could not sign the new document")
	// ErrRoundsExhausted means MaxRounds passed without full signature.
	ErrRoundsExhausted = errors.New("exchange rounds exhausted before the document was fully signed")
)

const (
	DefaultSignAt    = 0
	DefaultMaxRounds = 100_000
)

// Result describes a finished exchange.
type Result struct {
	Document *models.Document
	// Rounds is the number of transfer rounds run.
	Rounds    int
	Completed bool
}

type runner struct {
	signAt    int
	maxRounds int
	logger    *slog.Logger
}

type Option func(*runner)

// WithSignAt sets the zero-based round in which the original drafter
// countersigns.
func WithSignAt(round int) Option {
	return func(r *runner) {
		r.signAt = round
	}
}

// WithMaxRounds caps the loop.
func WithMaxRounds(n int) Option {
	return func(r *runner) {
		r.maxRounds = n
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *runner) {
		r.logger = logger
	}
}

// Run creates a document from drafter to counterparty and exchanges it until
// it is fully signed, the round cap is hit, or ctx is done.
func Run(ctx context.Context, drafter, counterparty *models.Party, opts ...Option) (Result, error) {
	if drafter == nil || counterparty == nil {
		return Result{}, errors.New("both parties are required")
	}
	r := &runner{signAt: DefaultSignAt, maxRounds: DefaultMaxRounds}
	for _, opt := range opts {
		opt(r)
	}

	doc := drafter.CreateDocument(ctx, counterparty)
	doc.Sign(drafter)
	res := Result{Document: doc}
	if !doc.IsSignedBy(drafter) {
		return res, ErrInitialSignature
	}

	for round := 0; !doc.IsFullySigned(); round++ {
		if round >= r.maxRounds {
			return res, ErrRoundsExhausted
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}
		res.Rounds = round + 1

		drafter.TransferDocument(doc, counterparty)
		counterparty.ChangeDocument(doc)
		doc.Sign(counterparty)

		if doc.IsSignedBy(counterparty) {
			counterparty.TransferDocument(doc, drafter)
			if round == r.signAt {
				doc.Sign(drafter)
			}
		}
		if r.logger != nil {
			r.logger.DebugContext(ctx, "exchange round",
				"round", round,
				"document_id", doc.ID().String(),
				"state", doc.State().String(),
			)
		}
	}

	res.Completed = true
	return res, nil
}
