// Package policy holds the immutable limit configuration consulted by the
// workflow registry before admitting or advancing a document.
package policy

import (
	"time"

	dErrors "docflow/pkg/domain-errors"
)

// TimeWindow restricts admission and signing to a time-of-day window. The
// window may wrap past midnight (Start after End).
type TimeWindow struct {
	Enabled bool
	Start   TimeOfDay
	End     TimeOfDay
}

// Allows reports whether t's time of day passes the window. A disabled
// window allows everything.
//
// With b = start→end, b1 = start→t and b2 = t→end in truncated minutes:
// b > 0 needs b1 > 0 and b2 > 0; b < 0 (wrapping) needs exactly one of b1, b2
// negative; b == 0 needs t == start to the minute.
func (w TimeWindow) Allows(t time.Time) bool {
	if !w.Enabled {
		return true
	}
	tod := TimeOfDayOf(t)
	b := minutesBetween(w.Start, w.End)
	b1 := minutesBetween(w.Start, tod)
	b2 := minutesBetween(tod, w.End)

	switch {
	case b > 0:
		return b1 > 0 && b2 > 0
	case b < 0:
		return (b1 < 0) != (b2 < 0)
	default:
		return b1 == 0 && b2 == 0
	}
}

// Ceiling caps a count of open documents.
type Ceiling struct {
	Enabled bool
	Limit   int
}

// Exceeded reports whether count reaches the limit. Disabled ceilings are
// never exceeded; a zero limit is always exceeded.
func (c Ceiling) Exceeded(count int) bool {
	return c.Enabled && count >= c.Limit
}

// RateCeiling caps documents created within a trailing window.
type RateCeiling struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// Exceeded reports whether count reaches the limit.
func (r RateCeiling) Exceeded(count int) bool {
	return r.Enabled && count >= r.Limit
}

// InWindow reports whether something created at createdAt falls within the
// trailing window ending at now.
func (r RateCeiling) InWindow(createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= r.Window
}

// LimitPolicy is an immutable snapshot of the four admission checks.
// Replace it wholesale; it has no setters.
type LimitPolicy struct {
	timeWindow TimeWindow
	partyOpen  Ceiling
	partyRate  RateCeiling
	pairOpen   Ceiling
}

const (
	DefaultOpenLimit  = 10
	DefaultRateLimit  = 10
	DefaultRateWindow = time.Hour
)

var (
	DefaultWindowStart = MustParseTimeOfDay("07:00")
	DefaultWindowEnd   = MustParseTimeOfDay("21:00")
)

// Default returns the standard policy: admission between 07:00 and 21:00,
// at most 10 open documents per party and per pair, and at most 10 documents
// created per party per hour. All checks are active.
func Default() LimitPolicy {
	return LimitPolicy{
		timeWindow: TimeWindow{Enabled: true, Start: DefaultWindowStart, End: DefaultWindowEnd},
		partyOpen:  Ceiling{Enabled: true, Limit: DefaultOpenLimit},
		partyRate:  RateCeiling{Enabled: true, Limit: DefaultRateLimit, Window: DefaultRateWindow},
		pairOpen:   Ceiling{Enabled: true, Limit: DefaultOpenLimit},
	}
}

// Disabled returns the default thresholds with every check switched off.
func Disabled() LimitPolicy {
	p := Default()
	p.timeWindow.Enabled = false
	p.partyOpen.Enabled = false
	p.partyRate.Enabled = false
	p.pairOpen.Enabled = false
	return p
}

// Custom builds a policy from explicit values for all four checks.
// Thresholds are validated even for disabled checks so a policy can be
// toggled on later without surprises.
func Custom(window TimeWindow, partyOpen Ceiling, partyRate RateCeiling, pairOpen Ceiling) (LimitPolicy, error) {
	if !window.Start.Valid() || !window.End.Valid() {
		return LimitPolicy{}, dErrors.New(dErrors.CodeInvalidInput, "time window bounds must lie within one day")
	}
	if partyOpen.Limit < 0 {
		return LimitPolicy{}, dErrors.New(dErrors.CodeInvalidInput, "party open limit cannot be negative")
	}
	if partyRate.Limit < 0 {
		return LimitPolicy{}, dErrors.New(dErrors.CodeInvalidInput, "party rate limit cannot be negative")
	}
	if partyRate.Window <= 0 {
		return LimitPolicy{}, dErrors.New(dErrors.CodeInvalidInput, "party rate window must be positive")
	}
	if pairOpen.Limit < 0 {
		return LimitPolicy{}, dErrors.New(dErrors.CodeInvalidInput, "pair open limit cannot be negative")
	}
	return LimitPolicy{
		timeWindow: window,
		partyOpen:  partyOpen,
		partyRate:  partyRate,
		pairOpen:   pairOpen,
	}, nil
}

// MustCustom is Custom for literals. It panics on invalid values.
func MustCustom(window TimeWindow, partyOpen Ceiling, partyRate RateCeiling, pairOpen Ceiling) LimitPolicy {
	p, err := Custom(window, partyOpen, partyRate, pairOpen)
	if err != nil {
		panic(err)
	}
	return p
}

func (p LimitPolicy) TimeWindow() TimeWindow { return p.timeWindow }
func (p LimitPolicy) PartyOpen() Ceiling     { return p.partyOpen }
func (p LimitPolicy) PartyRate() RateCeiling { return p.partyRate }
func (p LimitPolicy) PairOpen() Ceiling      { return p.pairOpen }

// AnyEnabled reports whether at least one check is active.
func (p LimitPolicy) AnyEnabled() bool {
	return p.timeWindow.Enabled || p.partyOpen.Enabled || p.partyRate.Enabled || p.pairOpen.Enabled
}
