package limits

// Reason names why a document was turned away. The empty Reason means the
// document passed.
type Reason string

const (
	ReasonNone               Reason = ""
	ReasonNilDocument        Reason = "nil_document"
	ReasonOutsideTimeWindow  Reason = "outside_time_window"
	ReasonPartyOpenLimit     Reason = "party_open_limit"
	ReasonPartyRateLimit     Reason = "party_rate_limit"
	ReasonPairOpenLimit      Reason = "pair_open_limit"
	ReasonNotInRepository    Reason = "not_in_repository"
	ReasonAlreadyFullySigned Reason = "already_fully_signed"
	ReasonSignerLacksCustody Reason = "signer_lacks_custody"
	ReasonPartiallySigned    Reason = "partially_signed"
)

func (r Reason) String() string {
	if r == ReasonNone {
		return "none"
	}
	return string(r)
}

// Decision is the outcome of a limit evaluation.
type Decision struct {
	Allowed bool
	Reason  Reason
}

// Allow returns a passing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a failing decision carrying reason.
func Deny(reason Reason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
