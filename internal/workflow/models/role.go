package models

import (
	dErrors "docflow/pkg/domain-errors"
)

// Role is the fixed, system-wide side a party represents. Exactly two roles
// exist and a document's two signature flags are keyed by them: the primary
// flag records the primary party's signature and the secondary flag the
// secondary party's, whichever of them currently occupies the drafter slot.
type Role string

const (
	// RolePrimary is the drafter-capable side.
	RolePrimary Role = "primary"
	// RoleSecondary is the counterparty-capable side.
	RoleSecondary Role = "secondary"
)

// IsValid checks if the role is one of the two supported values.
func (r Role) IsValid() bool {
	return r == RolePrimary || r == RoleSecondary
}

// String returns the string representation.
func (r Role) String() string {
	return string(r)
}

// Other returns the opposite role.
func (r Role) Other() Role {
	if r == RolePrimary {
		return RoleSecondary
	}
	return RolePrimary
}

// ParseRole creates a Role from a string, validating it.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role cannot be empty")
	}
	r := Role(s)
	if !r.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role: must be 'primary' or 'secondary'")
	}
	return r, nil
}

// SignatureState is the derived signing state of a document.
type SignatureState string

const (
	StateUnsigned        SignatureState = "unsigned"
	StatePartiallySigned SignatureState = "partially_signed"
	StateFullySigned     SignatureState = "fully_signed"
)

func (s SignatureState) String() string {
	return string(s)
}
