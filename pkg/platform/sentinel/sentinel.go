package sentinel

import "errors"

// Sentinel errors for store facts. Stores return these (optionally wrapped) and
// services translate them into domain errors.
//
//   - ErrNotFound: the entity is not held by the store
//   - ErrInvalidState: the entity is in the wrong state for the operation
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
)
