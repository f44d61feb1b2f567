package testutil

import (
	"context"
	"testing"
	"time"

	"docflow/pkg/requestcontext"
)

// Given, When, Then and And nest subtests so scenario tests read as the
// workflow they exercise.
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}

func And(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("And "+desc, fn)
}

// At returns a context pinned to the given wall-clock time of day on a fixed
// date, in UTC.
func At(hour, minute int) context.Context {
	return AtTime(time.Date(2024, time.March, 1, hour, minute, 0, 0, time.UTC))
}

// AtTime returns a context pinned to t.
func AtTime(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}
