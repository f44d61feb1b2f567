package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct code matches", func(t *testing.T) {
		err := New(CodeInvalidInput, "bad limit")
		assert.True(t, HasCode(err, CodeInvalidInput))
		assert.False(t, HasCode(err, CodeNotFound))
	})

	t.Run("wrapped coded errors are searched", func(t *testing.T) {
		inner := New(CodeNotFound, "missing")
		outer := Wrap(inner, CodeInternal, "lookup failed")
		assert.True(t, HasCode(outer, CodeInternal))
		assert.True(t, HasCode(outer, CodeNotFound))
	})

	t.Run("fmt wrapping is unwrapped", func(t *testing.T) {
		err := fmt.Errorf("context: %w", New(CodeInvariantViolation, "role"))
		assert.True(t, HasCode(err, CodeInvariantViolation))
	})

	t.Run("plain errors have no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("plain"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrap(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, CodeInternal, "ignored"))
	})

	t.Run("cause is preserved", func(t *testing.T) {
		cause := errors.New("disk")
		err := Wrap(cause, CodeInternal, "read policy")
		require.Error(t, err)
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "internal: read policy: disk", err.Error())
	})
}
