package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNoActiveLayer, "no layer: %s", "roads")

	assert.Equal(t, ErrCodeNoActiveLayer, err.Code)
	assert.Equal(t, "no layer: roads", err.Message)
	assert.Equal(t, "NO_ACTIVE_LAYER: no layer: roads", err.Error())
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeIO, cause, "failed to write")

	assert.Equal(t, ErrCodeIO, err.Code)
	require.ErrorIs(t, err, cause)
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.Equal(t, "IO_ERROR: failed to write: disk full", err.Error())
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{"matching code", New(ErrCodeNotVector, "x"), ErrCodeNotVector, true},
		{"non-matching code", New(ErrCodeNotVector, "x"), ErrCodeIO, false},
		{"wrapped error", Wrap(ErrCodeArchive, New(ErrCodeIO, "inner"), "outer"), ErrCodeArchive, true},
		{"non-Error type", errors.New("plain"), ErrCodeIO, false},
		{"nil error", nil, ErrCodeIO, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Is(tt.err, tt.code))
		})
	}
}

func TestIsPrecondition(t *testing.T) {
	assert.True(t, IsPrecondition(New(ErrCodeNoActiveLayer, "x")))
	assert.True(t, IsPrecondition(New(ErrCodeNotVector, "x")))
	assert.True(t, IsPrecondition(New(ErrCodeNoDestination, "x")))
	assert.False(t, IsPrecondition(New(ErrCodeIO, "x")))
	assert.False(t, IsPrecondition(errors.New("plain")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "pick a file", UserMessage(New(ErrCodeNoDestination, "pick a file")))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "", string(GetCode(errors.New("plain"))))
}
