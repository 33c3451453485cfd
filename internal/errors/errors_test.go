package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderErrorsAreBrokenFiles(t *testing.T) {
	assert.True(t, errors.Is(ErrFileTooNew, ErrBrokenFile))
	assert.True(t, errors.Is(ErrDuplicateOwner, ErrBrokenFile))
	assert.False(t, errors.Is(ErrBrokenFile, ErrFileTooNew))
}

func TestGetUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "wrapped not found",
			err:      fmt.Errorf("load %q: %w", "rock", ErrPlaylistNotFound),
			expected: "Playlist not found",
		},
		{
			name:     "too new wins over broken file",
			err:      fmt.Errorf("parse: %w", ErrFileTooNew),
			expected: "The playlist file version is too new and can't be read",
		},
		{
			name:     "plain broken file",
			err:      ErrBrokenFile,
			expected: "The playlist file is broken",
		},
		{
			name:     "user error message",
			err:      WrapUserError(ErrAccessDenied, "Playlist %s belongs to someone else", "rock"),
			expected: "Playlist rock belongs to someone else",
		},
		{
			name:     "unknown error",
			err:      errors.New("boom"),
			expected: "An error occurred. Please try again later",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetUserMessage(tt.err))
		})
	}
}

func TestUserErrorUnwrap(t *testing.T) {
	err := NewUserError(ErrIOInUse, "busy")
	assert.True(t, errors.Is(err, ErrIOInUse))
	assert.Equal(t, ErrIOInUse.Error(), err.Error())
}
