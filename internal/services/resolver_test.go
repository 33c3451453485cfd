package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
	apperrors "github.com/vuongmanhnghia/playlist-bot/internal/errors"
)

func TestURLResolver(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected valueobjects.ResourceType
	}{
		{"youtube watch", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", valueobjects.ResourceTypeYouTube},
		{"youtube short", "https://youtu.be/dQw4w9WgXcQ", valueobjects.ResourceTypeYouTube},
		{"soundcloud", "https://soundcloud.com/artist/track", valueobjects.ResourceTypeSoundCloud},
		{"spotify", "https://open.spotify.com/track/abc", valueobjects.ResourceTypeSpotify},
		{"plain media", "https://example.com/song.mp3", valueobjects.ResourceTypeMedia},
		{"search", "never gonna give you up", valueobjects.ResourceTypeSearch},
	}

	r := NewURLResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Resolve(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, res.Type)
			assert.Equal(t, tt.input, res.ResourceID)
		})
	}
}

func TestURLResolverSearchUsesQueryAsTitle(t *testing.T) {
	res, err := NewURLResolver().Resolve("  lofi hip hop  ")
	require.NoError(t, err)
	assert.Equal(t, "lofi hip hop", res.ResourceID)
	assert.Equal(t, "lofi hip hop", res.Title)
}

func TestURLResolverEmpty(t *testing.T) {
	_, err := NewURLResolver().Resolve("")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
