package validation

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/vuongmanhnghia/playlist-bot/internal/errors"
)

func TestIsSafeFileName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"plain", "rock", true},
		{"unicode", "nhạc-trẻ_2024", true},
		{"spaces inside", "road trip", true},
		{"empty", "", false},
		{"dot file", ".queue", false},
		{"parent traversal", "../../etc", false},
		{"slash", "a/b", false},
		{"backslash", `a\b`, false},
		{"colon", "c:", false},
		{"control char", "a\x01b", false},
		{"reserved device", "con", false},
		{"reserved with extension", "LPT1.txt", false},
		{"trailing dot", "name.", false},
		{"trailing space", "name ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSafeFileName(tt.input); got != tt.expected {
				t.Errorf("IsSafeFileName(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestURLDetection(t *testing.T) {
	tests := []struct {
		url        string
		youtube    bool
		soundcloud bool
		spotify    bool
		isURL      bool
	}{
		{"https://www.youtube.com/watch?v=D8OCBS2UZOk", true, false, false, true},
		{"https://youtu.be/D8OCBS2UZOk", true, false, false, true},
		{"https://music.youtube.com/watch?v=abc", true, false, false, true},
		{"https://soundcloud.com/artist/track", false, true, false, true},
		{"https://open.spotify.com/track/123", false, false, true, true},
		{"https://example.com/song.mp3", false, false, false, true},
		{"never gonna give you up", false, false, false, false},
		{"ftp://example.com/song.mp3", false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if got := IsYouTubeURL(tt.url); got != tt.youtube {
				t.Errorf("IsYouTubeURL = %v, expected %v", got, tt.youtube)
			}
			if got := IsSoundCloudURL(tt.url); got != tt.soundcloud {
				t.Errorf("IsSoundCloudURL = %v, expected %v", got, tt.soundcloud)
			}
			if got := IsSpotifyURL(tt.url); got != tt.spotify {
				t.Errorf("IsSpotifyURL = %v, expected %v", got, tt.spotify)
			}
			if got := IsURL(tt.url); got != tt.isURL {
				t.Errorf("IsURL = %v, expected %v", got, tt.isURL)
			}
		})
	}
}

func TestValidatePlaylistName(t *testing.T) {
	if err := ValidatePlaylistName("  chill  "); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidatePlaylistName(""); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if err := ValidatePlaylistName(strings.Repeat("a", 64)); !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for long name, got %v", err)
	}
	if err := ValidatePlaylistName("../x"); !errors.Is(err, apperrors.ErrUnsafeName) {
		t.Errorf("expected ErrUnsafeName, got %v", err)
	}
}

func TestValidateQueuePosition(t *testing.T) {
	if err := ValidateQueuePosition(0, 0); !errors.Is(err, apperrors.ErrQueueEmpty) {
		t.Errorf("expected ErrQueueEmpty, got %v", err)
	}
	if err := ValidateQueuePosition(3, 3); !errors.Is(err, apperrors.ErrInvalidPosition) {
		t.Errorf("expected ErrInvalidPosition, got %v", err)
	}
	if err := ValidateQueuePosition(2, 3); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"hello wonderful world", 12, "hello..."},
		{"abcdef", 3, "abc"},
		{"ééééé", 4, "é..."},
	}

	for _, tt := range tests {
		if got := TruncateString(tt.input, tt.maxLen); got != tt.expected {
			t.Errorf("TruncateString(%q, %d) = %q, expected %q", tt.input, tt.maxLen, got, tt.expected)
		}
	}
}
