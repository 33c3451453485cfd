package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
)

// MaxPlaylistNameLength is the longest name a playlist file may carry
const MaxPlaylistNameLength = 63

var (
	// URL patterns
	youtubePattern    = regexp.MustCompile(`^(https?://)?(www\.|m\.|music\.)?(youtube\.com|youtu\.be)/.+$`)
	soundcloudPattern = regexp.MustCompile(`^https?://(www\.|m\.)?soundcloud\.com/.+$`)
	spotifyPattern    = regexp.MustCompile(`^https?://open\.spotify\.com/(track|album|playlist)/.+$`)

	reservedNames = map[string]struct{}{
		"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
		"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
		"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
	}
)

// IsSafeFileName reports whether name can be used as a single file name
// inside the playlist directory on any common filesystem.
func IsSafeFileName(name string) bool {
	if name == "" || !utf8.ValidString(name) {
		return false
	}
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, " ") || strings.HasSuffix(name, ".") {
		return false
	}
	if strings.ContainsAny(name, `<>:"/\|?*`) {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}

	base := name
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	_, reserved := reservedNames[strings.ToUpper(base)]
	return !reserved
}

// ValidateURL validates if a string is a valid URL
func ValidateURL(input string) error {
	if input == "" {
		return fmt.Errorf("%w: URL cannot be empty", errors.ErrInvalidInput)
	}

	u, err := url.ParseRequestURI(input)
	if err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", errors.ErrInvalidInput, u.Scheme)
	}

	return nil
}

// IsURL reports whether input looks like an http(s) URL
func IsURL(input string) bool {
	return ValidateURL(input) == nil
}

// IsYouTubeURL checks if URL is a YouTube URL
func IsYouTubeURL(input string) bool {
	return youtubePattern.MatchString(input)
}

// IsSoundCloudURL checks if URL is a SoundCloud URL
func IsSoundCloudURL(input string) bool {
	return soundcloudPattern.MatchString(input)
}

// IsSpotifyURL checks if URL is a Spotify URL
func IsSpotifyURL(input string) bool {
	return spotifyPattern.MatchString(input)
}

// ValidateQueuePosition validates a zero-based queue position
func ValidateQueuePosition(position, size int) error {
	if size == 0 {
		return errors.ErrQueueEmpty
	}
	if position < 0 || position >= size {
		return fmt.Errorf("%w: must be between 1 and %d", errors.ErrInvalidPosition, size)
	}
	return nil
}

// SanitizeInput sanitizes user input by removing potentially dangerous characters
func SanitizeInput(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Trim whitespace
	input = strings.TrimSpace(input)

	return input
}

// ValidatePlaylistName validates a playlist name chosen by a user
func ValidatePlaylistName(name string) error {
	name = SanitizeInput(name)

	if name == "" {
		return fmt.Errorf("%w: playlist name cannot be empty", errors.ErrInvalidInput)
	}

	if utf8.RuneCountInString(name) > MaxPlaylistNameLength {
		return fmt.Errorf("%w: playlist name too long (max %d characters)", errors.ErrInvalidInput, MaxPlaylistNameLength)
	}

	if !IsSafeFileName(name) {
		return fmt.Errorf("%w: %q", errors.ErrUnsafeName, name)
	}

	return nil
}

// TruncateString safely truncates a string to max length in runes
func TruncateString(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)

	// Try to truncate at word boundary
	if maxLen > 3 {
		s = string(runes[:maxLen-3])
		if idx := strings.LastIndexAny(s, " \t\n"); idx > 0 {
			s = s[:idx]
		}
		return s + "..."
	}

	return string(runes[:maxLen])
}
