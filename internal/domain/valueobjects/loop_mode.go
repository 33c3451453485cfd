package valueobjects

import (
	"fmt"
	"strings"
)

// LoopMode controls what automatic advancement does at the end of a track
type LoopMode int

const (
	// LoopOff stops playback when the list ends
	LoopOff LoopMode = iota
	// LoopOne repeats the current item
	LoopOne
	// LoopAll wraps around to the start
	LoopAll
)

// String returns the string representation
func (m LoopMode) String() string {
	switch m {
	case LoopOff:
		return "off"
	case LoopOne:
		return "one"
	case LoopAll:
		return "all"
	}
	return fmt.Sprintf("LoopMode(%d)", int(m))
}

// Emoji returns a display glyph for the mode
func (m LoopMode) Emoji() string {
	switch m {
	case LoopOne:
		return "🔂"
	case LoopAll:
		return "🔁"
	}
	return "➡️"
}

// ParseLoopMode parses off, one or all (case-insensitive)
func ParseLoopMode(s string) (LoopMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "":
		return LoopOff, nil
	case "one", "track":
		return LoopOne, nil
	case "all", "queue":
		return LoopAll, nil
	}
	return LoopOff, fmt.Errorf("unknown loop mode %q", s)
}
