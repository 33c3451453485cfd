// Package interchange converts between playlists and the JSPF format
// (XSPF encoded as JSON).
package interchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
)

// MetaResourceType is the meta key carrying the original resource type
const MetaResourceType = "resource_type"

// JSPFPlaylist is the playlist object of a JSPF document
type JSPFPlaylist struct {
	Title   string      `json:"title,omitempty"`
	Creator string      `json:"creator,omitempty"`
	Tracks  []JSPFTrack `json:"track"`
}

// JSPFTrack is one track entry
type JSPFTrack struct {
	Title    string     `json:"title,omitempty"`
	Duration *int64     `json:"duration,omitempty"` // milliseconds
	Meta     []JSPFMeta `json:"meta,omitempty"`
	Location []string   `json:"location,omitempty"`
}

// JSPFMeta is a single key/value pair, encoded as {"<key>": "<value>"}
type JSPFMeta struct {
	Key   string
	Value string
}

func (m JSPFMeta) MarshalJSON() ([]byte, error) {
	if m.Key == "" {
		return nil, fmt.Errorf("%w: empty meta key", errors.ErrInvalidArgument)
	}
	return json.Marshal(map[string]string{m.Key: m.Value})
}

func (m *JSPFMeta) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: meta must be an object of strings: %v", errors.ErrInvalidInput, err)
	}
	if len(raw) != 1 {
		return fmt.Errorf("%w: meta must have exactly one key", errors.ErrInvalidInput)
	}
	for k, v := range raw {
		if k == "" || v == "" {
			return fmt.Errorf("%w: meta key and value must not be empty", errors.ErrInvalidInput)
		}
		m.Key, m.Value = k, v
	}
	return nil
}

// FirstLocation returns the first non-empty location of a track
func (t JSPFTrack) FirstLocation() (string, bool) {
	for _, loc := range t.Location {
		if loc = strings.TrimSpace(loc); loc != "" {
			return loc, true
		}
	}
	return "", false
}

func (t JSPFTrack) resourceType() valueobjects.ResourceType {
	for _, m := range t.Meta {
		if m.Key == MetaResourceType {
			return valueobjects.ResourceType(m.Value)
		}
	}
	return valueobjects.ResourceTypeMedia
}

// ReadJSPF decodes a document. Both the bare playlist object and the
// {"playlist": {...}} envelope are accepted.
func ReadJSPF(r io.Reader) (*JSPFPlaylist, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSPF: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: JSPF document is empty", errors.ErrInvalidArgument)
	}

	var envelope struct {
		Playlist *JSPFPlaylist `json:"playlist"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode JSPF: %w", err)
	}
	if envelope.Playlist != nil {
		return envelope.Playlist, nil
	}

	var playlist JSPFPlaylist
	if err := json.Unmarshal(data, &playlist); err != nil {
		return nil, fmt.Errorf("failed to decode JSPF: %w", err)
	}
	return &playlist, nil
}

// WriteJSPF encodes a playlist object on a single line
func WriteJSPF(w io.Writer, playlist *JSPFPlaylist) error {
	if playlist == nil {
		return fmt.Errorf("%w: nil JSPF playlist", errors.ErrInvalidArgument)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(playlist); err != nil {
		return fmt.Errorf("failed to encode JSPF: %w", err)
	}
	return nil
}

// ToPlaylist converts tracks with a location into playlist items. The type
// comes from the resource_type meta entry and defaults to media. Tracks
// without a location are skipped and counted.
func ToPlaylist(src *JSPFPlaylist, name string) (*entities.Playlist, int) {
	playlist := entities.NewPlaylist(name)
	skipped := 0
	for _, track := range src.Tracks {
		loc, ok := track.FirstLocation()
		if !ok {
			skipped++
			continue
		}
		playlist.AddItem(entities.NewPlaylistItem(entities.AudioResource{
			Type:       track.resourceType(),
			ResourceID: loc,
			Title:      track.Title,
		}))
	}
	return playlist, skipped
}

// FromPlaylist converts a playlist into a JSPF playlist object.
// The resource type is kept as a meta entry so it survives a round trip.
func FromPlaylist(src *entities.Playlist) *JSPFPlaylist {
	out := &JSPFPlaylist{
		Title:   src.Name,
		Creator: src.Owner,
		Tracks:  make([]JSPFTrack, 0, src.Count()),
	}
	for _, item := range src.Items() {
		track := JSPFTrack{
			Title:    item.Resource.Title,
			Location: []string{item.Resource.ResourceID},
		}
		if !item.Resource.Type.IsBlank() {
			track.Meta = []JSPFMeta{{Key: MetaResourceType, Value: item.Resource.Type.String()}}
		}
		out.Tracks = append(out.Tracks, track)
	}
	return out
}
