package entities

import (
	"github.com/google/uuid"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
)

// AudioResource is a reference that a producer can turn into playable audio
type AudioResource struct {
	Type       valueobjects.ResourceType `json:"type"`
	ResourceID string                    `json:"resid"`
	Title      string                    `json:"title,omitempty"`
}

// DisplayName returns the best display name for the resource
func (r AudioResource) DisplayName() string {
	if r.Title != "" {
		return r.Title
	}
	return r.ResourceID
}

// ItemMeta holds transient playback state that is never persisted
type ItemMeta struct {
	// FromPlaylist is set when navigation surfaced the item
	FromPlaylist bool
}

// PlaylistItem is one entry of a playlist
type PlaylistItem struct {
	ID       uuid.UUID
	Resource AudioResource
	Meta     ItemMeta
}

// NewPlaylistItem wraps a resource in a new item
func NewPlaylistItem(resource AudioResource) *PlaylistItem {
	return &PlaylistItem{
		ID:       uuid.New(),
		Resource: resource,
	}
}

// Clone returns an independent copy with a fresh identity and cleared metadata
func (i *PlaylistItem) Clone() *PlaylistItem {
	if i == nil {
		return nil
	}
	return NewPlaylistItem(i.Resource)
}
