package entities

import "github.com/google/uuid"

// Playlist is an ordered list of items plus identity metadata.
// It is not safe for concurrent use.
type Playlist struct {
	Name string
	// Owner restricts load, save and delete to one user when set
	Owner string

	items []*PlaylistItem
}

// NewPlaylist creates a new empty playlist
func NewPlaylist(name string) *Playlist {
	return &Playlist{
		Name:  name,
		items: make([]*PlaylistItem, 0),
	}
}

// HasOwner reports whether the playlist is restricted to an owner
func (p *Playlist) HasOwner() bool {
	return p.Owner != ""
}

// AddItem appends an item and returns its index, or -1 for a nil item
func (p *Playlist) AddItem(item *PlaylistItem) int {
	if item == nil {
		return -1
	}
	p.items = append(p.items, item)
	return len(p.items) - 1
}

// InsertItem inserts an item at index clamped to [0, Count()] and returns
// the index used, or -1 for a nil item.
func (p *Playlist) InsertItem(item *PlaylistItem, index int) int {
	if item == nil {
		return -1
	}
	index = max(0, min(index, len(p.items)))

	p.items = append(p.items, nil)
	copy(p.items[index+1:], p.items[index:])
	p.items[index] = item
	return index
}

// AddRange appends all non-nil items in order
func (p *Playlist) AddRange(items []*PlaylistItem) {
	for _, item := range items {
		p.AddItem(item)
	}
}

// Clear removes all items
func (p *Playlist) Clear() {
	clear(p.items)
	p.items = p.items[:0]
}

// GetResource returns the item at index, or nil when index is out of range
func (p *Playlist) GetResource(index int) *PlaylistItem {
	if index < 0 || index >= len(p.items) {
		return nil
	}
	return p.items[index]
}

// RemoveItem removes and returns the item at index
func (p *Playlist) RemoveItem(index int) (*PlaylistItem, bool) {
	if index < 0 || index >= len(p.items) {
		return nil, false
	}
	item := p.items[index]
	copy(p.items[index:], p.items[index+1:])
	p.items[len(p.items)-1] = nil
	p.items = p.items[:len(p.items)-1]
	return item, true
}

// Count returns the number of items
func (p *Playlist) Count() int {
	return len(p.items)
}

// IsEmpty checks if the playlist has no items
func (p *Playlist) IsEmpty() bool {
	return len(p.items) == 0
}

// Items returns the items in insertion order.
// The slice is a copy; the items are shared.
func (p *Playlist) Items() []*PlaylistItem {
	result := make([]*PlaylistItem, len(p.items))
	copy(result, p.items)
	return result
}

// IndexOf returns the index of the item with the given ID, or -1
func (p *Playlist) IndexOf(id uuid.UUID) int {
	for i, item := range p.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy whose items are independent of the original
func (p *Playlist) Clone() *Playlist {
	clone := &Playlist{
		Name:  p.Name,
		Owner: p.Owner,
		items: make([]*PlaylistItem, 0, len(p.items)),
	}
	for _, item := range p.items {
		clone.items = append(clone.items, item.Clone())
	}
	return clone
}
