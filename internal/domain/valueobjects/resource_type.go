package valueobjects

import "strings"

// ResourceType names the producer that can turn a resource ID into audio
type ResourceType string

const (
	ResourceTypeYouTube    ResourceType = "youtube"
	ResourceTypeSoundCloud ResourceType = "soundcloud"
	ResourceTypeSpotify    ResourceType = "spotify"
	ResourceTypeMedia      ResourceType = "media"
	ResourceTypeSearch     ResourceType = "search"
)

// String returns the string representation
func (r ResourceType) String() string {
	return string(r)
}

// IsBlank reports whether the type carries no usable value
func (r ResourceType) IsBlank() bool {
	return strings.TrimSpace(string(r)) == ""
}

// IsKnown checks if a built-in producer handles this type.
// Unknown types are still stored and round-tripped untouched.
func (r ResourceType) IsKnown() bool {
	switch r {
	case ResourceTypeYouTube, ResourceTypeSoundCloud, ResourceTypeSpotify,
		ResourceTypeMedia, ResourceTypeSearch:
		return true
	}
	return false
}
