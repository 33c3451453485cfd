package services

import (
	"fmt"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/internal/validation"
)

// Resolver turns user input into a resource reference. Fetching and
// streaming the audio belongs to the player, not the resolver.
type Resolver interface {
	Resolve(input string) (entities.AudioResource, error)
}

// URLResolver classifies input by URL shape without any network access
type URLResolver struct{}

// NewURLResolver creates the default resolver
func NewURLResolver() *URLResolver {
	return &URLResolver{}
}

// Resolve detects the source type of input. Anything that is not a URL is
// treated as a search query.
func (r *URLResolver) Resolve(input string) (entities.AudioResource, error) {
	input = validation.SanitizeInput(input)
	if input == "" {
		return entities.AudioResource{}, fmt.Errorf("%w: empty query", errors.ErrInvalidInput)
	}

	var resourceType valueobjects.ResourceType
	switch {
	case validation.IsYouTubeURL(input):
		resourceType = valueobjects.ResourceTypeYouTube
	case validation.IsSoundCloudURL(input):
		resourceType = valueobjects.ResourceTypeSoundCloud
	case validation.IsSpotifyURL(input):
		resourceType = valueobjects.ResourceTypeSpotify
	case validation.IsURL(input):
		resourceType = valueobjects.ResourceTypeMedia
	default:
		return entities.AudioResource{
			Type:       valueobjects.ResourceTypeSearch,
			ResourceID: input,
			Title:      input,
		}, nil
	}

	return entities.AudioResource{
		Type:       resourceType,
		ResourceID: input,
	}, nil
}
