package commands

import (
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
)

const suggestionLimit = maxAutocompleteChoices

// handleButtonInteraction handles pagination button clicks
func (h *Handler) handleButtonInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	// Parse custom ID: "queue:action" or "playlist:name:action"
	parts := strings.Split(customID, ":")
	if len(parts) < 2 {
		return
	}

	switch parts[0] {
	case "queue":
		h.handleQueuePagination(s, i, parts[1])
	case "playlist":
		if len(parts) < 3 {
			return
		}
		h.handlePlaylistPagination(s, i, parts[1], parts[2])
	}
}

// currentPage reads the page shown by the message the button belongs to
func currentPage(i *discordgo.InteractionCreate) int {
	if i.Message == nil || len(i.Message.Embeds) == 0 {
		return 0
	}
	return pageFromTitle(i.Message.Embeds[0].Title)
}

// handleQueuePagination handles queue pagination buttons
func (h *Handler) handleQueuePagination(s *discordgo.Session, i *discordgo.InteractionCreate, action string) {
	snap := h.playlistService.Snapshot(i.GuildID)

	page, ok := targetPage(action, currentPage(i), pageCount(len(snap.Items)))
	if !ok {
		return
	}

	embed, components := buildQueuePage(snap, page)
	if err := updatePage(s, i, embed, components); err != nil {
		h.logger.WithError(err).Error("Failed to update queue pagination")
	}
}

// handlePlaylistPagination handles playlist pagination buttons
func (h *Handler) handlePlaylistPagination(s *discordgo.Session, i *discordgo.InteractionCreate, name, action string) {
	playlist, err := h.playlistService.ShowPlaylist(i.GuildID, name, interactionUser(i).ID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get playlist for pagination")
		_ = respondError(s, i, errors.GetUserMessage(err))
		return
	}
	playlist.Name = name

	page, ok := targetPage(action, currentPage(i), pageCount(playlist.Count()))
	if !ok {
		return
	}

	embed, components := buildPlaylistPage(playlist, page)
	if err := updatePage(s, i, embed, components); err != nil {
		h.logger.WithError(err).Error("Failed to update playlist pagination")
	}
}

// handleAutocomplete suggests stored playlist names for name options
func (h *Handler) handleAutocomplete(s *discordgo.Session, i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if data.Name != "playlist" || len(data.Options) == 0 {
		return
	}

	var query string
	for _, opt := range data.Options[0].Options {
		if opt.Name == "name" && opt.Focused {
			query = opt.StringValue()
		}
	}

	suggestions := h.playlistService.SuggestPlaylists(query, suggestionLimit)
	if err := respondChoices(s, i, suggestions); err != nil {
		h.logger.WithError(err).Warn("Failed to send autocomplete choices")
	}
}
