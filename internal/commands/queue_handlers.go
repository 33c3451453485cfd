package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// handleQueue handles the queue command
func (h *Handler) handleQueue(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	page := 0
	if opt, ok := optionMap(i.ApplicationCommandData().Options)["page"]; ok {
		page = int(opt.IntValue()) - 1
	}

	embed, components := buildQueuePage(h.playlistService.Snapshot(i.GuildID), page)
	return respondPage(s, i, embed, components)
}

// handleAdd handles the add and insert commands
func (h *Handler) handleAdd(s *discordgo.Session, i *discordgo.InteractionCreate, insert bool) error {
	query := optionMap(i.ApplicationCommandData().Options)["song"].StringValue()

	item, position, err := h.playlistService.Enqueue(i.GuildID, query, insert)
	if err != nil {
		return h.respondServiceError(s, i, err)
	}

	title := "🎵 Added to Queue"
	if insert {
		title = "🎵 Playing Next"
	}

	embed := NewEmbed().
		Title(title).
		Description(fmt.Sprintf("**%s**", item.Resource.DisplayName())).
		Color(ColorSuccess).
		Field("Position", fmt.Sprintf("%d", position+1), true).
		Field("Source", item.Resource.Type.String(), true).
		Footer("Use /queue to view the queue").
		Build()

	return respondEmbed(s, i, embed)
}

// handleRemove moves one or more queue items to the trash
func (h *Handler) handleRemove(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	input := optionMap(i.ApplicationCommandData().Options)["indexes"].StringValue()

	snap := h.playlistService.Snapshot(i.GuildID)
	indexes, err := parseIndexes(input, len(snap.Items))
	if err != nil {
		return h.respondServiceError(s, i, err)
	}

	removed, err := h.playlistService.RemoveFromQueue(i.GuildID, indexes)
	if err != nil {
		return h.respondServiceError(s, i, err)
	}

	var sb strings.Builder
	for _, item := range removed {
		sb.WriteString(fmt.Sprintf("⚬ **%s**\n", item.Resource.DisplayName()))
	}

	embed := NewEmbed().
		Title(fmt.Sprintf("🗑️ Removed %d songs", len(removed))).
		Description(sb.String()).
		Color(ColorWarning).
		Footer("Removed songs are kept in .trash until /emptytrash").
		Build()

	return respondEmbed(s, i, embed)
}

// handleClear moves the whole queue to the trash
func (h *Handler) handleClear(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	moved := h.playlistService.ClearQueue(i.GuildID)
	if moved == 0 {
		return respondInfo(s, i, "The queue is already empty")
	}

	h.logger.WithFields(map[string]interface{}{
		"guild": i.GuildID,
		"count": moved,
	}).Info("Queue cleared")

	embed := NewEmbed().
		Title("🔄 Queue Cleared").
		Description(fmt.Sprintf("Moved **%d** songs to the trash", moved)).
		Color(ColorWarning).
		Footer("Use /playlist load .trash to bring them back").
		Build()

	return respondEmbed(s, i, embed)
}

// handleEmptyTrash drops the trash list
func (h *Handler) handleEmptyTrash(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	count := h.playlistService.EmptyTrash(i.GuildID)
	return respondSuccess(s, i, fmt.Sprintf("Dropped **%d** songs from the trash", count))
}
