package commands

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/internal/services"
	"github.com/vuongmanhnghia/playlist-bot/internal/validation"
)

// handlePlaylists shows stored playlists, optionally filtered
func (h *Handler) handlePlaylists(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	var pattern string
	if opt, ok := optionMap(i.ApplicationCommandData().Options)["pattern"]; ok {
		pattern = opt.StringValue()
	}

	playlists, err := h.playlistService.ListPlaylists(pattern)
	if err != nil {
		return h.respondServiceError(s, i, err)
	}

	if len(playlists) == 0 {
		embed := NewEmbed().
			Title("Playlists").
			Description("No playlists found.\nUse `/playlist save <name>` to save the queue as one!").
			Color(ColorInfo).
			Build()
		return respondEmbed(s, i, embed)
	}

	var sb strings.Builder
	for _, name := range playlists {
		sb.WriteString(fmt.Sprintf("⚬ **%s**\n", name))
	}

	embed := NewEmbed().
		Title("Available Playlists").
		Description(validation.TruncateString(sb.String(), 4000)).
		Color(ColorPrimary).
		Footer(fmt.Sprintf("%d playlists • Use /playlist load <name> to play one", len(playlists))).
		Build()

	return respondEmbed(s, i, embed)
}

// handlePlaylistSubcommand handles playlist management subcommands
func (h *Handler) handlePlaylistSubcommand(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(s, i, "Invalid subcommand")
	}

	subCmd := options[0]
	switch subCmd.Name {
	case "load":
		return h.handlePlaylistLoad(s, i, subCmd)
	case "save":
		return h.handlePlaylistSave(s, i, subCmd)
	case "delete":
		return h.handlePlaylistDelete(s, i, subCmd)
	case "show":
		return h.handlePlaylistShow(s, i, subCmd)
	default:
		return respondError(s, i, "Unknown subcommand")
	}
}

func (h *Handler) handlePlaylistLoad(s *discordgo.Session, i *discordgo.InteractionCreate, subCmd *discordgo.ApplicationCommandInteractionDataOption) error {
	name := optionMap(subCmd.Options)["name"].StringValue()

	playlist, err := h.playlistService.LoadIntoQueue(i.GuildID, name, interactionUser(i).ID)
	if err != nil {
		return h.respondPlaylistError(s, i, name, err)
	}

	embed := NewEmbed().
		Title("Playlist Loaded").
		Description(fmt.Sprintf("Queue replaced with **%s**", name)).
		Color(ColorSuccess).
		Field("Songs", fmt.Sprintf("%d", playlist.Count()), true).
		Footer("Use /queue to view the queue").
		Build()

	return respondEmbed(s, i, embed)
}

func (h *Handler) handlePlaylistSave(s *discordgo.Session, i *discordgo.InteractionCreate, subCmd *discordgo.ApplicationCommandInteractionDataOption) error {
	name := validation.SanitizeInput(optionMap(subCmd.Options)["name"].StringValue())

	if err := validation.ValidatePlaylistName(name); err != nil {
		if stderrors.Is(err, errors.ErrUnsafeName) {
			return respondError(s, i, fmt.Sprintf("%s. Try **%s** instead", errors.GetUserMessage(err), services.CleanseName(name)))
		}
		return h.respondServiceError(s, i, err)
	}

	user := interactionUser(i)
	playlist, err := h.playlistService.SaveQueue(i.GuildID, name, user.ID)
	if err != nil {
		return h.respondServiceError(s, i, err)
	}

	h.logger.WithFields(map[string]interface{}{
		"playlist": name,
		"user":     user.Username,
		"songs":    playlist.Count(),
	}).Info("Queue saved as playlist")

	embed := NewEmbed().
		Title("Playlist Saved").
		Description(fmt.Sprintf("Saved the queue as **%s**", name)).
		Color(ColorSuccess).
		Field("Songs", fmt.Sprintf("%d", playlist.Count()), true).
		Field("Owner", fmt.Sprintf("<@%s>", user.ID), true).
		Build()

	return respondEmbed(s, i, embed)
}

func (h *Handler) handlePlaylistDelete(s *discordgo.Session, i *discordgo.InteractionCreate, subCmd *discordgo.ApplicationCommandInteractionDataOption) error {
	options := optionMap(subCmd.Options)
	name := options["name"].StringValue()

	force := false
	if opt, ok := options["force"]; ok {
		force = opt.BoolValue()
	}
	if force && !h.isAdmin(i) {
		return h.respondServiceError(s, i, errors.ErrNoPermission)
	}

	if err := h.playlistService.DeletePlaylist(i.GuildID, name, interactionUser(i).ID, force); err != nil {
		return h.respondPlaylistError(s, i, name, err)
	}

	embed := NewEmbed().
		Title("Playlist Deleted").
		Description(fmt.Sprintf("Playlist **%s** has been permanently deleted", name)).
		Color(ColorWarning).
		Build()

	return respondEmbed(s, i, embed)
}

func (h *Handler) handlePlaylistShow(s *discordgo.Session, i *discordgo.InteractionCreate, subCmd *discordgo.ApplicationCommandInteractionDataOption) error {
	name := optionMap(subCmd.Options)["name"].StringValue()

	playlist, err := h.playlistService.ShowPlaylist(i.GuildID, name, interactionUser(i).ID)
	if err != nil {
		return h.respondPlaylistError(s, i, name, err)
	}
	// The in-memory lists carry no name of their own
	playlist.Name = name

	embed, components := buildPlaylistPage(playlist, 0)
	return respondPage(s, i, embed, components)
}

// respondPlaylistError adds close matches to a not-found error
func (h *Handler) respondPlaylistError(s *discordgo.Session, i *discordgo.InteractionCreate, name string, err error) error {
	if !stderrors.Is(err, errors.ErrPlaylistNotFound) {
		return h.respondServiceError(s, i, err)
	}

	message := errors.GetUserMessage(err)
	if suggestions := h.playlistService.SuggestPlaylists(name, 3); len(suggestions) > 0 {
		message += ". Did you mean **" + strings.Join(suggestions, "**, **") + "**?"
	}
	return respondError(s, i, message)
}
