package commands

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
)

func nowPlayingEmbed(title string, item *entities.PlaylistItem, index, total int) *discordgo.MessageEmbed {
	source := item.Resource.Type.String()
	if !item.Resource.Type.IsKnown() {
		source += " (no built-in player)"
	}

	return NewEmbed().
		Title(title).
		Description(fmt.Sprintf("**%s**", item.Resource.DisplayName())).
		Color(ColorPrimary).
		Field("Source", source, true).
		Field("Position", fmt.Sprintf("%d/%d", index+1, total), true).
		Footer("Use /next or /previous to move through the queue").
		Build()
}

// handleNowPlaying handles the nowplaying command
func (h *Handler) handleNowPlaying(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	snap := h.playlistService.Snapshot(i.GuildID)
	if snap.Index < 0 {
		return respondError(s, i, "Nothing is queued")
	}

	item := snap.Items[snap.Index]
	return respondEmbed(s, i, nowPlayingEmbed("Now Playing", item, snap.Index, len(snap.Items)))
}

// handleNavigate handles the next and previous commands. Manual steps
// always wrap around the ends of the queue.
func (h *Handler) handleNavigate(s *discordgo.Session, i *discordgo.InteractionCreate, forward bool) error {
	item, ok := h.playlistService.Navigate(i.GuildID, forward, true)
	if !ok {
		return respondError(s, i, "Nothing is queued")
	}

	title := "⏭️ Next"
	if !forward {
		title = "⏮️ Previous"
	}

	snap := h.playlistService.Snapshot(i.GuildID)
	return respondEmbed(s, i, nowPlayingEmbed(title, item, snap.Index, len(snap.Items)))
}

// handleJump makes the given queue position current
func (h *Handler) handleJump(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	position := int(optionMap(i.ApplicationCommandData().Options)["index"].IntValue())

	item, err := h.playlistService.Jump(i.GuildID, position-1)
	if err != nil {
		return h.respondServiceError(s, i, err)
	}

	snap := h.playlistService.Snapshot(i.GuildID)
	return respondEmbed(s, i, nowPlayingEmbed("↪️ Jumped", item, position-1, len(snap.Items)))
}

// handleRepeat handles the repeat command
func (h *Handler) handleRepeat(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	modeStr := optionMap(i.ApplicationCommandData().Options)["mode"].StringValue()

	mode, err := valueobjects.ParseLoopMode(modeStr)
	if err != nil {
		return respondError(s, i, "Invalid repeat mode")
	}

	h.playlistService.SetLoop(i.GuildID, mode)

	var modeDisplay string
	switch mode {
	case valueobjects.LoopOne:
		modeDisplay = "Single Track"
	case valueobjects.LoopAll:
		modeDisplay = "Entire Queue"
	default:
		modeDisplay = "Off"
	}

	embed := NewEmbed().
		Title(fmt.Sprintf("%s Repeat Mode Updated", mode.Emoji())).
		Description(fmt.Sprintf("Repeat mode set to: **%s**", modeDisplay)).
		Color(ColorInfo).
		Build()

	return respondEmbed(s, i, embed)
}

// handleRandom switches between queue order and a seeded pseudo-random walk
func (h *Handler) handleRandom(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	options := optionMap(i.ApplicationCommandData().Options)
	enabled := options["enabled"].BoolValue()

	var seed *int
	if opt, ok := options["seed"]; ok {
		v := int(opt.IntValue())
		seed = &v
	}

	used := h.playlistService.SetRandom(i.GuildID, enabled, seed)

	builder := NewEmbed().Color(ColorInfo)
	if enabled {
		builder.Title("🔀 Random Order On").
			Description("Every song plays once per pass, in a shuffled order").
			Field("Seed", fmt.Sprintf("%d", used), true)
	} else {
		builder.Title("➡️ Random Order Off").
			Description("Songs play in queue order")
	}

	return respondEmbed(s, i, builder.Build())
}
