package commands

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
)

// handleStats handles the stats command
func (h *Handler) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	guildCount := len(s.State.Guilds)
	latency := s.HeartbeatLatency().Milliseconds()

	// Latency indicator
	latencyStatus := "🟢 Excellent"
	if latency > 200 {
		latencyStatus = "🔴 Poor"
	} else if latency > 100 {
		latencyStatus = "🟡 Moderate"
	}

	playlists := "unavailable"
	if names, err := h.playlistService.ListPlaylists(""); err == nil {
		playlists = fmt.Sprintf("%d", len(names))
	}

	snap := h.playlistService.Snapshot(i.GuildID)

	embed := NewEmbed().
		Title("Bot Statistics").
		Color(ColorPrimary).
		Field("Servers", fmt.Sprintf("%d", guildCount), true).
		Field("Saved Playlists", playlists, true).
		Field("Queue", fmt.Sprintf("%d songs", len(snap.Items)), true).
		Field("Latency", fmt.Sprintf("%dms %s", latency, latencyStatus), true).
		Footer(h.config.BotName).
		Timestamp(time.Now().Format(time.RFC3339)).
		Build()

	return respondEmbed(s, i, embed)
}

// handleHelp handles the help command
func (h *Handler) handleHelp(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	embed := NewEmbed().
		Title(h.config.BotName).
		Color(ColorPrimary).
		Field("Navigation",
			"> **`/nowplaying` - Current song info**\n"+
				"> **`/next` / `/previous` - Move through the queue**\n"+
				"> **`/jump <index>` - Make a song current**\n"+
				"> **`/repeat <mode>` - Off, single track or entire queue**\n"+
				"> **`/random <enabled> [seed]` - Shuffled order**",
			false).
		Field("Queue Management",
			"> **`/queue [page]` - View the queue**\n"+
				"> **`/add <song>` - Add to the end**\n"+
				"> **`/insert <song>` - Add after the current song**\n"+
				"> **`/remove <indexes>` - Move songs to the trash**\n"+
				"> **`/clear` - Move the queue to the trash**\n"+
				"> **`/emptytrash` - Drop the trash**",
			false).
		Field("Playlist Management",
			"> **`/playlists [pattern]` - List saved playlists**\n"+
				"> **`/playlist load/save/delete/show`**\n"+
				"> **`.queue` and `.trash` name the live lists**",
			false).
		Field("Utility",
			"> **`/stats` - Bot statistics**\n"+
				"> **`/help` - Show this help**\n"+
				"> **`/sync` - [Admin] Sync commands**",
			false).
		Footer("Playlist Bot • Built with Go").
		Build()

	return respondEmbed(s, i, embed)
}

// handleSync handles the sync command
func (h *Handler) handleSync(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if !h.isAdmin(i) {
		return h.respondServiceError(s, i, errors.ErrNoPermission)
	}

	if err := deferEphemeral(s, i); err != nil {
		return err
	}

	if err := h.RegisterCommands(); err != nil {
		h.logger.WithError(err).Error("Failed to sync commands")
		return followUpError(s, i, "Failed to sync commands: "+err.Error())
	}

	h.logger.WithField("user", interactionUser(i).Username).Info("Commands manually synced")

	embed := NewEmbed().
		Title("✅ Commands Synchronized").
		Description("All slash commands have been refreshed with Discord").
		Color(ColorSuccess).
		Build()

	return followUpEmbed(s, i, embed)
}
