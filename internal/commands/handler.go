package commands

import (
	"fmt"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/vuongmanhnghia/playlist-bot/internal/config"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/internal/metrics"
	"github.com/vuongmanhnghia/playlist-bot/internal/services"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

// Handler manages all bot commands
type Handler struct {
	session         *discordgo.Session
	playlistService *services.PlaylistService
	logger          *logger.Logger
	config          *config.Config
}

// NewHandler creates a new command handler
func NewHandler(
	session *discordgo.Session,
	playlistSvc *services.PlaylistService,
	log *logger.Logger,
	config *config.Config,
) *Handler {
	return &Handler{
		session:         session,
		playlistService: playlistSvc,
		logger:          log,
		config:          config,
	}
}

// RegisterCommands registers all slash commands with Discord
func (h *Handler) RegisterCommands() error {
	commands := GetCommands()

	_, err := h.session.ApplicationCommandBulkOverwrite(h.session.State.User.ID, "", commands)
	if err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	h.logger.WithField("count", len(commands)).Info("✅ All commands registered")
	return nil
}

// HandleInteraction routes incoming interactions to appropriate handlers
func (h *Handler) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	// Panic recovery
	defer func() {
		if r := recover(); r != nil {
			h.logger.WithField("panic", r).Error("Recovered from panic in command handler")
			_ = respondError(s, i, "An internal error occurred")
		}
	}()

	switch i.Type {
	case discordgo.InteractionMessageComponent:
		h.handleButtonInteraction(s, i)
		return
	case discordgo.InteractionApplicationCommandAutocomplete:
		h.handleAutocomplete(s, i)
		return
	case discordgo.InteractionApplicationCommand:
	default:
		return
	}

	if i.GuildID == "" {
		_ = respondError(s, i, "Commands can only be used in a server")
		return
	}

	data := i.ApplicationCommandData()
	start := time.Now()

	h.logger.WithFields(map[string]interface{}{
		"command": data.Name,
		"guild":   i.GuildID,
		"user":    interactionUser(i).Username,
	}).Info("Command received")

	var err error
	switch data.Name {
	// Navigation commands
	case "nowplaying":
		err = h.handleNowPlaying(s, i)
	case "next":
		err = h.handleNavigate(s, i, true)
	case "previous":
		err = h.handleNavigate(s, i, false)
	case "jump":
		err = h.handleJump(s, i)
	case "repeat":
		err = h.handleRepeat(s, i)
	case "random":
		err = h.handleRandom(s, i)

	// Queue commands
	case "queue":
		err = h.handleQueue(s, i)
	case "add":
		err = h.handleAdd(s, i, false)
	case "insert":
		err = h.handleAdd(s, i, true)
	case "remove":
		err = h.handleRemove(s, i)
	case "clear":
		err = h.handleClear(s, i)
	case "emptytrash":
		err = h.handleEmptyTrash(s, i)

	// Playlist commands
	case "playlists":
		err = h.handlePlaylists(s, i)
	case "playlist":
		err = h.handlePlaylistSubcommand(s, i)

	// Utility commands
	case "stats":
		err = h.handleStats(s, i)
	case "help":
		err = h.handleHelp(s, i)
	case "sync":
		err = h.handleSync(s, i)

	default:
		err = respondError(s, i, "Unknown command")
	}

	status := "ok"
	if err != nil {
		status = "error"
		h.logger.WithError(err).WithField("command", data.Name).Error("Command handler failed")
	}
	metrics.CommandsTotal.WithLabelValues(data.Name, status).Inc()
	metrics.CommandDuration.WithLabelValues(data.Name).Observe(time.Since(start).Seconds())
}

// respondServiceError reports a service error to the user. Only the
// Discord response error is returned; the service error is logged.
func (h *Handler) respondServiceError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) error {
	h.logger.WithError(err).WithField("guild", i.GuildID).Debug("Command rejected")
	return respondError(s, i, errors.GetUserMessage(err))
}

// isAdmin reports whether the member has the configured admin role or the
// Administrator permission.
func (h *Handler) isAdmin(i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	if i.Member.Permissions&discordgo.PermissionAdministrator != 0 {
		return true
	}
	return h.config.AdminRoleID != "" && slices.Contains(i.Member.Roles, h.config.AdminRoleID)
}

// interactionUser returns the invoking user in guilds and DMs alike
func interactionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	if i.User != nil {
		return i.User
	}
	return &discordgo.User{}
}

// optionMap indexes command options by name
func optionMap(options []*discordgo.ApplicationCommandInteractionDataOption) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	m := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, opt := range options {
		m[opt.Name] = opt
	}
	return m
}
