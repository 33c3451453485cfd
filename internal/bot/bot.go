package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/vuongmanhnghia/playlist-bot/internal/commands"
	"github.com/vuongmanhnghia/playlist-bot/internal/config"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
	"github.com/vuongmanhnghia/playlist-bot/internal/infrastructure/persistence"
	"github.com/vuongmanhnghia/playlist-bot/internal/metrics"
	"github.com/vuongmanhnghia/playlist-bot/internal/services"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

// PlaylistBot represents the Discord playlist bot
type PlaylistBot struct {
	config          *config.Config
	logger          *logger.Logger
	session         *discordgo.Session
	settings        *persistence.SettingsStore
	playlistService *services.PlaylistService
	cmdHandler      *commands.Handler
	cancel          context.CancelFunc
}

// New creates a new PlaylistBot instance
func New(cfg *config.Config, log *logger.Logger) (*PlaylistBot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds
	session.StateEnabled = true

	if err := cfg.EnsurePlaylistDir(); err != nil {
		return nil, err
	}
	store := persistence.NewFileStore(cfg.PlaylistDir, log)

	settings, err := persistence.OpenSettingsStore(cfg.SettingsDB)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}

	defaultLoop, err := valueobjects.ParseLoopMode(cfg.DefaultLoop)
	if err != nil {
		settings.Close()
		return nil, err
	}

	playlistService := services.NewPlaylistService(store, settings, services.NewURLResolver(), services.ServiceConfig{
		DefaultLoop:   defaultLoop,
		DefaultRandom: cfg.DefaultRandom,
		ListCacheTTL:  cfg.ListCacheTTL(),
		MaxQueueSize:  cfg.MaxQueueSize,
	}, log)

	cmdHandler := commands.NewHandler(session, playlistService, log, cfg)

	bot := &PlaylistBot{
		config:          cfg,
		logger:          log,
		session:         session,
		settings:        settings,
		playlistService: playlistService,
		cmdHandler:      cmdHandler,
	}

	// Register event handlers
	session.AddHandler(bot.onReady)
	session.AddHandler(cmdHandler.HandleInteraction)
	session.AddHandler(bot.onGuildDelete)

	return bot, nil
}

// Start opens the Discord connection and starts background workers
func (b *PlaylistBot) Start(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)

	b.logger.Info("Starting services...")
	go b.playlistService.RunCacheCleanup(ctx)
	if b.config.MetricsAddr != "" {
		go metrics.Serve(ctx, b.config.MetricsAddr, b.logger)
	}

	b.logger.Info("Opening Discord connection...")
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	// Register commands
	b.logger.Info("Registering slash commands...")
	if err := b.cmdHandler.RegisterCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	return nil
}

// Stop stops the bot gracefully
func (b *PlaylistBot) Stop() {
	b.logger.Info("Shutting down services...")

	if b.cancel != nil {
		b.cancel()
	}

	// Close Discord connection
	b.logger.Info("Closing Discord connection...")
	if err := b.session.Close(); err != nil {
		b.logger.WithError(err).Error("Failed to close Discord session")
	}

	if err := b.settings.Close(); err != nil {
		b.logger.WithError(err).Error("Failed to close settings store")
	}
}

// onReady is called when the bot is ready
func (b *PlaylistBot) onReady(s *discordgo.Session, event *discordgo.Ready) {
	b.logger.Infof("✅ Bot is ready! Logged in as %s", event.User.Username)
	b.logger.Infof("📊 Connected to %d guilds", len(event.Guilds))

	if err := s.UpdateGameStatus(0, "📋 Playlists - /help"); err != nil {
		b.logger.WithError(err).Warn("Failed to update status")
	}
}

// onGuildDelete drops the queue of a guild the bot was removed from
func (b *PlaylistBot) onGuildDelete(s *discordgo.Session, event *discordgo.GuildDelete) {
	// Outages also send GuildDelete, with Unavailable set
	if event.Unavailable {
		return
	}

	b.playlistService.Forget(event.ID)
	if err := b.settings.Delete(event.ID); err != nil {
		b.logger.WithError(err).WithField("guild", event.ID).Warn("Failed to delete guild settings")
	}

	b.logger.WithField("guild", event.ID).Info("Removed from guild")
}
