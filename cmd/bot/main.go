package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/vuongmanhnghia/playlist-bot/internal/bot"
	"github.com/vuongmanhnghia/playlist-bot/internal/config"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	log.Info("Starting Playlist Bot")
	log.Infof("Bot Name: %s", cfg.BotName)
	log.Infof("Playlist directory: %s", cfg.PlaylistDir)
	log.WithField("token", cfg.GetSafeToken()).Debug("Configuration loaded")

	// Initialize bot
	playlistBot, err := bot.New(cfg, log)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Start bot
	ctx := context.Background()
	if err := playlistBot.Start(ctx); err != nil {
		playlistBot.Stop()
		log.Fatalf("Failed to start bot: %v", err)
	}

	log.Info("✅ Bot is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	// Cleanup
	log.Info("Shutting down gracefully...")
	playlistBot.Stop()
	log.Info("Bot stopped successfully")
}
