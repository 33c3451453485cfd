package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	// Bot Settings
	BotToken    string `yaml:"bot_token" validate:"required,min=50"`
	BotName     string `yaml:"bot_name" default:"Playlist Bot"`
	AdminRoleID string `yaml:"admin_role_id"`

	// Storage
	PlaylistDir string `yaml:"playlist_dir" default:"./playlists" validate:"required"`
	SettingsDB  string `yaml:"settings_db" default:"./data/settings.db" validate:"required"`

	// Logging
	LogLevel  string `yaml:"log_level" default:"info" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `yaml:"log_format" default:"text" validate:"oneof=text json"`
	LogFile   string `yaml:"log_file"`

	// Playlist defaults
	DefaultLoop   string `yaml:"default_loop" default:"off" validate:"oneof=off one all"`
	DefaultRandom bool   `yaml:"default_random"`

	// Performance
	ListCacheSeconds int `yaml:"list_cache_seconds" default:"30" validate:"gte=0"`
	MaxQueueSize     int `yaml:"max_queue_size" default:"500" validate:"gte=0"`

	// Metrics are served on this address when set
	MetricsAddr string `yaml:"metrics_addr"`
}

var validate = validator.New()

// Load reads configuration from CONFIG_FILE (optional) and environment variables
func Load() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadStorage reads configuration for tools that never talk to Discord
func LoadStorage() (*Config, error) {
	cfg, err := read()
	if err != nil {
		return nil, err
	}
	if err := validate.StructExcept(cfg, "BotToken"); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func read() (*Config, error) {
	// Try to load .env file (ignore error if not exists)
	_ = godotenv.Load()

	// File and env values, zeros included, override the tag defaults
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to set defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.overrideFromEnv()

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.DefaultLoop = strings.ToLower(cfg.DefaultLoop)
	return &cfg, nil
}

// overrideFromEnv overrides config values with environment variables
func (c *Config) overrideFromEnv() {
	c.BotToken = getEnvOrDefault("BOT_TOKEN", c.BotToken)
	c.BotName = getEnvOrDefault("BOT_NAME", c.BotName)
	c.AdminRoleID = getEnvOrDefault("ADMIN_ROLE_ID", c.AdminRoleID)

	c.PlaylistDir = getEnvOrDefault("PLAYLIST_DIR", c.PlaylistDir)
	c.SettingsDB = getEnvOrDefault("SETTINGS_DB", c.SettingsDB)

	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)
	c.LogFile = getEnvOrDefault("LOG_FILE", c.LogFile)

	c.DefaultLoop = getEnvOrDefault("DEFAULT_LOOP", c.DefaultLoop)
	c.DefaultRandom = getEnvBool("DEFAULT_RANDOM", c.DefaultRandom)

	c.ListCacheSeconds = getEnvInt("LIST_CACHE_SECONDS", c.ListCacheSeconds)
	c.MaxQueueSize = getEnvInt("MAX_QUEUE_SIZE", c.MaxQueueSize)

	c.MetricsAddr = getEnvOrDefault("METRICS_ADDR", c.MetricsAddr)
}

// Validate checks the struct tags
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// EnsurePlaylistDir creates the playlist directory if needed
func (c *Config) EnsurePlaylistDir() error {
	if err := os.MkdirAll(c.PlaylistDir, 0755); err != nil {
		return fmt.Errorf("failed to create playlist directory: %w", err)
	}
	return nil
}

// ListCacheTTL returns how long playlist listings stay cached
func (c *Config) ListCacheTTL() time.Duration {
	return time.Duration(c.ListCacheSeconds) * time.Second
}

// GetSafeToken returns a masked version of the token for logging
func (c *Config) GetSafeToken() string {
	if len(c.BotToken) < 15 {
		return "***"
	}
	return c.BotToken[:10] + "..." + c.BotToken[len(c.BotToken)-4:]
}

// Helper functions

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultValue
}
