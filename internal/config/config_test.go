package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"BOT_TOKEN", "BOT_NAME", "ADMIN_ROLE_ID", "PLAYLIST_DIR", "LOG_LEVEL",
		"LOG_FORMAT", "LOG_FILE", "DEFAULT_LOOP", "DEFAULT_RANDOM",
		"LIST_CACHE_SECONDS", "MAX_QUEUE_SIZE", "SETTINGS_DB", "METRICS_ADDR",
		"CONFIG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresToken(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BotToken")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BOT_TOKEN", strings.Repeat("x", 60))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./playlists", cfg.PlaylistDir)
	assert.Equal(t, "off", cfg.DefaultLoop)
	assert.False(t, cfg.DefaultRandom)
	assert.Equal(t, 30*time.Second, cfg.ListCacheTTL())
	assert.Equal(t, 500, cfg.MaxQueueSize)
	assert.Equal(t, "./data/settings.db", cfg.SettingsDB)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestLoadFromFileWithEnvOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "bot_name: File Bot\n" +
		"playlist_dir: /srv/playlists\n" +
		"default_loop: one\n" +
		"max_queue_size: 50\n" +
		"log_level: DEBUG\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("MAX_QUEUE_SIZE", "75")

	cfg, err := LoadStorage()
	require.NoError(t, err)
	assert.Equal(t, "File Bot", cfg.BotName)
	assert.Equal(t, "/srv/playlists", cfg.PlaylistDir)
	assert.Equal(t, "one", cfg.DefaultLoop)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 75, cfg.MaxQueueSize)
	assert.Equal(t, 30, cfg.ListCacheSeconds)
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := LoadStorage()
	assert.Error(t, err)
}

func TestLoadStorageSkipsToken(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Setenv("PLAYLIST_DIR", dir)
	t.Setenv("DEFAULT_LOOP", "ALL")
	t.Setenv("DEFAULT_RANDOM", "yes")

	cfg, err := LoadStorage()
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.PlaylistDir)
	assert.Equal(t, "all", cfg.DefaultLoop)
	assert.True(t, cfg.DefaultRandom)
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"DEFAULT_LOOP", "forever"},
		{"LOG_FORMAT", "xml"},
		{"MAX_QUEUE_SIZE", "-1"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := LoadStorage()
			assert.Error(t, err)
		})
	}
}

func TestGetSafeToken(t *testing.T) {
	cfg := &Config{BotToken: "short"}
	assert.Equal(t, "***", cfg.GetSafeToken())

	cfg.BotToken = "abcdefghijKLMNOPQRSTUVWXYZ1234"
	assert.Equal(t, "abcdefghij...1234", cfg.GetSafeToken())
}

func TestLoadKeepsExplicitZeroFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("MAX_QUEUE_SIZE", "0")
	t.Setenv("LIST_CACHE_SECONDS", "0")

	cfg, err := LoadStorage()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxQueueSize)
	assert.Equal(t, 0, cfg.ListCacheSeconds)
	assert.Equal(t, time.Duration(0), cfg.ListCacheTTL())
	assert.Equal(t, "./playlists", cfg.PlaylistDir)
}

func TestLoadKeepsExplicitZeroFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_queue_size: 0\nlist_cache_seconds: 0\n"), 0644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := LoadStorage()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.MaxQueueSize)
	assert.Equal(t, 0, cfg.ListCacheSeconds)
	assert.Equal(t, "off", cfg.DefaultLoop)
}
