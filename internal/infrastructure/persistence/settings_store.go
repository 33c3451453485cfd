package persistence

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var bucketGuilds = []byte("guilds")

// GuildSettings is the navigation state remembered per guild across restarts
type GuildSettings struct {
	Loop   string `json:"loop"`
	Random bool   `json:"random"`
	Seed   int    `json:"seed"`
}

// SettingsStore persists GuildSettings in a BoltDB file
type SettingsStore struct {
	db *bolt.DB
}

// OpenSettingsStore opens or creates the settings database at path
func OpenSettingsStore(path string) (*SettingsStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create settings directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketGuilds)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &SettingsStore{db: db}, nil
}

func (s *SettingsStore) Close() error {
	return s.db.Close()
}

// Get returns the stored settings for a guild
func (s *SettingsStore) Get(guildID string) (GuildSettings, bool, error) {
	var settings GuildSettings
	found := false

	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketGuilds).Get([]byte(guildID))
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &settings)
	})
	if err != nil {
		return GuildSettings{}, false, fmt.Errorf("failed to read guild settings: %w", err)
	}
	return settings, found, nil
}

// Put stores the settings for a guild
func (s *SettingsStore) Put(guildID string, settings GuildSettings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGuilds).Put([]byte(guildID), data)
	})
}

// Delete forgets a guild
func (s *SettingsStore) Delete(guildID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGuilds).Delete([]byte(guildID))
	})
}
