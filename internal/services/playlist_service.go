package services

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/internal/infrastructure/persistence"
	"github.com/vuongmanhnghia/playlist-bot/internal/metrics"
	"github.com/vuongmanhnghia/playlist-bot/internal/utils"
	"github.com/vuongmanhnghia/playlist-bot/internal/validation"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

// ServiceConfig holds the per-guild defaults and limits
type ServiceConfig struct {
	DefaultLoop   valueobjects.LoopMode
	DefaultRandom bool
	ListCacheTTL  time.Duration
	MaxQueueSize  int // 0 means unlimited
}

type guildManager struct {
	mu      sync.Mutex
	manager *PlaylistManager
}

// PlaylistService keeps one PlaylistManager per guild and serialises all
// access to each of them.
type PlaylistService struct {
	store    *persistence.FileStore
	settings *persistence.SettingsStore
	resolver Resolver
	config   ServiceConfig
	logger   *logger.Logger

	listCache *utils.Cache[string, []string]

	mu       sync.Mutex
	managers map[string]*guildManager
}

// NewPlaylistService creates the service. settings may be nil, in which
// case loop and random state are not remembered across restarts.
func NewPlaylistService(
	store *persistence.FileStore,
	settings *persistence.SettingsStore,
	resolver Resolver,
	cfg ServiceConfig,
	log *logger.Logger,
) *PlaylistService {
	return &PlaylistService{
		store:     store,
		settings:  settings,
		resolver:  resolver,
		config:    cfg,
		logger:    log,
		listCache: utils.NewCache[string, []string](64, cfg.ListCacheTTL),
		managers:  make(map[string]*guildManager),
	}
}

func (s *PlaylistService) guild(guildID string) *guildManager {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gm, ok := s.managers[guildID]; ok {
		return gm
	}

	manager := NewPlaylistManager(s.store, s.logger)
	manager.SetLoop(s.config.DefaultLoop)
	manager.SetRandom(s.config.DefaultRandom)
	s.restoreSettings(guildID, manager)

	gm := &guildManager{manager: manager}
	s.managers[guildID] = gm
	metrics.ActiveGuilds.Set(float64(len(s.managers)))

	s.logger.WithField("guild_id", guildID).Debug("Created playlist manager")
	return gm
}

func (s *PlaylistService) restoreSettings(guildID string, manager *PlaylistManager) {
	if s.settings == nil {
		return
	}
	stored, found, err := s.settings.Get(guildID)
	if err != nil {
		s.logger.WithError(err).WithField("guild_id", guildID).Warn("Failed to read guild settings")
		return
	}
	if !found {
		return
	}

	if mode, err := valueobjects.ParseLoopMode(stored.Loop); err == nil {
		manager.SetLoop(mode)
	}
	manager.SetRandom(stored.Random)
	manager.SetSeed(stored.Seed)
}

func (s *PlaylistService) saveSettings(guildID string, manager *PlaylistManager) {
	if s.settings == nil {
		return
	}
	err := s.settings.Put(guildID, persistence.GuildSettings{
		Loop:   manager.Loop().String(),
		Random: manager.Random(),
		Seed:   manager.Seed(),
	})
	if err != nil {
		s.logger.WithError(err).WithField("guild_id", guildID).Warn("Failed to store guild settings")
	}
}

// Do runs fn with exclusive access to the guild's manager
func (s *PlaylistService) Do(guildID string, fn func(m *PlaylistManager) error) error {
	gm := s.guild(guildID)
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return fn(gm.manager)
}

// Forget drops the guild's manager and its queue
func (s *PlaylistService) Forget(guildID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.managers, guildID)
	metrics.ActiveGuilds.Set(float64(len(s.managers)))
}

// Current returns a copy of the current item
func (s *PlaylistService) Current(guildID string) (*entities.PlaylistItem, bool) {
	var item *entities.PlaylistItem
	s.Do(guildID, func(m *PlaylistManager) error {
		item = copyItem(m.Current())
		return nil
	})
	return item, item != nil
}

// Navigate steps the queue and returns a copy of the new current item
func (s *PlaylistService) Navigate(guildID string, forward, manually bool) (*entities.PlaylistItem, bool) {
	var item *entities.PlaylistItem
	s.Do(guildID, func(m *PlaylistManager) error {
		if forward {
			item = copyItem(m.Next(manually))
		} else {
			item = copyItem(m.Previous(manually))
		}
		return nil
	})

	direction, trigger := "next", "auto"
	if !forward {
		direction = "previous"
	}
	if manually {
		trigger = "manual"
	}
	metrics.NavigationTotal.WithLabelValues(direction, trigger).Inc()
	if item == nil && !manually {
		metrics.QueueEndedTotal.Inc()
	}
	return item, item != nil
}

// Advance is called by the player when a track finishes
func (s *PlaylistService) Advance(guildID string) (*entities.PlaylistItem, bool) {
	return s.Navigate(guildID, true, false)
}

// Jump makes the item at index current
func (s *PlaylistService) Jump(guildID string, index int) (*entities.PlaylistItem, error) {
	var item *entities.PlaylistItem
	err := s.Do(guildID, func(m *PlaylistManager) error {
		if m.Count() == 0 {
			return errors.ErrQueueEmpty
		}
		if index < 0 || index >= m.Count() {
			return fmt.Errorf("%w: must be between 1 and %d", errors.ErrInvalidPosition, m.Count())
		}
		m.SetIndex(index)
		item = copyItem(m.Current())
		return nil
	})
	return item, err
}

// Enqueue resolves query and appends it to the queue, or inserts it after
// the current item. It returns the new item and its index.
func (s *PlaylistService) Enqueue(guildID, query string, insert bool) (*entities.PlaylistItem, int, error) {
	resource, err := s.resolver.Resolve(query)
	if err != nil {
		return nil, -1, err
	}

	item := entities.NewPlaylistItem(resource)
	position := -1
	err = s.Do(guildID, func(m *PlaylistManager) error {
		if s.config.MaxQueueSize > 0 && m.Count() >= s.config.MaxQueueSize {
			return errors.ErrQueueFull
		}
		if insert {
			position = m.InsertToFreelist(item)
		} else {
			position = m.AddToFreelist(item)
		}
		return nil
	})
	if err != nil {
		return nil, -1, err
	}

	s.logger.WithFields(map[string]interface{}{
		"guild_id": guildID,
		"item_id":  item.ID,
		"type":     resource.Type,
		"position": position,
	}).Debug("Queued item")
	return copyItem(item), position, nil
}

// ClearQueue moves every queued item into the trash and returns how many
func (s *PlaylistService) ClearQueue(guildID string) int {
	moved := 0
	s.Do(guildID, func(m *PlaylistManager) error {
		items := m.Freelist().Items()
		m.ClearFreelist()
		m.AddRangeToTrash(items)
		moved = len(items)
		return nil
	})
	return moved
}

// RemoveFromQueue moves the items at the given indexes into the trash. All
// indexes are checked before anything is removed.
func (s *PlaylistService) RemoveFromQueue(guildID string, indexes []int) ([]*entities.PlaylistItem, error) {
	var removed []*entities.PlaylistItem
	err := s.Do(guildID, func(m *PlaylistManager) error {
		for _, index := range indexes {
			if err := validation.ValidateQueuePosition(index, m.Count()); err != nil {
				return err
			}
		}

		ordered := slices.Clone(indexes)
		slices.Sort(ordered)
		ordered = slices.Compact(ordered)

		// Resolve to IDs first; every removal shifts the later positions
		ids := make([]uuid.UUID, 0, len(ordered))
		for _, index := range ordered {
			ids = append(ids, m.Freelist().GetResource(index).ID)
		}

		for _, id := range ids {
			item, err := m.RemoveFromFreelist(m.Freelist().IndexOf(id))
			if err != nil {
				return err
			}
			s.logger.WithFields(map[string]interface{}{
				"guild_id": guildID,
				"item_id":  item.ID,
			}).Debug("Moved item to trash")
			removed = append(removed, copyItem(item))
		}
		return nil
	})
	return removed, err
}

// EmptyTrash drops everything in the trash list and returns how many
func (s *PlaylistService) EmptyTrash(guildID string) int {
	count := 0
	s.Do(guildID, func(m *PlaylistManager) error {
		count = m.Trash().Count()
		m.ClearTrash()
		return nil
	})
	return count
}

// QueueSnapshot is a point-in-time copy of a guild's queue state
type QueueSnapshot struct {
	Items      []*entities.PlaylistItem
	Index      int
	Loop       valueobjects.LoopMode
	Random     bool
	Seed       int
	TrashCount int
}

// Snapshot copies the guild's queue for display
func (s *PlaylistService) Snapshot(guildID string) QueueSnapshot {
	var snap QueueSnapshot
	s.Do(guildID, func(m *PlaylistManager) error {
		snap.Index = -1
		if m.Current() != nil {
			snap.Index = m.Index()
		}
		for _, item := range m.Freelist().Items() {
			snap.Items = append(snap.Items, copyItem(item))
		}
		snap.Loop = m.Loop()
		snap.Random = m.Random()
		snap.Seed = m.Seed()
		snap.TrashCount = m.Trash().Count()
		return nil
	})
	return snap
}

// SetLoop changes and remembers the guild's loop mode
func (s *PlaylistService) SetLoop(guildID string, mode valueobjects.LoopMode) {
	s.Do(guildID, func(m *PlaylistManager) error {
		m.SetLoop(mode)
		s.saveSettings(guildID, m)
		return nil
	})
}

// SetRandom toggles shuffled order, optionally with a fixed seed, and
// returns the seed in use.
func (s *PlaylistService) SetRandom(guildID string, enabled bool, seed *int) int {
	var used int
	s.Do(guildID, func(m *PlaylistManager) error {
		m.SetRandom(enabled)
		if seed != nil {
			m.SetSeed(*seed)
		}
		used = m.Seed()
		s.saveSettings(guildID, m)
		return nil
	})
	return used
}

// LoadIntoQueue replaces the queue with a stored playlist the requester may read
func (s *PlaylistService) LoadIntoQueue(guildID, name, requester string) (*entities.Playlist, error) {
	var playlist *entities.Playlist
	err := s.Do(guildID, func(m *PlaylistManager) error {
		loaded, err := m.LoadPlaylistChecked(name, requester)
		if err != nil {
			return err
		}
		// Copy first; loading .queue would otherwise clear its own source
		playlist = loaded.Clone()
		return m.PlayFreelist(playlist)
	})
	metrics.PlaylistOperationsTotal.WithLabelValues("load", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// ShowPlaylist returns a copy of a stored or reserved playlist
func (s *PlaylistService) ShowPlaylist(guildID, name, requester string) (*entities.Playlist, error) {
	var playlist *entities.Playlist
	err := s.Do(guildID, func(m *PlaylistManager) error {
		loaded, err := m.LoadPlaylistChecked(name, requester)
		if err != nil {
			return err
		}
		playlist = loaded.Clone()
		return nil
	})
	return playlist, err
}

// SaveQueue stores the current queue as a playlist owned by owner
func (s *PlaylistService) SaveQueue(guildID, name, owner string) (*entities.Playlist, error) {
	var playlist *entities.Playlist
	err := s.Do(guildID, func(m *PlaylistManager) error {
		playlist = m.Freelist().Clone()
		playlist.Name = name
		playlist.Owner = owner
		return m.SavePlaylist(playlist, false)
	})
	metrics.PlaylistOperationsTotal.WithLabelValues("save", metrics.Result(err)).Inc()
	if err != nil {
		return nil, err
	}
	s.listCache.Clear()
	return playlist, nil
}

// DeletePlaylist removes a stored playlist
func (s *PlaylistService) DeletePlaylist(guildID, name, requester string, force bool) error {
	err := s.Do(guildID, func(m *PlaylistManager) error {
		return m.DeletePlaylist(name, requester, force)
	})
	metrics.PlaylistOperationsTotal.WithLabelValues("delete", metrics.Result(err)).Inc()
	if err != nil {
		return err
	}
	s.listCache.Clear()
	return nil
}

// ListPlaylists returns stored playlist names, cached for a short time
func (s *PlaylistService) ListPlaylists(pattern string) ([]string, error) {
	if names, ok := s.listCache.Get(pattern); ok {
		metrics.PlaylistListCacheTotal.WithLabelValues("hit").Inc()
		s.recordCacheStats()
		return slices.Clone(names), nil
	}
	metrics.PlaylistListCacheTotal.WithLabelValues("miss").Inc()

	names, err := s.store.List(pattern)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list playlists")
		return nil, err
	}
	s.listCache.Set(pattern, names)
	s.recordCacheStats()
	return slices.Clone(names), nil
}

// SuggestPlaylists returns up to limit stored names that fuzzy-match query,
// best match first.
func (s *PlaylistService) SuggestPlaylists(query string, limit int) []string {
	limit = max(limit, 0)
	names, err := s.ListPlaylists("")
	if err != nil {
		return nil
	}

	if query == "" {
		return names[:min(limit, len(names))]
	}

	ranks := fuzzy.RankFindFold(query, names)
	sort.Sort(ranks)

	result := make([]string, 0, min(limit, len(ranks)))
	for _, r := range ranks {
		if len(result) == limit {
			break
		}
		result = append(result, r.Target)
	}
	return result
}

func (s *PlaylistService) recordCacheStats() {
	hits, misses, evictions, size := s.listCache.Stats()
	metrics.PlaylistListCacheStats.WithLabelValues("hits").Set(float64(hits))
	metrics.PlaylistListCacheStats.WithLabelValues("misses").Set(float64(misses))
	metrics.PlaylistListCacheStats.WithLabelValues("evictions").Set(float64(evictions))
	metrics.PlaylistListCacheStats.WithLabelValues("size").Set(float64(size))
}

// RunCacheCleanup drops expired listing cache entries until ctx is done
func (s *PlaylistService) RunCacheCleanup(ctx context.Context) {
	if s.config.ListCacheTTL <= 0 {
		return
	}
	s.listCache.StartCleanupWorker(ctx, s.config.ListCacheTTL)
}

func copyItem(item *entities.PlaylistItem) *entities.PlaylistItem {
	if item == nil {
		return nil
	}
	cp := *item
	return &cp
}
