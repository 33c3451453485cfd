package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
	apperrors "github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/internal/infrastructure/persistence"
	"github.com/vuongmanhnghia/playlist-bot/internal/metrics"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

const testGuild = "guild-1"

func newTestService(t *testing.T, cfg ServiceConfig) (*PlaylistService, *persistence.FileStore) {
	t.Helper()
	store := persistence.NewFileStore(t.TempDir(), logger.Nop())
	return NewPlaylistService(store, nil, NewURLResolver(), cfg, logger.Nop()), store
}

func TestServiceEnqueueAndNavigate(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})

	_, ok := s.Current(testGuild)
	assert.False(t, ok)

	first, pos, err := s.Enqueue(testGuild, "https://youtu.be/abc", false)
	require.NoError(t, err)
	assert.Equal(t, 0, pos)
	assert.Equal(t, valueobjects.ResourceTypeYouTube, first.Resource.Type)

	_, pos, err = s.Enqueue(testGuild, "lofi beats", false)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)

	current, ok := s.Current(testGuild)
	require.True(t, ok)
	assert.Equal(t, "https://youtu.be/abc", current.Resource.ResourceID)

	next, ok := s.Advance(testGuild)
	require.True(t, ok)
	assert.Equal(t, "lofi beats", next.Resource.ResourceID)

	// Loop off: the automatic step past the end stops
	_, ok = s.Advance(testGuild)
	assert.False(t, ok)

	wrapped, ok := s.Navigate(testGuild, true, true)
	require.True(t, ok)
	assert.Equal(t, "https://youtu.be/abc", wrapped.Resource.ResourceID)
}

func TestServiceEnqueueInsertsAfterCurrent(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	for _, q := range []string{"a", "b", "c"} {
		_, _, err := s.Enqueue(testGuild, q, false)
		require.NoError(t, err)
	}

	_, pos, err := s.Enqueue(testGuild, "next up", true)
	require.NoError(t, err)
	assert.Equal(t, 1, pos)
}

func TestServiceEnqueueLimits(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{MaxQueueSize: 2})

	_, _, err := s.Enqueue(testGuild, "   ", false)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, _, err = s.Enqueue(testGuild, "one", false)
	require.NoError(t, err)
	_, _, err = s.Enqueue(testGuild, "two", false)
	require.NoError(t, err)
	_, _, err = s.Enqueue(testGuild, "three", false)
	assert.ErrorIs(t, err, apperrors.ErrQueueFull)
}

func TestServiceGuildsAreIndependent(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	_, _, err := s.Enqueue("a", "song", false)
	require.NoError(t, err)

	_, ok := s.Current("b")
	assert.False(t, ok)

	s.Forget("a")
	_, ok = s.Current("a")
	assert.False(t, ok)
}

func TestServiceJump(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})

	_, err := s.Jump(testGuild, 0)
	assert.ErrorIs(t, err, apperrors.ErrQueueEmpty)

	for _, q := range []string{"a", "b", "c"} {
		_, _, err := s.Enqueue(testGuild, q, false)
		require.NoError(t, err)
	}

	item, err := s.Jump(testGuild, 2)
	require.NoError(t, err)
	assert.Equal(t, "c", item.Resource.ResourceID)

	_, err = s.Jump(testGuild, 3)
	assert.ErrorIs(t, err, apperrors.ErrInvalidPosition)
}

func TestServiceClearQueueMovesToTrash(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	for _, q := range []string{"a", "b"} {
		_, _, err := s.Enqueue(testGuild, q, false)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, s.ClearQueue(testGuild))

	trash, err := s.ShowPlaylist(testGuild, TrashListName, "anyone")
	require.NoError(t, err)
	assert.Equal(t, 2, trash.Count())

	queue, err := s.ShowPlaylist(testGuild, QueueListName, "anyone")
	require.NoError(t, err)
	assert.Equal(t, 0, queue.Count())
}

func TestServiceDefaults(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{DefaultLoop: valueobjects.LoopAll, DefaultRandom: true})

	err := s.Do(testGuild, func(m *PlaylistManager) error {
		assert.Equal(t, valueobjects.LoopAll, m.Loop())
		assert.True(t, m.Random())
		return nil
	})
	require.NoError(t, err)
}

func TestServiceSetRandomWithSeed(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	seed := 42

	assert.Equal(t, 42, s.SetRandom(testGuild, true, &seed))

	err := s.Do(testGuild, func(m *PlaylistManager) error {
		assert.True(t, m.Random())
		assert.Equal(t, 42, m.Seed())
		return nil
	})
	require.NoError(t, err)
}

func TestServiceSettingsSurviveRestart(t *testing.T) {
	dir := t.TempDir()
	store := persistence.NewFileStore(dir, logger.Nop())
	settingsPath := filepath.Join(dir, "data", "settings.db")

	settings, err := persistence.OpenSettingsStore(settingsPath)
	require.NoError(t, err)

	s := NewPlaylistService(store, settings, NewURLResolver(), ServiceConfig{}, logger.Nop())
	seed := 7
	s.SetLoop(testGuild, valueobjects.LoopOne)
	s.SetRandom(testGuild, true, &seed)
	require.NoError(t, settings.Close())

	settings, err = persistence.OpenSettingsStore(settingsPath)
	require.NoError(t, err)
	defer settings.Close()

	restarted := NewPlaylistService(store, settings, NewURLResolver(), ServiceConfig{}, logger.Nop())
	err = restarted.Do(testGuild, func(m *PlaylistManager) error {
		assert.Equal(t, valueobjects.LoopOne, m.Loop())
		assert.True(t, m.Random())
		assert.Equal(t, 7, m.Seed())
		return nil
	})
	require.NoError(t, err)
}

func TestServiceSaveAndLoadQueue(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	for _, q := range []string{"a", "b", "c"} {
		_, _, err := s.Enqueue(testGuild, q, false)
		require.NoError(t, err)
	}

	saved, err := s.SaveQueue(testGuild, "mix", "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", saved.Owner)
	assert.Equal(t, 3, saved.Count())

	_, err = s.SaveQueue(testGuild, "mix", "bob")
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	_, err = s.LoadIntoQueue("other", "mix", "bob")
	assert.ErrorIs(t, err, apperrors.ErrAccessDenied)

	loaded, err := s.LoadIntoQueue("other", "mix", "alice")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Count())

	current, ok := s.Current("other")
	require.True(t, ok)
	assert.Equal(t, "a", current.Resource.ResourceID)
}

func TestServiceLoadQueueIntoItself(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	for _, q := range []string{"a", "b"} {
		_, _, err := s.Enqueue(testGuild, q, false)
		require.NoError(t, err)
	}

	loaded, err := s.LoadIntoQueue(testGuild, QueueListName, "anyone")
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.Count())

	queue, err := s.ShowPlaylist(testGuild, QueueListName, "anyone")
	require.NoError(t, err)
	assert.Equal(t, 2, queue.Count())
}

func TestServiceDeletePlaylist(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	_, _, err := s.Enqueue(testGuild, "a", false)
	require.NoError(t, err)
	_, err = s.SaveQueue(testGuild, "mine", "alice")
	require.NoError(t, err)

	assert.ErrorIs(t, s.DeletePlaylist(testGuild, "mine", "bob", false), apperrors.ErrAccessDenied)
	require.NoError(t, s.DeletePlaylist(testGuild, "mine", "bob", true))

	names, err := s.ListPlaylists("")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestServiceListPlaylistsIsCached(t *testing.T) {
	s, store := newTestService(t, ServiceConfig{})
	_, _, err := s.Enqueue(testGuild, "a", false)
	require.NoError(t, err)
	_, err = s.SaveQueue(testGuild, "first", "")
	require.NoError(t, err)

	names, err := s.ListPlaylists("")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, names)

	// Written behind the service's back, so the cached list is stale
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "second"), []byte("version:2\n\n"), 0644))
	names, err = s.ListPlaylists("")
	require.NoError(t, err)
	assert.Equal(t, []string{"first"}, names)

	_, err = s.SaveQueue(testGuild, "third", "")
	require.NoError(t, err)
	names, err = s.ListPlaylists("")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, names)
}

func TestServiceSuggestPlaylists(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	_, _, err := s.Enqueue(testGuild, "a", false)
	require.NoError(t, err)
	for _, name := range []string{"chill", "chillhop", "metal", "rock"} {
		_, err := s.SaveQueue(testGuild, name, "")
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"chill", "chillhop"}, s.SuggestPlaylists("chill", 5))
	assert.Equal(t, []string{"chill"}, s.SuggestPlaylists("CHILL", 1))
	assert.Equal(t, []string{"chill", "chillhop"}, s.SuggestPlaylists("", 2))
	assert.Empty(t, s.SuggestPlaylists("jazz", 5))
}

func TestServiceRemoveFromQueue(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	for _, q := range []string{"a", "b", "c", "d", "e"} {
		_, _, err := s.Enqueue(testGuild, q, false)
		require.NoError(t, err)
	}
	_, err := s.Jump(testGuild, 3)
	require.NoError(t, err)

	_, err = s.RemoveFromQueue(testGuild, []int{1, 9})
	assert.ErrorIs(t, err, apperrors.ErrInvalidPosition)
	assert.Len(t, s.Snapshot(testGuild).Items, 5)

	removed, err := s.RemoveFromQueue(testGuild, []int{2, 0, 2})
	require.NoError(t, err)
	require.Len(t, removed, 2)
	assert.Equal(t, "a", removed[0].Resource.ResourceID)
	assert.Equal(t, "c", removed[1].Resource.ResourceID)

	snap := s.Snapshot(testGuild)
	assert.Len(t, snap.Items, 3)
	assert.Equal(t, 2, snap.TrashCount)
	assert.Equal(t, "d", snap.Items[snap.Index].Resource.ResourceID)

	assert.Equal(t, 2, s.EmptyTrash(testGuild))
	assert.Equal(t, 0, s.Snapshot(testGuild).TrashCount)
}

func TestServiceSnapshotEmpty(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{DefaultLoop: valueobjects.LoopAll})

	snap := s.Snapshot(testGuild)
	assert.Empty(t, snap.Items)
	assert.Equal(t, -1, snap.Index)
	assert.Equal(t, valueobjects.LoopAll, snap.Loop)
}

func TestServiceRemoveFromQueueByIdentity(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	for _, q := range []string{"a", "b", "c", "d"} {
		_, _, err := s.Enqueue(testGuild, q, false)
		require.NoError(t, err)
	}
	before := s.Snapshot(testGuild).Items

	removed, err := s.RemoveFromQueue(testGuild, []int{3, 1})
	require.NoError(t, err)
	require.Len(t, removed, 2)
	assert.Equal(t, before[1].ID, removed[0].ID)
	assert.Equal(t, before[3].ID, removed[1].ID)

	after := s.Snapshot(testGuild).Items
	require.Len(t, after, 2)
	assert.Equal(t, before[0].ID, after[0].ID)
	assert.Equal(t, before[2].ID, after[1].ID)
}

func TestServiceLogsItemIDs(t *testing.T) {
	log := logger.Nop()
	log.SetLevel(logrus.DebugLevel)
	hook := logtest.NewLocal(log.Logger)

	store := persistence.NewFileStore(t.TempDir(), logger.Nop())
	s := NewPlaylistService(store, nil, NewURLResolver(), ServiceConfig{}, log)

	first, _, err := s.Enqueue(testGuild, "a", false)
	require.NoError(t, err)
	second, _, err := s.Enqueue(testGuild, "b", false)
	require.NoError(t, err)
	_, ok := s.Advance(testGuild)
	require.True(t, ok)

	fieldsFor := func(message string) []interface{} {
		var ids []interface{}
		for _, entry := range hook.AllEntries() {
			if entry.Message == message {
				ids = append(ids, entry.Data["item_id"])
			}
		}
		return ids
	}
	assert.Equal(t, []interface{}{first.ID, second.ID}, fieldsFor("Queued item"))
	assert.Equal(t, []interface{}{second.ID}, fieldsFor("Moved to item"))
}

func TestServiceListPlaylistsReturnsCopies(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{ListCacheTTL: time.Minute})
	_, _, err := s.Enqueue(testGuild, "a", false)
	require.NoError(t, err)
	_, err = s.SaveQueue(testGuild, "mine", "u1")
	require.NoError(t, err)

	names, err := s.ListPlaylists("")
	require.NoError(t, err)
	names[0] = "changed"

	names, err = s.ListPlaylists("")
	require.NoError(t, err)
	assert.Equal(t, []string{"mine"}, names)

	suggested := s.SuggestPlaylists("", 5)
	suggested[0] = "changed"
	assert.Equal(t, []string{"mine"}, s.SuggestPlaylists("", 5))
}

func TestServiceSuggestPlaylistsNegativeLimit(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{})
	_, _, err := s.Enqueue(testGuild, "a", false)
	require.NoError(t, err)
	_, err = s.SaveQueue(testGuild, "mine", "u1")
	require.NoError(t, err)

	assert.Empty(t, s.SuggestPlaylists("", -1))
	assert.Empty(t, s.SuggestPlaylists("mi", -3))
}

func TestServiceListPlaylistsRecordsCacheStats(t *testing.T) {
	s, _ := newTestService(t, ServiceConfig{ListCacheTTL: time.Minute})

	_, err := s.ListPlaylists("")
	require.NoError(t, err)
	_, err = s.ListPlaylists("")
	require.NoError(t, err)

	stat := func(name string) float64 {
		var m dto.Metric
		require.NoError(t, metrics.PlaylistListCacheStats.WithLabelValues(name).Write(&m))
		return m.GetGauge().GetValue()
	}
	assert.Equal(t, 1.0, stat("hits"))
	assert.Equal(t, 1.0, stat("misses"))
	assert.Equal(t, 0.0, stat("evictions"))
	assert.Equal(t, 1.0, stat("size"))
}
