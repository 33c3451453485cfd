package persistence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	apperrors "github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(t.TempDir(), logger.Nop())
}

func samplePlaylist(name string, ids ...string) *entities.Playlist {
	p := entities.NewPlaylist(name)
	for _, id := range ids {
		p.AddItem(entities.NewPlaylistItem(entities.AudioResource{Type: "youtube", ResourceID: id}))
	}
	return p
}

func TestStoreWriteRead(t *testing.T) {
	store := newTestStore(t)
	p := samplePlaylist("rock", "a", "b")
	p.Owner = "1"

	require.NoError(t, store.Update(func(tx *Tx) error {
		return tx.Write(p)
	}))

	var loaded *entities.Playlist
	require.NoError(t, store.View(func(tx *Tx) error {
		assert.True(t, tx.Exists("rock"))
		var err error
		loaded, err = tx.Read("rock", false)
		return err
	}))
	assert.Equal(t, "1", loaded.Owner)
	assert.Equal(t, 2, loaded.Count())

	// No temp files left behind
	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStoreWriteReplacesContent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Update(func(tx *Tx) error {
		if err := tx.Write(samplePlaylist("rock", "a", "b", "c")); err != nil {
			return err
		}
		return tx.Write(samplePlaylist("rock", "z"))
	}))

	require.NoError(t, store.View(func(tx *Tx) error {
		p, err := tx.Read("rock", false)
		require.NoError(t, err)
		assert.Equal(t, 1, p.Count())
		assert.Equal(t, "z", p.GetResource(0).Resource.ResourceID)
		return nil
	}))
}

func TestStoreReadMissing(t *testing.T) {
	store := newTestStore(t)

	err := store.View(func(tx *Tx) error {
		_, err := tx.Read("nope", false)
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrPlaylistNotFound)

	err = store.View(func(tx *Tx) error {
		_, err := tx.Read("../etc/passwd", false)
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrPlaylistNotFound)
}

func TestStoreViewIsReadOnly(t *testing.T) {
	store := newTestStore(t)

	err := store.View(func(tx *Tx) error {
		return tx.Write(samplePlaylist("x"))
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)

	err = store.View(func(tx *Tx) error {
		return tx.Remove("x")
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
}

func TestStoreWriteUnsafeName(t *testing.T) {
	store := newTestStore(t)
	err := store.Update(func(tx *Tx) error {
		return tx.Write(samplePlaylist("../escape"))
	})
	assert.ErrorIs(t, err, apperrors.ErrUnsafeName)
}

func TestStoreWriteMissingDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"), logger.Nop())
	assert.False(t, store.DirExists())

	err := store.Update(func(tx *Tx) error {
		return tx.Write(samplePlaylist("rock"))
	})
	assert.ErrorIs(t, err, apperrors.ErrNoStoreDirectory)
}

func TestStoreRemove(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Update(func(tx *Tx) error {
		return tx.Write(samplePlaylist("rock"))
	}))

	require.NoError(t, store.Update(func(tx *Tx) error {
		return tx.Remove("rock")
	}))

	err := store.Update(func(tx *Tx) error {
		return tx.Remove("rock")
	})
	assert.ErrorIs(t, err, apperrors.ErrPlaylistNotFound)
}

func TestStoreList(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Update(func(tx *Tx) error {
		for _, name := range []string{"rock", "rap", "jazz"} {
			if err := tx.Write(samplePlaylist(name)); err != nil {
				return err
			}
		}
		return nil
	}))
	require.NoError(t, os.Mkdir(filepath.Join(store.Dir(), "subdir"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), ".hidden"), nil, 0644))

	names, err := store.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{"jazz", "rap", "rock"}, names)

	names, err = store.List("r*")
	require.NoError(t, err)
	assert.Equal(t, []string{"rap", "rock"}, names)
}

func TestStoreListMissingDirectory(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing"), logger.Nop())

	names, err := store.List("")
	require.NoError(t, err)
	assert.Empty(t, names)
}
