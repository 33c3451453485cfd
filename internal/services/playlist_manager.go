package services

import (
	stderrors "errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/shuffle"
	"github.com/vuongmanhnghia/playlist-bot/internal/domain/valueobjects"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/internal/infrastructure/persistence"
	"github.com/vuongmanhnghia/playlist-bot/internal/validation"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

// Reserved names that resolve to the in-memory lists
const (
	QueueListName = ".queue"
	TrashListName = ".trash"
)

const fallbackPlaylistName = "playlist"

var cleanseNamePattern = regexp.MustCompile(`[^\p{L}\p{Mn}\p{Nd}\p{Pc}-]`)

// PlaylistManager owns the free list (the queue), the trash list and the
// navigation state, and reads and writes named playlists in a FileStore.
//
// It is not safe for concurrent use; PlaylistService serialises access.
type PlaylistManager struct {
	store  *persistence.FileStore
	logger *logger.Logger

	freeList *entities.Playlist
	trash    *entities.Playlist

	normal  *shuffle.NormalOrder
	lfsr    *shuffle.LFSR
	shuffle shuffle.Algorithm
	random  bool
	loop    valueobjects.LoopMode

	newSeed func() int
}

// NewPlaylistManager creates a manager with empty lists, in order, loop off
func NewPlaylistManager(store *persistence.FileStore, log *logger.Logger) *PlaylistManager {
	normal := shuffle.NewNormalOrder()
	return &PlaylistManager{
		store:    store,
		logger:   log,
		freeList: entities.NewPlaylist(""),
		trash:    entities.NewPlaylist(""),
		normal:   normal,
		lfsr:     shuffle.NewLFSR(),
		shuffle:  normal,
		loop:     valueobjects.LoopOff,
		newSeed:  func() int { return int(rand.Int32()) },
	}
}

// Index returns the current position in the free list
func (m *PlaylistManager) Index() int {
	return m.shuffle.Index()
}

// SetIndex moves to index; out of range values are wrapped on next use
func (m *PlaylistManager) SetIndex(index int) {
	m.shuffle.SetIndex(index)
}

// Random reports whether the queue is walked in pseudo-random order
func (m *PlaylistManager) Random() bool {
	return m.random
}

// SetRandom swaps the sequencing algorithm, keeping the current index
func (m *PlaylistManager) SetRandom(random bool) {
	index := m.shuffle.Index()
	wasRandom := m.random

	m.random = random
	if random {
		m.shuffle = m.lfsr
	} else {
		m.shuffle = m.normal
	}
	m.shuffle.SetLength(m.freeList.Count())
	m.shuffle.SetIndex(index)

	if random && !wasRandom {
		m.setRandomSeed()
	}
}

// Seed returns the seed of the active algorithm
func (m *PlaylistManager) Seed() int {
	return m.shuffle.Seed()
}

// SetSeed reseeds the active algorithm
func (m *PlaylistManager) SetSeed(seed int) {
	m.shuffle.SetSeed(seed)
}

// Loop returns the loop mode
func (m *PlaylistManager) Loop() valueobjects.LoopMode {
	return m.loop
}

// SetLoop sets the loop mode
func (m *PlaylistManager) SetLoop(mode valueobjects.LoopMode) {
	m.loop = mode
}

// Current returns the item at the current index, or nil for an empty queue
func (m *PlaylistManager) Current() *entities.PlaylistItem {
	if !m.normalize() {
		return nil
	}
	return m.freeList.GetResource(m.shuffle.Index())
}

// Next advances the queue. Manual calls always wrap around; automatic calls
// repeat the current item in loop one mode and stop at the end in loop off
// mode.
func (m *PlaylistManager) Next(manually bool) *entities.PlaylistItem {
	return m.moveIndex(true, manually)
}

// Previous steps back in the queue with the same rules as Next
func (m *PlaylistManager) Previous(manually bool) *entities.PlaylistItem {
	return m.moveIndex(false, manually)
}

func (m *PlaylistManager) moveIndex(forward, manually bool) *entities.PlaylistItem {
	if !m.normalize() {
		return nil
	}

	// Loop one only holds automatic advancement
	if m.loop == valueobjects.LoopOne && !manually {
		return m.freeList.GetResource(m.shuffle.Index())
	}

	before := m.shuffle.Index()
	var ended bool
	if forward {
		ended = m.shuffle.Next()
	} else {
		ended = m.shuffle.Prev()
	}

	// New permutation for every full pass
	if ended && m.random {
		m.setRandomSeed()
	}

	if ended && m.loop == valueobjects.LoopOff && !manually {
		m.shuffle.SetIndex(before)
		m.logger.WithField("index", before).Debug("Queue ended")
		return nil
	}

	entry := m.freeList.GetResource(m.shuffle.Index())
	if entry != nil {
		entry.Meta.FromPlaylist = true
		m.logger.WithFields(map[string]interface{}{
			"index":   m.shuffle.Index(),
			"item_id": entry.ID,
		}).Debug("Moved to item")
	}
	return entry
}

func (m *PlaylistManager) setRandomSeed() {
	m.shuffle.SetSeed(m.newSeed())
}

// normalize syncs the algorithm with the free list, which may have changed
// since the last call. It returns false for an empty list.
func (m *PlaylistManager) normalize() bool {
	count := m.freeList.Count()
	if count == 0 {
		return false
	}

	if m.shuffle.Length() != count {
		m.shuffle.SetLength(count)
	}

	if index := m.shuffle.Index(); index < 0 || index >= count {
		m.shuffle.SetIndex(shuffle.MathMod(index, count))
	}
	return true
}

// PlayFreelist replaces the queue with copies of the playlist's items and
// starts from the first item.
func (m *PlaylistManager) PlayFreelist(playlist *entities.Playlist) error {
	if playlist == nil {
		return fmt.Errorf("%w: nil playlist", errors.ErrInvalidArgument)
	}

	items := playlist.Clone().Items()
	m.freeList.Clear()
	m.freeList.AddRange(items)

	m.normalize()
	if m.random {
		m.setRandomSeed()
	}
	m.shuffle.SetIndex(0)
	return nil
}

// AddToFreelist appends an item to the queue and returns its index
func (m *PlaylistManager) AddToFreelist(item *entities.PlaylistItem) int {
	return m.freeList.AddItem(item)
}

// AddRangeToFreelist appends items to the queue
func (m *PlaylistManager) AddRangeToFreelist(items []*entities.PlaylistItem) {
	m.freeList.AddRange(items)
}

// InsertToFreelist inserts an item right after the current one
func (m *PlaylistManager) InsertToFreelist(item *entities.PlaylistItem) int {
	return m.freeList.InsertItem(item, min(m.shuffle.Index()+1, m.freeList.Count()))
}

// AddToTrash appends an item to the trash list and returns its index
func (m *PlaylistManager) AddToTrash(item *entities.PlaylistItem) int {
	return m.trash.AddItem(item)
}

// AddRangeToTrash appends items to the trash list
func (m *PlaylistManager) AddRangeToTrash(items []*entities.PlaylistItem) {
	m.trash.AddRange(items)
}

// RemoveFromFreelist moves the item at index into the trash list. The
// current item stays current when an earlier item is removed.
func (m *PlaylistManager) RemoveFromFreelist(index int) (*entities.PlaylistItem, error) {
	if err := validation.ValidateQueuePosition(index, m.freeList.Count()); err != nil {
		return nil, err
	}

	current := m.shuffle.Index()
	item, _ := m.freeList.RemoveItem(index)
	item.Meta = entities.ItemMeta{}
	m.trash.AddItem(item)

	if index < current {
		m.shuffle.SetIndex(current - 1)
	}
	return item, nil
}

// ClearFreelist removes every item from the queue
func (m *PlaylistManager) ClearFreelist() {
	m.freeList.Clear()
}

// ClearTrash removes every item from the trash list
func (m *PlaylistManager) ClearTrash() {
	m.trash.Clear()
}

// Freelist returns the live queue
func (m *PlaylistManager) Freelist() *entities.Playlist {
	return m.freeList
}

// Trash returns the live trash list
func (m *PlaylistManager) Trash() *entities.Playlist {
	return m.trash
}

// Count returns the queue length
func (m *PlaylistManager) Count() int {
	return m.freeList.Count()
}

// LoadPlaylist reads a named playlist. Names starting with a dot resolve to
// the in-memory lists instead of files.
func (m *PlaylistManager) LoadPlaylist(name string, headOnly bool) (*entities.Playlist, error) {
	if strings.HasPrefix(name, ".") {
		return m.specialPlaylist(name)
	}

	var playlist *entities.Playlist
	err := m.store.View(func(tx *persistence.Tx) error {
		var err error
		playlist, err = tx.Read(name, headOnly)
		return err
	})
	if err != nil {
		return nil, err
	}
	return playlist, nil
}

// LoadPlaylistChecked reads a named playlist and refuses one owned by
// someone other than requester.
func (m *PlaylistManager) LoadPlaylistChecked(name, requester string) (*entities.Playlist, error) {
	playlist, err := m.LoadPlaylist(name, false)
	if err != nil {
		return nil, err
	}
	if playlist.HasOwner() && playlist.Owner != requester {
		return nil, fmt.Errorf("%w: %q", errors.ErrAccessDenied, name)
	}
	return playlist, nil
}

func (m *PlaylistManager) specialPlaylist(name string) (*entities.Playlist, error) {
	switch name {
	case QueueListName:
		return m.freeList, nil
	case TrashListName:
		return m.trash, nil
	}
	return nil, fmt.Errorf("%w: %q", errors.ErrSpecialPlaylistNotFound, name)
}

// checkOwner reads only the header of an existing file and fails unless it
// has no owner or is owned by requester.
func checkOwner(tx *persistence.Tx, name, requester string) error {
	head, err := tx.Read(name, true)
	if err != nil {
		if stderrors.Is(err, errors.ErrBrokenFile) {
			return err
		}
		return fmt.Errorf("%w: %v", errors.ErrBrokenFile, err)
	}
	if head.HasOwner() && head.Owner != requester {
		return fmt.Errorf("%w: %q", errors.ErrAccessDenied, name)
	}
	return nil
}

// SavePlaylist writes the playlist under its name. An existing file owned
// by someone other than playlist.Owner is only replaced when forced.
func (m *PlaylistManager) SavePlaylist(playlist *entities.Playlist, force bool) error {
	if playlist == nil {
		return fmt.Errorf("%w: nil playlist", errors.ErrInvalidArgument)
	}
	if !validation.IsSafeFileName(playlist.Name) {
		return fmt.Errorf("%w: %q", errors.ErrUnsafeName, playlist.Name)
	}
	if !m.store.DirExists() {
		return errors.ErrNoStoreDirectory
	}

	err := m.store.Update(func(tx *persistence.Tx) error {
		if !force && tx.Exists(playlist.Name) {
			if err := checkOwner(tx, playlist.Name, playlist.Owner); err != nil {
				return err
			}
		}
		return tx.Write(playlist)
	})
	if err != nil {
		return err
	}

	m.logger.WithFields(map[string]interface{}{
		"playlist": playlist.Name,
		"items":    playlist.Count(),
	}).Info("Playlist saved")
	return nil
}

// DeletePlaylist removes a playlist file. Unless forced, only the owner may
// delete an owned playlist.
func (m *PlaylistManager) DeletePlaylist(name, requester string, force bool) error {
	err := m.store.Update(func(tx *persistence.Tx) error {
		if !tx.Exists(name) {
			return fmt.Errorf("%w: %q", errors.ErrPlaylistNotFound, name)
		}
		if !force {
			if err := checkOwner(tx, name, requester); err != nil {
				return err
			}
		}
		return tx.Remove(name)
	})
	if err != nil {
		return err
	}

	m.logger.WithFields(map[string]interface{}{
		"playlist": name,
		"forced":   force,
	}).Info("Playlist deleted")
	return nil
}

// GetAvailablePlaylists lists stored playlist names matching a glob pattern
func (m *PlaylistManager) GetAvailablePlaylists(pattern string) ([]string, error) {
	return m.store.List(pattern)
}

// CleanseName turns arbitrary input into a safe playlist file name
func CleanseName(name string) string {
	if name == "" {
		return fallbackPlaylistName
	}
	if utf8.RuneCountInString(name) >= validation.MaxPlaylistNameLength+1 {
		name = string([]rune(name)[:validation.MaxPlaylistNameLength])
	}
	name = cleanseNamePattern.ReplaceAllString(name, "")
	if !validation.IsSafeFileName(name) {
		return fallbackPlaylistName
	}
	return name
}
