package persistence

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/vuongmanhnghia/playlist-bot/internal/domain/entities"
	"github.com/vuongmanhnghia/playlist-bot/internal/errors"
	"github.com/vuongmanhnghia/playlist-bot/internal/validation"
	"github.com/vuongmanhnghia/playlist-bot/pkg/logger"
)

// FileStore keeps one playlist file per name in a single directory.
//
// View and Update run a function under a shared or exclusive store lock so
// that an ownership check and the write or delete that depends on it cannot
// interleave with another Update in this process.
type FileStore struct {
	dir    string
	logger *logger.Logger
	mu     sync.RWMutex
}

// NewFileStore creates a store over dir. The directory is not created.
func NewFileStore(dir string, log *logger.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: log,
	}
}

// Dir returns the storage directory
func (s *FileStore) Dir() string {
	return s.dir
}

// DirExists reports whether the storage directory exists
func (s *FileStore) DirExists() bool {
	info, err := os.Stat(s.dir)
	return err == nil && info.IsDir()
}

// View runs fn with read access
func (s *FileStore) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&Tx{store: s})
}

// Update runs fn with exclusive read/write access
func (s *FileStore) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Tx{store: s, writable: true})
}

// List returns the playlist file names matching pattern (all when empty).
// A missing directory yields an empty list.
func (s *FileStore) List(pattern string) ([]string, error) {
	if pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
		}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	files, err := os.ReadDir(s.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read playlist directory: %w", err)
	}

	names := make([]string, 0, len(files))
	for _, file := range files {
		name := file.Name()
		if file.IsDir() || !validation.IsSafeFileName(name) {
			continue
		}
		if pattern != "" {
			if ok, _ := filepath.Match(pattern, name); !ok {
				continue
			}
		}
		names = append(names, name)
	}
	return names, nil
}

// Tx is valid only inside the View or Update call that created it
type Tx struct {
	store    *FileStore
	writable bool
}

func (tx *Tx) path(name string) (string, bool) {
	if !validation.IsSafeFileName(name) {
		return "", false
	}
	return filepath.Join(tx.store.dir, name), true
}

// Exists reports whether a playlist file with this name exists
func (tx *Tx) Exists(name string) bool {
	path, ok := tx.path(name)
	if !ok {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Read loads and decodes a playlist file
func (tx *Tx) Read(name string, headOnly bool) (*entities.Playlist, error) {
	path, ok := tx.path(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", errors.ErrPlaylistNotFound, name)
	}

	file, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", errors.ErrPlaylistNotFound, name)
		}
		return nil, fmt.Errorf("failed to open playlist file: %w", err)
	}
	defer file.Close()

	return Decode(file, name, headOnly, tx.store.logger)
}

// Write replaces the playlist file atomically using a temp file and rename
func (tx *Tx) Write(playlist *entities.Playlist) error {
	if !tx.writable {
		return fmt.Errorf("%w: write in read-only transaction", errors.ErrInvalidArgument)
	}
	if playlist == nil {
		return fmt.Errorf("%w: nil playlist", errors.ErrInvalidArgument)
	}
	path, ok := tx.path(playlist.Name)
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrUnsafeName, playlist.Name)
	}

	file, err := os.CreateTemp(tx.store.dir, "."+playlist.Name+".*.tmp")
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.ErrNoStoreDirectory
		}
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := file.Name()

	if err := Encode(file, playlist); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Rename for atomicity
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Remove deletes a playlist file, mapping OS failures to storage errors
func (tx *Tx) Remove(name string) error {
	if !tx.writable {
		return fmt.Errorf("%w: remove in read-only transaction", errors.ErrInvalidArgument)
	}
	path, ok := tx.path(name)
	if !ok {
		return fmt.Errorf("%w: %q", errors.ErrPlaylistNotFound, name)
	}

	err := os.Remove(path)
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %q", errors.ErrPlaylistNotFound, name)
	case stderrors.Is(err, fs.ErrPermission):
		tx.store.logger.WithError(err).WithField("playlist", name).Warn("Missing permission to delete playlist")
		return fmt.Errorf("%w: %v", errors.ErrIOMissingPermission, err)
	default:
		tx.store.logger.WithError(err).WithField("playlist", name).Warn("Failed to delete playlist")
		return fmt.Errorf("%w: %v", errors.ErrIOInUse, err)
	}
}
