package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/filterline/internal/model"
)

// HistoryStore persists and retrieves recently used patterns.
type HistoryStore interface {
	Load() ([]m.HistoryEntry, error)
	Add(entry m.HistoryEntry) error
	Clear() error
}

type historyFile struct {
	Version int              `yaml:"version"`
	Entries []m.HistoryEntry `yaml:"entries"`
}

const historyFileVersion = 1

// LocalHistoryStore keeps history in a YAML file, newest entry first.
type LocalHistoryStore struct {
	fs    afero.Fs
	path  string
	limit int
}

// NewHistoryStore constructs a store writing to path on the OS filesystem,
// keeping at most limit entries.
func NewHistoryStore(path string, limit int) *LocalHistoryStore {
	return NewHistoryStoreFs(afero.NewOsFs(), path, limit)
}

// NewHistoryStoreFs constructs a store over an arbitrary afero.Fs.
func NewHistoryStoreFs(fs afero.Fs, path string, limit int) *LocalHistoryStore {
	if limit <= 0 {
		limit = 1
	}

	return &LocalHistoryStore{fs: fs, path: path, limit: limit}
}

// Load returns the stored entries. A missing file is an empty history.
func (s *LocalHistoryStore) Load() ([]m.HistoryEntry, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []m.HistoryEntry{}, nil
		}

		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	var file historyFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode history %s: %w", s.path, err)
	}

	if len(file.Entries) > s.limit {
		file.Entries = file.Entries[:s.limit]
	}

	return file.Entries, nil
}

// Add records entry as the most recent one, dropping an older duplicate and
// trimming the list to the configured limit.
func (s *LocalHistoryStore) Add(entry m.HistoryEntry) error {
	entries, err := s.Load()
	if err != nil {
		return err
	}

	updated := make([]m.HistoryEntry, 0, len(entries)+1)
	updated = append(updated, entry)

	for _, existing := range entries {
		if existing.Polarity == entry.Polarity && existing.Value == entry.Value && existing.IgnoreCase == entry.IgnoreCase {
			continue
		}

		updated = append(updated, existing)
	}

	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}

	return s.save(updated)
}

// Clear deletes all stored history.
func (s *LocalHistoryStore) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to clear history: %w", err)
	}

	return nil
}

// save writes entries through a temp file in the same directory and renames
// it over the history file.
func (s *LocalHistoryStore) save(entries []m.HistoryEntry) error {
	data, err := yaml.Marshal(historyFile{Version: historyFileVersion, Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create history dir: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".history-*")
	if err != nil {
		return fmt.Errorf("failed to create history temp file: %w", err)
	}

	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpPath)

		return fmt.Errorf("failed to write history: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpPath)

		return fmt.Errorf("failed to write history: %w", err)
	}

	if err := s.fs.Rename(tmpPath, s.path); err != nil {
		_ = s.fs.Remove(tmpPath)

		return fmt.Errorf("failed to replace history: %w", err)
	}

	return nil
}
