// Package filestore keeps a session in a JSON file on disk, the command line
// equivalent of browser local storage.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jrsteele09/go-flight-admin/storage"
)

var _ storage.Store = (*Store)(nil)

// errCorrupt marks a session file that exists but is not a JSON object.
var errCorrupt = errors.New("corrupt session file")

// Store persists key-value pairs in a single JSON document. Every change
// rewrites the file through a temp file and rename, so a crash leaves either
// the old or the new document.
type Store struct {
	mu   sync.Mutex
	path string
}

// New returns a Store backed by the file at path. The file and its parent
// directory are created on first write.
func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath returns ~/.aeroctl/session.json
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("find home directory: %w", err)
	}
	return filepath.Join(home, ".aeroctl", "session.json"), nil
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, values map[string]string, remove ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadForWrite()
	if err != nil {
		return err
	}
	for k, v := range values {
		current[k] = v
	}
	for _, k := range remove {
		delete(current, k)
	}
	return s.save(current)
}

func (s *Store) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.loadForWrite()
	if err != nil {
		return err
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", s.path, err)
		}
		return nil
	}
	return s.save(current)
}

func (s *Store) load() (map[string]string, error) {
	values := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", s.path, errCorrupt, err)
	}
	return values, nil
}

// loadForWrite is load for Set and Remove. A corrupt document is discarded so
// the next write replaces it.
func (s *Store) loadForWrite() (map[string]string, error) {
	values, err := s.load()
	if errors.Is(err, errCorrupt) {
		return make(map[string]string), nil
	}
	return values, err
}

func (s *Store) save(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".session-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
