// Package settings is the flat key-value preference store.
//
// Keys are namespaced with a slash ("EmbedLegend/Lang") and stored in a TOML
// file as one table per namespace:
//
//	[EmbedLegend]
//	Lang = "id"
package settings

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// generalSection holds keys without a namespace.
const generalSection = "General"

// Store is a file-backed key-value store. Every SetValue writes the file.
type Store struct {
	path string

	mu     sync.Mutex
	values map[string]map[string]string
}

// Open loads the store at path. A missing file yields an empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, values: make(map[string]map[string]string)}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Value returns the value stored under key, or fallback.
func (s *Store) Value(key, fallback string) string {
	section, name := splitKey(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.values[section][name]; ok {
		return v
	}
	return fallback
}

// SetValue stores value under key and persists the store.
func (s *Store) SetValue(key, value string) error {
	section, name := splitKey(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.values[section] == nil {
		s.values[section] = make(map[string]string)
	}
	s.values[section][name] = value
	return s.save()
}

func (s *Store) save() error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s.values); err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace settings: %w", err)
	}
	return nil
}

func splitKey(key string) (string, string) {
	if i := strings.Index(key, "/"); i >= 0 {
		return key[:i], key[i+1:]
	}
	return generalSection, key
}
