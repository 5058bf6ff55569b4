// internal/infrastructure/storage/file.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FileSlot persists all keys into a single JSON document on local disk.
// Writes go to a temp file first and are renamed into place.
type FileSlot struct {
	mu   sync.Mutex
	path string
}

// NewFileSlot creates a file-backed slot, creating the parent directory if needed
func NewFileSlot(path string) (*FileSlot, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileSlot{path: path}, nil
}

// Load reads the value stored under key
func (s *FileSlot) Load(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return nil, Unavailable("load", key, err)
	}

	value, ok := values[key]
	if !ok {
		return nil, ErrSlotEmpty
	}
	return []byte(value), nil
}

// Save writes value under key
func (s *FileSlot) Save(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return Unavailable("save", key, err)
	}
	values[key] = string(value)

	if err := s.write(values); err != nil {
		return Unavailable("save", key, err)
	}
	return nil
}

// Delete removes key from the document
func (s *FileSlot) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.read()
	if err != nil {
		return Unavailable("delete", key, err)
	}
	if _, ok := values[key]; !ok {
		return nil
	}
	delete(values, key)

	if err := s.write(values); err != nil {
		return Unavailable("delete", key, err)
	}
	return nil
}

// Health checks that the storage directory is reachable
func (s *FileSlot) Health(context.Context) error {
	_, err := os.Stat(filepath.Dir(s.path))
	return err
}

func (s *FileSlot) Close() error { return nil }

func (s *FileSlot) read() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("corrupt slot file %s: %w", s.path, err)
	}
	return values, nil
}

func (s *FileSlot) write(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".slots-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
