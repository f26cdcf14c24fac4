package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"cron-editor/internal/domain"
)

// FileRepository implements domain.ValueRepository using a JSON file.
// This is a secondary adapter.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository creates a new file-based value repository.
func NewFileRepository(path string) (*FileRepository, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	return &FileRepository{path: path}, nil
}

// persistedData represents the JSON structure on disk.
type persistedData struct {
	Values map[string]string `json:"values"`
}

// Load returns the persisted expression for key, or "" if none was saved.
func (f *FileRepository) Load(key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return "", err
	}
	return data.Values[key], nil
}

// Save persists the expression for key.
func (f *FileRepository) Save(key, value string) error {
	if key == "" {
		return domain.ErrEmptyKey
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return err
	}
	if data.Values[key] == value {
		return nil
	}
	data.Values[key] = value
	return f.write(data)
}

// Keys lists the persisted keys in sorted order.
func (f *FileRepository) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.read()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(data.Values))
	for k := range data.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *FileRepository) read() (persistedData, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return persistedData{Values: map[string]string{}}, nil
		}
		return persistedData{}, fmt.Errorf("read store: %w", err)
	}

	var data persistedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return persistedData{}, fmt.Errorf("unmarshal store: %w", err)
	}
	if data.Values == nil {
		data.Values = map[string]string{}
	}
	return data, nil
}

func (f *FileRepository) write(data persistedData) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}

	// Atomic write
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write tmp: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename tmp: %w", err)
	}
	return nil
}

// MemoryRepository keeps values in memory. Useful for tests and one-shot CLI runs.
type MemoryRepository struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{values: map[string]string{}}
}

func (m *MemoryRepository) Load(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *MemoryRepository) Save(key, value string) error {
	if key == "" {
		return domain.ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
