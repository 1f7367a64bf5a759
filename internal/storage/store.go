package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// ValidatingSpec is anything the file store can hold: records validate
// themselves on load so a bad file fails startup instead of surfacing later.
type ValidatingSpec interface {
	Validate() error
}

// FileStore keeps one JSON file per record under a directory. It is the
// development-grade durable store; the Postgres store implements the same
// player port for real deployments.
type FileStore[T ValidatingSpec] struct {
	path    string
	records map[string]T

	mu sync.RWMutex
}

// NewFileStore loads every .json file under path.
func NewFileStore[T ValidatingSpec](path string) (*FileStore[T], error) {
	s := &FileStore[T]{
		path:    path,
		records: map[string]T{},
	}

	if err := s.load(); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[string]T{}

	return filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		record, err := s.loadRecord(path)
		if err != nil {
			return err
		}
		if err := record.Validate(); err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		key := trimExt(filepath.Base(path))
		if _, ok := s.records[key]; ok {
			return fmt.Errorf("duplicate key detected: %s", key)
		}
		s.records[key] = record

		return nil
	})
}

// Save updates the cached record and writes it to disk.
func (s *FileStore[T]) Save(id string, record T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[id] = record

	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	return atomicWrite(s.filePath(id), jsonData, 0644)
}

// Get returns the record and whether it exists.
func (s *FileStore[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.records[id]
	return val, ok
}

// GetAll returns a copy of all records.
func (s *FileStore[T]) GetAll() map[string]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := map[string]T{}
	for id, v := range s.records {
		vals[id] = v
	}
	return vals
}

// atomicWrite writes data to a temp file then renames it to the target path.
// This prevents partial or empty files if the process is interrupted.
func atomicWrite(path string, data []byte, perm os.FileMode) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		if removeErr := os.Remove(tmp); removeErr != nil {
			slog.Warn("failed to remove temp file after rename failure", "path", tmp, "error", removeErr)
		}
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func (s *FileStore[T]) filePath(id string) string {
	return filepath.Join(s.path, fmt.Sprintf("%s.json", id))
}

func (s *FileStore[T]) loadRecord(path string) (T, error) {
	var record T

	jsonData, err := os.ReadFile(path)
	if err != nil {
		return record, fmt.Errorf("reading file: %w", err)
	}

	if err := json.Unmarshal(jsonData, &record); err != nil {
		return record, fmt.Errorf("unmarshalling record: %w", err)
	}

	return record, nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
