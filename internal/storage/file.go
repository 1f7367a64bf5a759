package storage

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// FilePlayerStore adapts the generic file store to the PlayerStore port.
type FilePlayerStore struct {
	store *FileStore[*PlayerRecord]
}

// NewFilePlayerStore loads player records from a directory of JSON files,
// one file per player keyed by id.
func NewFilePlayerStore(path string) (*FilePlayerStore, error) {
	store, err := NewFileStore[*PlayerRecord](path)
	if err != nil {
		return nil, fmt.Errorf("loading player records: %w", err)
	}
	return &FilePlayerStore{store: store}, nil
}

func (s *FilePlayerStore) FindPlayerByID(_ context.Context, id int64) (*PlayerRecord, error) {
	record, ok := s.store.Get(strconv.FormatInt(id, 10))
	if !ok {
		return nil, ErrNotFound
	}
	cp := *record
	return &cp, nil
}

func (s *FilePlayerStore) FindPlayerByUsername(_ context.Context, username string) (*PlayerRecord, error) {
	for _, record := range s.store.GetAll() {
		if strings.EqualFold(record.Username, username) {
			cp := *record
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (s *FilePlayerStore) SavePlayerFields(_ context.Context, id int64, fields Fields) error {
	key := strconv.FormatInt(id, 10)
	record, ok := s.store.Get(key)
	if !ok {
		return ErrNotFound
	}

	updated := *record
	applyFields(&updated, fields)

	return s.store.Save(key, &updated)
}

func applyFields(r *PlayerRecord, f Fields) {
	if f.Position != nil {
		r.Position = *f.Position
	}
	if f.Rotation != nil {
		r.Rotation = *f.Rotation
	}
	if f.Health != nil {
		r.Health = *f.Health
	}
	if f.Stamina != nil {
		r.Stamina = *f.Stamina
	}
	if f.Level != nil {
		r.Level = *f.Level
	}
	if f.Experience != nil {
		r.Experience = *f.Experience
	}
	if f.Inventory != nil {
		r.Inventory = f.Inventory
	}
	if f.LastOnline != nil {
		r.LastOnline = f.LastOnline
	}
}
