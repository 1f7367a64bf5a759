package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-testutil"
)

func writeRecord(t *testing.T, dir string, r *PlayerRecord) {
	t.Helper()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshalling record: %v", err)
	}
	path := filepath.Join(dir, strconv.FormatInt(r.ID, 10)+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("writing record: %v", err)
	}
}

func TestFilePlayerStore_FindPlayerByID(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, &PlayerRecord{
		ID: 1, Username: "Rook", Role: game.RolePlayer,
		Health: 80, Stamina: 60, Level: 2,
	})

	store, err := NewFilePlayerStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.FindPlayerByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "username", got.Username, "Rook")
	testutil.AssertEqual(t, "health", got.Health, 80)

	_, err = store.FindPlayerByID(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilePlayerStore_RoleDefault(t *testing.T) {
	dir := t.TempDir()
	rows := map[string]string{
		"1.json": `{"id":1,"username":"Rook","health":100,"stamina":100,"level":1}`,
		"2.json": `{"id":2,"username":"Dex","role":0,"health":100,"stamina":100,"level":1}`,
	}
	for name, body := range rows {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
			t.Fatalf("writing record: %v", err)
		}
	}

	store, err := NewFilePlayerStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A row without a role field holds a regular player, never an admin.
	got, err := store.FindPlayerByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "defaulted role", got.Role, game.RolePlayer)

	// An explicit zero is still the admin role.
	got, err = store.FindPlayerByID(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "explicit role", got.Role, game.RoleAdmin)
}

func TestFilePlayerStore_FindPlayerByUsername(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, &PlayerRecord{ID: 1, Username: "Rook", Role: game.RolePlayer})

	store, err := NewFilePlayerStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.FindPlayerByUsername(context.Background(), "rook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "id", got.ID, int64(1))

	_, err = store.FindPlayerByUsername(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFilePlayerStore_SavePlayerFields(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, &PlayerRecord{
		ID: 1, Username: "Rook", Role: game.RolePlayer, Health: 100,
	})

	store, err := NewFilePlayerStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	health := 40
	pos := game.Position{X: 12, Y: 0, Z: -3}
	err = store.SavePlayerFields(context.Background(), 1, Fields{
		Health:   &health,
		Position: &pos,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Partial update: untouched fields keep their values.
	got, err := store.FindPlayerByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "health", got.Health, 40)
	testutil.AssertEqual(t, "position", got.Position, pos)
	testutil.AssertEqual(t, "username", got.Username, "Rook")

	// And the change survives a reload from disk.
	reloaded, err := NewFilePlayerStore(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err = reloaded.FindPlayerByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "reloaded health", got.Health, 40)
}

func TestFilePlayerStore_SaveUnknownPlayer(t *testing.T) {
	store, err := NewFilePlayerStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	health := 10
	err = store.SavePlayerFields(context.Background(), 42, Fields{Health: &health})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewFileStore_RejectsInvalidRecord(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, &PlayerRecord{ID: 1, Username: ""})

	if _, err := NewFilePlayerStore(dir); err == nil {
		t.Fatal("expected validation error for record without username")
	}
}
