package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pixil98/go-realm/internal/game"
)

// ErrNotFound is returned when a player row does not exist.
var ErrNotFound = errors.New("record not found")

// PlayerRecord is the durable shape of a player. The password hash never
// leaves this package's consumers except the login path; the auth gate
// strips it before a session is built.
type PlayerRecord struct {
	ID           int64             `json:"id"`
	Username     string            `json:"username"`
	PasswordHash string            `json:"passwordHash,omitempty"`
	Role         game.Role         `json:"role"`
	GuildID      string            `json:"guildId,omitempty"`
	Health       int               `json:"health"`
	Stamina      int               `json:"stamina"`
	Level        int               `json:"level"`
	Experience   int               `json:"experience"`
	Position     game.Position     `json:"position"`
	Rotation     float64           `json:"rotation"`
	Inventory    []*game.ItemStack `json:"inventory"`
	LastOnline   *time.Time        `json:"lastOnline,omitempty"`
}

// UnmarshalJSON decodes a record, treating an absent role as RolePlayer.
// The enum's zero value is RoleAdmin, so absence must be detected explicitly
// or a role-less row would load as an administrator.
func (r *PlayerRecord) UnmarshalJSON(data []byte) error {
	type alias PlayerRecord
	aux := struct {
		Role *game.Role `json:"role"`
		*alias
	}{alias: (*alias)(r)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	if aux.Role != nil {
		r.Role = *aux.Role
	} else {
		r.Role = game.RolePlayer
	}
	return nil
}

func (r *PlayerRecord) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("player id must be positive")
	}
	if r.Username == "" {
		return fmt.Errorf("username is required")
	}
	if !r.Role.Valid() {
		return fmt.Errorf("unknown role %d", int(r.Role))
	}
	if len(r.Inventory) > game.InventoryCapacity {
		return fmt.Errorf("inventory holds %d stacks, capacity is %d", len(r.Inventory), game.InventoryCapacity)
	}
	return nil
}

// Fields is a partial update: nil means leave the column unchanged. The
// mutators persist only what they touched.
type Fields struct {
	Position   *game.Position
	Rotation   *float64
	Health     *int
	Stamina    *int
	Level      *int
	Experience *int
	Inventory  []*game.ItemStack
	LastOnline *time.Time
}

// PlayerStore is the narrow persistence port the session core consumes.
// Implementations are fallible and may block; the core treats a failed write
// as a logged event, never a rollback of in-memory state.
type PlayerStore interface {
	FindPlayerByID(ctx context.Context, id int64) (*PlayerRecord, error)
	FindPlayerByUsername(ctx context.Context, username string) (*PlayerRecord, error)
	SavePlayerFields(ctx context.Context, id int64, fields Fields) error
}
