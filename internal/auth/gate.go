package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
)

// Gate authenticates a connection attempt. It runs once per connection,
// before any game event is accepted, and a failure is fatal to the attempt.
type Gate struct {
	tokens  *Tokens
	players storage.PlayerStore
}

// NewGate builds the gate from the token verifier and the player store.
func NewGate(tokens *Tokens, players storage.PlayerStore) *Gate {
	return &Gate{tokens: tokens, players: players}
}

// Authenticate verifies the bearer token and hydrates a session from durable
// storage. The password hash is stripped: the returned session carries no
// secret material.
func (g *Gate) Authenticate(ctx context.Context, token string) (*session.PlayerSession, error) {
	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	record, err := g.players.FindPlayerByID(ctx, claims.PlayerID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: id %d", game.ErrPlayerNotFound, claims.PlayerID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetching player %d: %w", claims.PlayerID, err)
	}

	return session.New(session.Seed{
		ID:         record.ID,
		Username:   record.Username,
		Role:       record.Role,
		GuildID:    record.GuildID,
		Health:     record.Health,
		Stamina:    record.Stamina,
		Level:      record.Level,
		Experience: record.Experience,
		Position:   record.Position,
		Rotation:   record.Rotation,
		Inventory:  record.Inventory,
	}), nil
}
