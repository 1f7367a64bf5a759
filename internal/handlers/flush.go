package handlers

import (
	"context"
	"log/slog"

	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
)

// PositionFlusher periodically writes every online player's position. The
// movement throttle keeps rows close to current; this sweep bounds how stale
// a row can get for a player who stopped moving right after a skipped write.
type PositionFlusher struct {
	registry *session.Registry
	players  storage.PlayerStore
}

func NewPositionFlusher(registry *session.Registry, players storage.PlayerStore) *PositionFlusher {
	return &PositionFlusher{registry: registry, players: players}
}

func (f *PositionFlusher) Tick(ctx context.Context) error {
	for _, s := range f.registry.Sessions() {
		pos, rot := s.Position()
		if err := f.players.SavePlayerFields(ctx, s.ID(), storage.Fields{Position: &pos, Rotation: &rot}); err != nil {
			slog.Warn("flushing player position", "playerId", s.ID(), "error", err)
		}
	}
	return nil
}
