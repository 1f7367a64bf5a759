package handlers

import (
	"context"
	"encoding/json"

	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
)

// handleMove applies a position update. Invalid frames are dropped without a
// reply: movement arrives at a high rate and answering each bad frame would
// just amplify a broken client. Positional persistence is throttled; the
// in-memory position is always current regardless.
func (h *Handler) handleMove(ctx context.Context, s *session.PlayerSession, data json.RawMessage) error {
	var p events.MovePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil
	}
	if p.X == nil || p.Y == nil || p.Z == nil || p.Rotation == nil {
		return nil
	}

	pos := game.Position{X: *p.X, Y: *p.Y, Z: *p.Z}
	s.SetPosition(pos, *p.Rotation)

	h.router.BroadcastExcept(s.ID(), encode(events.PlayerMoved, events.PlayerMovedPayload{
		ID:       s.ID(),
		Position: pos,
		Rotation: *p.Rotation,
	}))

	if s.MarkPositionPersisted(h.now(), h.persistEvery) {
		rot := *p.Rotation
		h.persist(ctx, s.ID(), storage.Fields{Position: &pos, Rotation: &rot})
	}
	return nil
}
