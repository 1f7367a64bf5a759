package handlers

import (
	"context"

	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
)

// OnConnect announces a freshly authenticated session and returns the initial
// roster frame the gateway writes straight to the new connection. The
// returned frame lists every registered session, the new one included.
func (h *Handler) OnConnect(ctx context.Context, s *session.PlayerSession) []byte {
	h.router.BroadcastExcept(s.ID(), encode(events.PlayerJoined, summarize(s)))

	var roster []events.PlayerSummary
	for _, other := range h.registry.Sessions() {
		roster = append(roster, summarize(other))
	}
	return encode(events.GameInit, events.GameInitPayload{Players: roster})
}

// OnDisconnect persists the final state of a departing session and tells the
// remaining players. The position write here bypasses the throttle: it is the
// last chance to save where the player stood.
func (h *Handler) OnDisconnect(ctx context.Context, s *session.PlayerSession) {
	pos, rot := s.Position()
	lastOnline := s.MarkOffline(h.now())
	h.persist(ctx, s.ID(), storage.Fields{
		Position:   &pos,
		Rotation:   &rot,
		LastOnline: &lastOnline,
	})

	h.router.Broadcast(encode(events.PlayerLeft, events.PlayerLeftPayload{ID: s.ID()}))
}

func summarize(s *session.PlayerSession) events.PlayerSummary {
	snap := s.Snapshot()
	return events.PlayerSummary{
		ID:       snap.ID,
		Username: snap.Username,
		Position: snap.Position,
		Rotation: snap.Rotation,
		Health:   snap.Health,
		Level:    snap.Level,
		Role:     snap.Role,
		IsAdmin:  snap.Role == game.RoleAdmin,
	}
}
