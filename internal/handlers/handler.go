// Package handlers holds the state mutators. Each inbound event resolves to
// one handler that validates the payload, mutates the initiating session (and
// possibly a target), persists what changed, and fans out notifications
// through the router.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/messaging"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-realm/internal/world"
)

// DefaultPersistInterval throttles positional writes per player.
const DefaultPersistInterval = 10 * time.Second

type handlerFunc func(ctx context.Context, s *session.PlayerSession, data json.RawMessage) error

// Handler dispatches inbound events to their mutators.
type Handler struct {
	registry *session.Registry
	router   *messaging.Router
	players  storage.PlayerStore
	world    *world.World

	persistEvery time.Duration
	now          func() time.Time

	routes map[string]handlerFunc
}

// HandlerOpt tunes a Handler at construction.
type HandlerOpt func(*Handler)

// WithPersistInterval overrides the positional write throttle.
func WithPersistInterval(d time.Duration) HandlerOpt {
	return func(h *Handler) {
		h.persistEvery = d
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) HandlerOpt {
	return func(h *Handler) {
		h.now = now
	}
}

// NewHandler creates the dispatch table over the given collaborators.
func NewHandler(registry *session.Registry, router *messaging.Router, players storage.PlayerStore, w *world.World, opts ...HandlerOpt) *Handler {
	h := &Handler{
		registry:     registry,
		router:       router,
		players:      players,
		world:        w,
		persistEvery: DefaultPersistInterval,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.routes = map[string]handlerFunc{
		events.PlayerMove:     h.handleMove,
		events.PlayerAttack:   h.handleAttack,
		events.PlayerItemUse:  h.handleItemUse,
		events.PlayerItemPick: h.handleItemPickup,
		events.PlayerItemDrop: h.handleItemDrop,
		events.ChatSend:       h.handleChat,
	}
	return h
}

// Dispatch routes one inbound envelope to its mutator. A returned *UserError
// is meant for the initiating client; anything else is a system failure.
func (h *Handler) Dispatch(ctx context.Context, s *session.PlayerSession, env events.Envelope) error {
	fn, ok := h.routes[env.Type]
	if !ok {
		return NewUserError("unknown event: " + env.Type)
	}
	return fn(ctx, s, env.Data)
}

// persist writes a partial player update, logging instead of failing: the
// in-memory state is authoritative and is never rolled back on a storage
// error.
func (h *Handler) persist(ctx context.Context, playerID int64, fields storage.Fields) {
	if err := h.players.SavePlayerFields(ctx, playerID, fields); err != nil {
		slog.Warn("persisting player state", "playerId", playerID, "error", err)
	}
}

func encode(eventType string, payload any) []byte {
	frame, err := events.Encode(eventType, payload)
	if err != nil {
		slog.Error("encoding outbound event", "type", eventType, "error", err)
		return nil
	}
	return frame
}
