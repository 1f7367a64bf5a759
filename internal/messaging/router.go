package messaging

import (
	"fmt"
	"log/slog"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/session"
)

// Publisher provides the ability to publish messages to subjects.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// PlayerSubject is the per-player delivery channel. Each connected session
// subscribes to its own subject; every fan-out mode below reduces to a set
// of per-player publishes.
func PlayerSubject(playerID int64) string {
	return fmt.Sprintf("player.%d", playerID)
}

// Router decides fan-out per event kind: global, global-except-sender,
// proximity-filtered, private, or guild. Delivery is fire-and-forget; a
// failed publish is logged and the rest of the fan-out continues.
type Router struct {
	registry *session.Registry
	pub      Publisher
}

// NewRouter wires the router to the session registry and a publisher.
func NewRouter(registry *session.Registry, pub Publisher) *Router {
	return &Router{registry: registry, pub: pub}
}

// Broadcast delivers to every online session.
func (r *Router) Broadcast(data []byte) {
	r.registry.ForEach(func(_ string, s *session.PlayerSession) {
		r.send(s.ID(), data)
	})
}

// BroadcastExcept delivers to every online session but the sender.
func (r *Router) BroadcastExcept(senderID int64, data []byte) {
	r.registry.ForEach(func(_ string, s *session.PlayerSession) {
		if s.ID() == senderID {
			return
		}
		r.send(s.ID(), data)
	})
}

// SendTo delivers to a single online player. Returns ErrPlayerNotFound when
// they are offline.
func (r *Router) SendTo(playerID int64, data []byte) error {
	if r.registry.FindByPlayerID(playerID) == nil {
		return game.ErrPlayerNotFound
	}
	r.send(playerID, data)
	return nil
}

// Nearby delivers to every session within radius of pos. A sender inside
// the radius receives their own message.
func (r *Router) Nearby(pos game.Position, radius float64, data []byte) {
	for _, s := range r.registry.Nearby(pos, radius) {
		r.send(s.ID(), data)
	}
}

// ToGuild delivers to every session sharing the guild id.
func (r *Router) ToGuild(guildID string, data []byte) {
	for _, s := range r.registry.Guild(guildID) {
		r.send(s.ID(), data)
	}
}

func (r *Router) send(playerID int64, data []byte) {
	if err := r.pub.Publish(PlayerSubject(playerID), data); err != nil {
		slog.Warn("publishing to player subject", "playerId", playerID, "error", err)
	}
}
