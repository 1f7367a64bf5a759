package session

import (
	"sync"
	"time"

	"github.com/pixil98/go-realm/internal/game"
)

// PlayerSession is the authoritative in-memory record for one connected,
// authenticated player. Identity fields are fixed at authentication and never
// change for the session's lifetime; everything else mutates as events arrive.
//
// Each session carries its own lock because combat handlers running on the
// attacker's connection read and write the target's health. Every
// read-compute-write on a session happens inside a single method call with
// the lock held, so cross-connection updates stay atomic.
type PlayerSession struct {
	id       int64
	username string
	role     game.Role
	guildID  string

	mu                  sync.Mutex
	health              int
	stamina             int
	level               int
	experience          int
	position            game.Position
	rotation            float64
	inventory           []*game.ItemStack
	lastPositionPersist time.Time
	lastOnline          time.Time
}

// Seed is the hydrated state a session starts from.
type Seed struct {
	ID         int64
	Username   string
	Role       game.Role
	GuildID    string
	Health     int
	Stamina    int
	Level      int
	Experience int
	Position   game.Position
	Rotation   float64
	Inventory  []*game.ItemStack
}

// New builds a session from durable state. Health and stamina are clamped on
// the way in so a bad row can never violate the in-memory invariants.
func New(seed Seed) *PlayerSession {
	inv := make([]*game.ItemStack, 0, len(seed.Inventory))
	for _, s := range seed.Inventory {
		if s == nil {
			continue
		}
		inv = append(inv, s.Clone())
	}

	return &PlayerSession{
		id:         seed.ID,
		username:   seed.Username,
		role:       seed.Role,
		guildID:    seed.GuildID,
		health:     game.ClampHealth(seed.Health),
		stamina:    game.ClampStamina(seed.Stamina),
		level:      seed.Level,
		experience: seed.Experience,
		position:   seed.Position,
		rotation:   seed.Rotation,
		inventory:  inv,
	}
}

// ID returns the player's durable identifier.
func (s *PlayerSession) ID() int64 { return s.id }

// Username returns the player's display name.
func (s *PlayerSession) Username() string { return s.username }

// Role returns the role bound at authentication.
func (s *PlayerSession) Role() game.Role { return s.role }

// GuildID returns the player's guild, or "" when they have none.
func (s *PlayerSession) GuildID() string { return s.guildID }

// Health returns the current health.
func (s *PlayerSession) Health() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.health
}

// Stamina returns the current stamina.
func (s *PlayerSession) Stamina() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stamina
}

// Level returns the current level.
func (s *PlayerSession) Level() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level
}

// Experience returns the experience accumulated toward the next level.
func (s *PlayerSession) Experience() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.experience
}

// Position returns the current position and rotation.
func (s *PlayerSession) Position() (game.Position, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.position, s.rotation
}

// SetPosition overwrites the spatial state, all fields at once.
func (s *PlayerSession) SetPosition(pos game.Position, rotation float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = pos
	s.rotation = rotation
}

// ApplyDamage subtracts damage from health and returns the clamped result.
func (s *PlayerSession) ApplyDamage(damage int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = game.ClampHealth(s.health - damage)
	return s.health
}

// Restore adds health and stamina, clamped, and returns the new values.
func (s *PlayerSession) Restore(health, stamina int) (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = game.ClampHealth(s.health + health)
	s.stamina = game.ClampStamina(s.stamina + stamina)
	return s.health, s.stamina
}

// SpendStamina deducts cost if the player has at least that much. Returns
// false, leaving stamina untouched, when they do not.
func (s *PlayerSession) SpendStamina(cost int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stamina < cost {
		return false
	}
	s.stamina = game.ClampStamina(s.stamina - cost)
	return true
}

// Respawn resets health to full and moves the player to the given point.
func (s *PlayerSession) Respawn(pos game.Position) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = game.MaxHealth
	s.position = pos
}

// GainExperience awards experience, looping through any level thresholds
// crossed. Returns the new level, new experience, and levels gained.
func (s *PlayerSession) GainExperience(gain int) (int, int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	level, exp, up := game.AddExperience(s.level, s.experience, gain)
	s.level = level
	s.experience = exp
	return level, exp, up
}

// MarkPositionPersisted stamps the leaky-bucket throttle for positional
// writes. Returns false without stamping when less than interval has passed
// since the previous stamp.
func (s *PlayerSession) MarkPositionPersisted(now time.Time, interval time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.lastPositionPersist.IsZero() && now.Sub(s.lastPositionPersist) < interval {
		return false
	}
	s.lastPositionPersist = now
	return true
}

// LastPositionPersist returns the time of the last positional write stamp.
func (s *PlayerSession) LastPositionPersist() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastPositionPersist
}

// MarkOffline stamps the disconnect time and returns it.
func (s *PlayerSession) MarkOffline(now time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastOnline = now
	return now
}

// Snapshot returns a consistent copy of the mutable state for broadcasts and
// persistence. The inventory is deep-copied.
func (s *PlayerSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		ID:         s.id,
		Username:   s.username,
		Role:       s.role,
		GuildID:    s.guildID,
		Health:     s.health,
		Stamina:    s.stamina,
		Level:      s.level,
		Experience: s.experience,
		Position:   s.position,
		Rotation:   s.rotation,
		Inventory:  cloneInventory(s.inventory),
	}
}

// Snapshot is a point-in-time copy of a session's mutable state.
type Snapshot struct {
	ID         int64
	Username   string
	Role       game.Role
	GuildID    string
	Health     int
	Stamina    int
	Level      int
	Experience int
	Position   game.Position
	Rotation   float64
	Inventory  []*game.ItemStack
}

func cloneInventory(inv []*game.ItemStack) []*game.ItemStack {
	out := make([]*game.ItemStack, 0, len(inv))
	for _, s := range inv {
		out = append(out, s.Clone())
	}
	return out
}
