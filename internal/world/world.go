// Package world owns the pickable entities anchored in the game world and
// the fixed geography the session core needs: spawn points and the NPC
// placeholders combat can target.
package world

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/pixil98/go-realm/internal/game"
)

// NPCPrefix marks a combat target id as an NPC placeholder.
const NPCPrefix = "npc-"

// Item is a world-anchored, pickable entity. Distinct from an inventory
// stack: it exists at a position until somebody picks it up.
type Item struct {
	WorldItemID string        `json:"worldItemId"`
	ItemID      string        `json:"itemId"`
	Name        string        `json:"name"`
	Type        game.ItemType `json:"type"`
	Grade       int           `json:"grade"`
	Position    game.Position `json:"position"`
}

// NPC is the placeholder combat target used until a real NPC system exists.
type NPC struct {
	ID      string
	Name    string
	Level   int
	Health  int
	Defense int
}

// World tracks items on the ground and answers spawn point and NPC lookups.
type World struct {
	mu    sync.Mutex
	items map[string]*Item

	spawns []game.Position
	loot   []game.LootEntry
	rnd    *rand.Rand
}

// Option tunes a World at construction.
type Option func(*World)

// WithItems seeds the world with initial ground items.
func WithItems(items []*Item) Option {
	return func(w *World) {
		for _, it := range items {
			if it.WorldItemID == "" {
				it.WorldItemID = uuid.NewString()
			}
			w.items[it.WorldItemID] = it
		}
	}
}

// WithLootTable sets the weighted table NPC defeats roll against.
func WithLootTable(table []game.LootEntry) Option {
	return func(w *World) {
		w.loot = table
	}
}

// WithRand injects the random source, for deterministic tests.
func WithRand(rnd *rand.Rand) Option {
	return func(w *World) {
		w.rnd = rnd
	}
}

// New creates a world with the given respawn points.
func New(spawns []game.Position, opts ...Option) *World {
	w := &World{
		items:  make(map[string]*Item),
		spawns: spawns,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.rnd == nil {
		w.rnd = rand.New(rand.NewSource(rand.Int63()))
	}
	return w
}

// FindItem looks an item up by id. The reported pickup position is accepted
// but not verified against the anchor, matching the lookup contract the
// handlers rely on.
func (w *World) FindItem(worldItemID string, _ game.Position) *Item {
	w.mu.Lock()
	defer w.mu.Unlock()

	it, ok := w.items[worldItemID]
	if !ok {
		return nil
	}
	cp := *it
	return &cp
}

// RemoveItem deletes an item from the world, returning it when present.
func (w *World) RemoveItem(worldItemID string) *Item {
	w.mu.Lock()
	defer w.mu.Unlock()

	it, ok := w.items[worldItemID]
	if !ok {
		return nil
	}
	delete(w.items, worldItemID)
	return it
}

// CreateItem anchors a new item in the world and returns it with its
// generated instance id.
func (w *World) CreateItem(itemID, name string, itemType game.ItemType, grade int, pos game.Position) *Item {
	it := &Item{
		WorldItemID: uuid.NewString(),
		ItemID:      itemID,
		Name:        name,
		Type:        itemType,
		Grade:       grade,
		Position:    pos,
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.items[it.WorldItemID] = it
	return it
}

// Items returns a copy of all ground items.
func (w *World) Items() []*Item {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]*Item, 0, len(w.items))
	for _, it := range w.items {
		cp := *it
		out = append(out, &cp)
	}
	return out
}

// RandomSpawn picks a respawn point uniformly.
func (w *World) RandomSpawn() game.Position {
	if len(w.spawns) == 0 {
		return game.Position{}
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spawns[w.rnd.Intn(len(w.spawns))]
}

// NPC resolves an NPC placeholder by id. Every id with the NPC prefix
// resolves to the stock placeholder; anything else is nil.
func (w *World) NPC(id string) *NPC {
	if !strings.HasPrefix(id, NPCPrefix) {
		return nil
	}
	return &NPC{
		ID:      id,
		Name:    "NPC Enemy",
		Level:   1,
		Health:  game.MaxHealth,
		Defense: 5,
	}
}

// RollLoot rolls the world's loot table for a defeated NPC.
func (w *World) RollLoot() []*game.ItemStack {
	w.mu.Lock()
	defer w.mu.Unlock()
	return game.RollLoot(w.rnd, w.loot)
}

// RollCritical draws the uniform critical roll for an attack.
func (w *World) RollCritical() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rnd.Float64() < game.CriticalChance
}
