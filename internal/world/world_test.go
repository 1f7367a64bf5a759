package world

import (
	"math/rand"
	"testing"

	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-testutil"
)

func TestWorld_ItemLifecycle(t *testing.T) {
	w := New(nil)

	created := w.CreateItem("medkit", "Medkit", game.ItemTypeConsumable, 1, game.Position{X: 5})
	if created.WorldItemID == "" {
		t.Fatal("expected generated world item id")
	}

	found := w.FindItem(created.WorldItemID, game.Position{X: 5})
	if found == nil {
		t.Fatal("expected to find created item")
	}
	testutil.AssertEqual(t, "item id", found.ItemID, "medkit")

	removed := w.RemoveItem(created.WorldItemID)
	if removed == nil {
		t.Fatal("expected removal to return the item")
	}
	if w.FindItem(created.WorldItemID, game.Position{}) != nil {
		t.Fatal("expected item gone after removal")
	}
	if w.RemoveItem(created.WorldItemID) != nil {
		t.Fatal("expected second removal to return nil")
	}
}

func TestWorld_FindItem_CopiesState(t *testing.T) {
	w := New(nil, WithItems([]*Item{{ItemID: "chip", Name: "Chip", Type: game.ItemTypeCurrency}}))

	items := w.Items()
	testutil.AssertEqual(t, "seeded", len(items), 1)

	items[0].Name = "mutated"
	testutil.AssertEqual(t, "unaffected", w.Items()[0].Name, "Chip")
}

func TestWorld_RandomSpawn(t *testing.T) {
	spawns := []game.Position{{X: 10, Z: 10}, {X: 50, Z: 50}, {X: 100, Z: 20}}
	w := New(spawns, WithRand(rand.New(rand.NewSource(3))))

	seen := map[game.Position]bool{}
	for i := 0; i < 200; i++ {
		p := w.RandomSpawn()
		seen[p] = true

		valid := false
		for _, s := range spawns {
			if p == s {
				valid = true
			}
		}
		if !valid {
			t.Fatalf("spawn %v not in configured list", p)
		}
	}
	if len(seen) != len(spawns) {
		t.Fatalf("expected all %d spawn points used, saw %d", len(spawns), len(seen))
	}
}

func TestWorld_RandomSpawn_Empty(t *testing.T) {
	w := New(nil)
	testutil.AssertEqual(t, "origin fallback", w.RandomSpawn(), game.Position{})
}

func TestWorld_NPC(t *testing.T) {
	w := New(nil)

	npc := w.NPC("npc-sentry-1")
	if npc == nil {
		t.Fatal("expected placeholder NPC")
	}
	testutil.AssertEqual(t, "health", npc.Health, 100)
	testutil.AssertEqual(t, "defense", npc.Defense, 5)

	if w.NPC("1234") != nil {
		t.Fatal("expected nil for non-prefixed id")
	}
}
