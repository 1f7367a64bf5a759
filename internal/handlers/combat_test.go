package handlers

import (
	"errors"
	"testing"

	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-testutil"
)

func sword(baseDamage int) *game.ItemStack {
	return &game.ItemStack{
		ItemID:     "sword",
		Name:       "Iron Sword",
		Type:       game.ItemTypeWeapon,
		Grade:      1,
		Quantity:   1,
		Equipped:   true,
		Properties: game.ItemProperties{BaseDamage: baseDamage},
	}
}

func attackPayload(targetID string) events.AttackPayload {
	return events.AttackPayload{
		TargetID: targetID,
		WeaponID: "sword",
		Position: &game.Position{X: 1, Y: 0, Z: 1},
	}
}

func TestHandleAttack_PlayerHit(t *testing.T) {
	f := newFixture(t)
	attacker := f.addPlayer("a", session.Seed{
		ID: 1, Username: "vex", Health: 100, Stamina: 100, Level: 1,
		Inventory: []*game.ItemStack{sword(50)},
	})
	target := f.addPlayer("b", session.Seed{ID: 2, Username: "nyx", Health: 100, Stamina: 100, Level: 2})

	if err := f.dispatch(attacker, events.PlayerAttack, attackPayload("2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 50 base, level 1 bonus, no crit on the seeded roll: floor(52.5) = 52.
	testutil.AssertEqual(t, "target health", target.Health(), 48)
	testutil.AssertEqual(t, "attacker stamina", attacker.Stamina(), 100-game.AttackStaminaCost)

	testutil.AssertEqual(t, "damaged subject", f.pub.subjectsFor(events.PlayerDamaged), []string{"player.2"})
	damaged := decodePayload[events.PlayerDamagedPayload](t, f.pub.byType(events.PlayerDamaged)[0])
	testutil.AssertEqual(t, "damage", damaged.Damage, 52)
	testutil.AssertEqual(t, "new health", damaged.NewHealth, 48)

	// Health persisted immediately, bypassing any throttle.
	saves := f.store.savesFor(2)
	testutil.AssertEqual(t, "target writes", len(saves), 1)
	testutil.AssertEqual(t, "persisted health", *saves[0].fields.Health, 48)

	// Everyone but the attacker sees the swing.
	testutil.AssertEqual(t, "combat subjects", f.pub.subjectsFor(events.CombatEvent), []string{"player.2"})
	testutil.AssertEqual(t, "no defeat", len(f.pub.byType(events.PlayerDefeat)), 0)
}

func TestHandleAttack_PlayerDefeat(t *testing.T) {
	f := newFixture(t)
	attacker := f.addPlayer("a", session.Seed{
		ID: 1, Username: "vex", Health: 100, Stamina: 100, Level: 1,
		Inventory: []*game.ItemStack{sword(50)},
	})
	target := f.addPlayer("b", session.Seed{ID: 2, Username: "nyx", Health: 30, Stamina: 100, Level: 2})

	if err := f.dispatch(attacker, events.PlayerAttack, attackPayload("2")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Target respawned at the configured spawn point with full health.
	testutil.AssertEqual(t, "respawn health", target.Health(), game.MaxHealth)
	pos, _ := target.Position()
	testutil.AssertEqual(t, "respawn position", pos, game.Position{X: 10, Y: 0, Z: 10})

	defeated := decodePayload[events.PlayerDefeatedPayload](t, f.pub.byType(events.PlayerDefeated)[0])
	testutil.AssertEqual(t, "defeated by", defeated.AttackerID, int64(1))
	testutil.AssertEqual(t, "respawn in notice", defeated.RespawnPosition, game.Position{X: 10, Y: 0, Z: 10})

	// The defeat notice goes to everyone.
	testutil.AssertEqual(t, "defeat subjects", f.pub.subjectsFor(events.PlayerDefeat), []string{"player.1", "player.2"})

	// Attacker earned 10 per target level.
	testutil.AssertEqual(t, "attacker experience", attacker.Experience(), 20)
	testutil.AssertEqual(t, "attacker level", attacker.Level(), 1)

	// Final target write carries the respawn state.
	saves := f.store.savesFor(2)
	last := saves[len(saves)-1]
	testutil.AssertEqual(t, "persisted health", *last.fields.Health, game.MaxHealth)
	testutil.AssertEqual(t, "persisted position", *last.fields.Position, game.Position{X: 10, Y: 0, Z: 10})
}

func TestHandleAttack_NPCDefeatAwardsExperience(t *testing.T) {
	f := newFixture(t)
	attacker := f.addPlayer("a", session.Seed{
		ID: 1, Username: "vex", Health: 100, Stamina: 100, Level: 1,
		Inventory: []*game.ItemStack{sword(200)},
	})
	f.addPlayer("b", session.Seed{ID: 2, Username: "nyx", Health: 100, Stamina: 100, Level: 1})

	if err := f.dispatch(attacker, events.PlayerAttack, attackPayload("npc-goblin-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 15 per NPC level, level 1 placeholder.
	testutil.AssertEqual(t, "experience", attacker.Experience(), 15)

	testutil.AssertEqual(t, "npc defeat subjects", f.pub.subjectsFor(events.NPCDefeated), []string{"player.1", "player.2"})
	npcDefeated := decodePayload[events.NPCDefeatedPayload](t, f.pub.byType(events.NPCDefeated)[0])
	testutil.AssertEqual(t, "npc id", npcDefeated.NPCID, "npc-goblin-1")
	testutil.AssertEqual(t, "defeated by", npcDefeated.DefeatedBy, int64(1))
}

func TestHandleAttack_LevelUpLoop(t *testing.T) {
	f := newFixture(t)
	attacker := f.addPlayer("a", session.Seed{
		ID: 1, Username: "vex", Health: 100, Stamina: 100, Level: 1, Experience: 95,
		Inventory: []*game.ItemStack{sword(200)},
	})

	if err := f.dispatch(attacker, events.PlayerAttack, attackPayload("npc-goblin-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 95 + 15 crosses the level 1 threshold of 100 with 10 left over.
	testutil.AssertEqual(t, "level", attacker.Level(), 2)
	testutil.AssertEqual(t, "experience", attacker.Experience(), 10)

	testutil.AssertEqual(t, "levelup subject", f.pub.subjectsFor(events.PlayerLevelUp), []string{"player.1"})
	up := decodePayload[events.PlayerLevelUpPayload](t, f.pub.byType(events.PlayerLevelUp)[0])
	testutil.AssertEqual(t, "levelup level", up.Level, 2)

	// The progress was persisted.
	saves := f.store.savesFor(1)
	last := saves[len(saves)-1]
	testutil.AssertEqual(t, "persisted level", *last.fields.Level, 2)
	testutil.AssertEqual(t, "persisted experience", *last.fields.Experience, 10)
}

func TestHandleAttack_Failures(t *testing.T) {
	tests := map[string]struct {
		seed    session.Seed
		payload events.AttackPayload
		wantErr error
	}{
		"insufficient stamina": {
			seed:    session.Seed{ID: 1, Username: "vex", Health: 100, Stamina: 5, Level: 1, Inventory: []*game.ItemStack{sword(10)}},
			payload: attackPayload("npc-goblin-1"),
			wantErr: game.ErrInsufficientStamina,
		},
		"target not found": {
			seed:    session.Seed{ID: 1, Username: "vex", Health: 100, Stamina: 100, Level: 1, Inventory: []*game.ItemStack{sword(10)}},
			payload: attackPayload("404"),
			wantErr: game.ErrTargetNotFound,
		},
		"weapon not carried": {
			seed:    session.Seed{ID: 1, Username: "vex", Health: 100, Stamina: 100, Level: 1},
			payload: attackPayload("npc-goblin-1"),
			wantErr: game.ErrWeaponNotEquipped,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)
			attacker := f.addPlayer("a", tt.seed)
			staminaBefore := attacker.Stamina()

			err := f.dispatch(attacker, events.PlayerAttack, tt.payload)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var uerr *UserError
			if !errors.As(err, &uerr) {
				t.Fatalf("expected UserError, got %T", err)
			}

			// A failed attack costs nothing and tells nobody else.
			testutil.AssertEqual(t, "stamina untouched", attacker.Stamina(), staminaBefore)
			testutil.AssertEqual(t, "no combat event", len(f.pub.byType(events.CombatEvent)), 0)
		})
	}
}

func TestHandleAttack_InvalidPayload(t *testing.T) {
	f := newFixture(t)
	attacker := f.addPlayer("a", session.Seed{ID: 1, Username: "vex", Health: 100, Stamina: 100, Level: 1})

	err := f.dispatch(attacker, events.PlayerAttack, events.AttackPayload{TargetID: "2"})
	var uerr *UserError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected UserError, got %v", err)
	}
	testutil.AssertEqual(t, "message", uerr.Message, "Invalid attack data")
}
