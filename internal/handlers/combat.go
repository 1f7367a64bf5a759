package handlers

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
	"github.com/pixil98/go-realm/internal/world"
)

// handleAttack resolves one swing: validate, resolve target and weapon, roll
// damage, apply it, and run the defeat path when health hits zero. Target
// health is persisted immediately, not on the positional throttle.
func (h *Handler) handleAttack(ctx context.Context, s *session.PlayerSession, data json.RawMessage) error {
	var p events.AttackPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return NewUserError("Invalid attack data")
	}
	if p.TargetID == "" || p.WeaponID == "" || p.Position == nil {
		return NewUserError("Invalid attack data")
	}
	if s.Stamina() < game.AttackStaminaCost {
		return userError(game.ErrInsufficientStamina, "Not enough stamina to attack")
	}

	var npc *world.NPC
	var target *session.PlayerSession
	if strings.HasPrefix(p.TargetID, world.NPCPrefix) {
		npc = h.world.NPC(p.TargetID)
	} else {
		if id, err := strconv.ParseInt(p.TargetID, 10, 64); err == nil {
			target = h.registry.FindByPlayerID(id)
		}
		if target == nil {
			return userError(game.ErrTargetNotFound, "Target not found")
		}
	}

	weapon, err := s.FindWeapon(p.WeaponID)
	if err != nil {
		return userError(err, "Weapon not found in inventory")
	}

	// Stamina can race between the gate above and here; losing the race is
	// the same failure as failing the gate.
	if !s.SpendStamina(game.AttackStaminaCost) {
		return userError(game.ErrInsufficientStamina, "Not enough stamina to attack")
	}

	defense := 0
	if npc != nil {
		defense = npc.Defense
	}
	damage := game.CalculateDamage(game.DamageParams{
		BaseDamage:    weapon.Properties.BaseDamage,
		AttackerLevel: s.Level(),
		TargetDefense: defense,
		Critical:      h.world.RollCritical(),
		Quality:       weapon.Properties.Quality,
		Element:       weapon.Properties.Element,
	})

	if npc != nil {
		h.resolveNPCHit(ctx, s, npc, damage)
	} else {
		h.resolvePlayerHit(ctx, s, target, damage)
	}

	h.router.BroadcastExcept(s.ID(), encode(events.CombatEvent, events.CombatEventPayload{
		AttackerID: s.ID(),
		TargetID:   p.TargetID,
		Weapon:     weapon.Name,
		Damage:     damage,
		Position:   p.Position,
	}))
	return nil
}

func (h *Handler) resolvePlayerHit(ctx context.Context, attacker, target *session.PlayerSession, damage int) {
	newHealth := target.ApplyDamage(damage)

	// A target that raced a disconnect just misses the notice; the health
	// write still lands on their row.
	_ = h.router.SendTo(target.ID(), encode(events.PlayerDamaged, events.PlayerDamagedPayload{
		AttackerID: attacker.ID(),
		Damage:     damage,
		NewHealth:  newHealth,
	}))
	h.persist(ctx, target.ID(), storage.Fields{Health: &newHealth})

	if newHealth > 0 {
		return
	}

	h.awardExperience(ctx, attacker, target.Level()*game.PlayerDefeatExpPerLevel)

	respawn := h.world.RandomSpawn()
	target.Respawn(respawn)
	full := game.MaxHealth
	h.persist(ctx, target.ID(), storage.Fields{Health: &full, Position: &respawn})

	_ = h.router.SendTo(target.ID(), encode(events.PlayerDefeated, events.PlayerDefeatedPayload{
		AttackerID:      attacker.ID(),
		RespawnPosition: respawn,
	}))
	h.router.Broadcast(encode(events.PlayerDefeat, events.PlayerDefeatPayload{
		Defeated:   target.ID(),
		DefeatedBy: attacker.ID(),
	}))
}

func (h *Handler) resolveNPCHit(ctx context.Context, attacker *session.PlayerSession, npc *world.NPC, damage int) {
	newHealth := game.ClampHealth(npc.Health - damage)
	if newHealth > 0 {
		return
	}

	h.awardExperience(ctx, attacker, npc.Level*game.NPCDefeatExpPerLevel)

	if loot := h.world.RollLoot(); len(loot) > 0 {
		_ = h.router.SendTo(attacker.ID(), encode(events.NPCLoot, events.NPCLootPayload{
			NPCID: npc.ID,
			Items: loot,
		}))
	}

	h.router.Broadcast(encode(events.NPCDefeated, events.NPCDefeatedPayload{
		NPCID:      npc.ID,
		DefeatedBy: attacker.ID(),
	}))
}

// awardExperience applies an experience gain to the attacker, persists the
// resulting level and experience, and notifies on level-up.
func (h *Handler) awardExperience(ctx context.Context, s *session.PlayerSession, gain int) {
	level, exp, ups := s.GainExperience(gain)
	stamina := s.Stamina()
	h.persist(ctx, s.ID(), storage.Fields{Level: &level, Experience: &exp, Stamina: &stamina})

	if ups > 0 {
		_ = h.router.SendTo(s.ID(), encode(events.PlayerLevelUp, events.PlayerLevelUpPayload{
			Level: level,
		}))
	}
}
