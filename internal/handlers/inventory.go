package handlers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pixil98/go-realm/internal/events"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/session"
	"github.com/pixil98/go-realm/internal/storage"
)

// handleItemUse applies a consumable or equips a weapon from an inventory
// slot. The slot is addressed by index and item id together so a stale client
// view can never act on the wrong item.
func (h *Handler) handleItemUse(ctx context.Context, s *session.PlayerSession, data json.RawMessage) error {
	var p events.ItemUsePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return NewUserError("Invalid item interaction data")
	}
	if p.ItemID == "" || p.InventoryIndex == nil {
		return NewUserError("Invalid item interaction data")
	}

	item, err := s.ItemAt(*p.InventoryIndex, p.ItemID)
	if err != nil {
		return userError(err, "Item not found in inventory at specified position")
	}

	switch item.Type {
	case game.ItemTypeConsumable:
		h.applyConsumable(ctx, s, item, *p.InventoryIndex)
	case game.ItemTypeWeapon:
		if err := h.equipWeapon(ctx, s, *p.InventoryIndex, p.ItemID); err != nil {
			return err
		}
	default:
		return NewUserError(fmt.Sprintf("Cannot use item of type: %s", item.Type))
	}

	_ = h.router.SendTo(s.ID(), encode(events.InventoryUpdate, events.InventoryUpdatePayload{
		Inventory: s.Inventory(),
	}))
	return nil
}

// applyConsumable runs the item's declared effect. An effect-less consumable
// is a no-op: nothing is removed, nothing persisted.
func (h *Handler) applyConsumable(ctx context.Context, s *session.PlayerSession, item *game.ItemStack, index int) {
	restoreHealth, restoreStamina, ok := game.ConsumableEffect(item)
	if !ok {
		return
	}

	health, stamina := s.Restore(restoreHealth, restoreStamina)
	if _, err := s.Consume(index, item.ItemID); err != nil {
		// Slot verified above; a failure here means a concurrent mutation
		// won, and the restore still stands.
		return
	}

	h.persist(ctx, s.ID(), storage.Fields{
		Health:    &health,
		Stamina:   &stamina,
		Inventory: s.Inventory(),
	})

	_ = h.router.SendTo(s.ID(), encode(events.PlayerStatus, events.PlayerStatusPayload{
		Health:  health,
		Stamina: stamina,
	}))
}

func (h *Handler) equipWeapon(ctx context.Context, s *session.PlayerSession, index int, itemID string) error {
	weapon, err := s.EquipWeapon(index, itemID)
	if err != nil {
		return userError(err, "Item not found in inventory at specified position")
	}

	h.persist(ctx, s.ID(), storage.Fields{Inventory: s.Inventory()})

	h.router.BroadcastExcept(s.ID(), encode(events.PlayerEquip, events.PlayerEquipPayload{
		PlayerID: s.ID(),
		ItemID:   weapon.ItemID,
		Name:     weapon.Name,
	}))
	return nil
}

// handleItemPickup moves a world item into the inventory. Capacity is checked
// before stacking, so a full inventory rejects the pickup even when the item
// could have stacked into an existing slot.
func (h *Handler) handleItemPickup(ctx context.Context, s *session.PlayerSession, data json.RawMessage) error {
	var p events.ItemPickupPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return NewUserError("Invalid item interaction data")
	}
	if p.WorldItemID == "" || p.Position == nil {
		return NewUserError("Invalid item interaction data")
	}

	worldItem := h.world.FindItem(p.WorldItemID, *p.Position)
	if worldItem == nil {
		return userError(game.ErrItemNotFound, "Item not found at this position")
	}

	grade := worldItem.Grade
	if grade == 0 {
		grade = 1
	}
	stack := &game.ItemStack{
		ItemID:   worldItem.ItemID,
		Name:     worldItem.Name,
		Type:     worldItem.Type,
		Grade:    grade,
		Quantity: 1,
	}
	if err := s.AddItem(stack); err != nil {
		return userError(err, "Inventory is full")
	}

	h.world.RemoveItem(p.WorldItemID)
	h.persist(ctx, s.ID(), storage.Fields{Inventory: s.Inventory()})

	_ = h.router.SendTo(s.ID(), encode(events.InventoryUpdate, events.InventoryUpdatePayload{
		Inventory: s.Inventory(),
	}))
	h.router.BroadcastExcept(s.ID(), encode(events.WorldItemRemoved, events.WorldItemRemovedPayload{
		WorldItemID: p.WorldItemID,
		PickedBy:    s.ID(),
	}))
	return nil
}

// handleItemDrop moves one unit out of an inventory slot onto the ground.
func (h *Handler) handleItemDrop(ctx context.Context, s *session.PlayerSession, data json.RawMessage) error {
	var p events.ItemDropPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return NewUserError("Invalid item interaction data")
	}
	if p.ItemID == "" || p.InventoryIndex == nil || p.Position == nil {
		return NewUserError("Invalid item interaction data")
	}

	dropped, err := s.Consume(*p.InventoryIndex, p.ItemID)
	if err != nil {
		return userError(err, "Item not found in inventory at specified position")
	}

	created := h.world.CreateItem(dropped.ItemID, dropped.Name, dropped.Type, dropped.Grade, *p.Position)
	h.persist(ctx, s.ID(), storage.Fields{Inventory: s.Inventory()})

	_ = h.router.SendTo(s.ID(), encode(events.InventoryUpdate, events.InventoryUpdatePayload{
		Inventory: s.Inventory(),
	}))
	h.router.Broadcast(encode(events.WorldItemAdded, events.WorldItemAddedPayload{
		WorldItemID: created.WorldItemID,
		ItemID:      created.ItemID,
		Name:        created.Name,
		Type:        created.Type,
		Position:    created.Position,
		DroppedBy:   s.ID(),
	}))
	return nil
}
