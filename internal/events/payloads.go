package events

import (
	"github.com/pixil98/go-realm/internal/game"
)

// Inbound payloads. Numeric movement fields are pointers so a missing or
// non-numeric field is distinguishable from zero; validation rejects nil.

type MovePayload struct {
	X        *float64 `json:"x"`
	Y        *float64 `json:"y"`
	Z        *float64 `json:"z"`
	Rotation *float64 `json:"rotation"`
}

type AttackPayload struct {
	TargetID string         `json:"targetId"`
	WeaponID string         `json:"weaponId"`
	Position *game.Position `json:"position"`
}

type ItemUsePayload struct {
	ItemID         string `json:"itemId"`
	InventoryIndex *int   `json:"inventoryIndex"`
}

type ItemPickupPayload struct {
	WorldItemID string         `json:"worldItemId"`
	Position    *game.Position `json:"position"`
}

type ItemDropPayload struct {
	ItemID         string         `json:"itemId"`
	InventoryIndex *int           `json:"inventoryIndex"`
	Position       *game.Position `json:"position"`
}

type ChatPayload struct {
	Message  string `json:"message"`
	Type     string `json:"type"`
	TargetID *int64 `json:"targetId,omitempty"`
}

// Outbound payloads.

// PlayerSummary is one entry of the game:init roster and the player:joined
// notice. Role travels as the numeric enum.
type PlayerSummary struct {
	ID       int64         `json:"id"`
	Username string        `json:"username"`
	Position game.Position `json:"position"`
	Rotation float64       `json:"rotation"`
	Health   int           `json:"health"`
	Level    int           `json:"level"`
	Role     game.Role     `json:"role"`
	IsAdmin  bool          `json:"isAdmin"`
}

type GameInitPayload struct {
	Players []PlayerSummary `json:"players"`
}

type PlayerLeftPayload struct {
	ID int64 `json:"id"`
}

type PlayerMovedPayload struct {
	ID       int64         `json:"id"`
	Position game.Position `json:"position"`
	Rotation float64       `json:"rotation"`
}

type PlayerDamagedPayload struct {
	AttackerID int64 `json:"attackerId"`
	Damage     int   `json:"damage"`
	NewHealth  int   `json:"newHealth"`
}

type PlayerDefeatedPayload struct {
	AttackerID      int64         `json:"attackerId"`
	RespawnPosition game.Position `json:"respawnPosition"`
}

type PlayerDefeatPayload struct {
	Defeated   int64 `json:"defeated"`
	DefeatedBy int64 `json:"defeatedBy"`
}

type PlayerLevelUpPayload struct {
	Level int `json:"level"`
}

type PlayerStatusPayload struct {
	Health  int `json:"health"`
	Stamina int `json:"stamina"`
}

type PlayerEquipPayload struct {
	PlayerID int64  `json:"playerId"`
	ItemID   string `json:"itemId"`
	Name     string `json:"name"`
}

type NPCDefeatedPayload struct {
	NPCID      string `json:"npcId"`
	DefeatedBy int64  `json:"defeatedBy"`
}

type NPCLootPayload struct {
	NPCID string            `json:"npcId"`
	Items []*game.ItemStack `json:"items"`
}

type CombatEventPayload struct {
	AttackerID int64          `json:"attackerId"`
	TargetID   string         `json:"targetId"`
	Weapon     string         `json:"weapon"`
	Damage     int            `json:"damage"`
	Position   *game.Position `json:"position,omitempty"`
}

type WorldItemAddedPayload struct {
	WorldItemID string        `json:"worldItemId"`
	ItemID      string        `json:"itemId"`
	Name        string        `json:"name"`
	Type        game.ItemType `json:"type"`
	Position    game.Position `json:"position"`
	DroppedBy   int64         `json:"droppedBy,omitempty"`
}

type WorldItemRemovedPayload struct {
	WorldItemID string `json:"worldItemId"`
	PickedBy    int64  `json:"pickedBy,omitempty"`
}

type InventoryUpdatePayload struct {
	Inventory []*game.ItemStack `json:"inventory"`
}

type ChatMessagePayload struct {
	ID            string `json:"id"`
	SenderID      int64  `json:"senderId"`
	SenderName    string `json:"senderName"`
	Message       string `json:"message"`
	Timestamp     int64  `json:"timestamp"`
	Type          string `json:"type"`
	RecipientID   int64  `json:"recipientId,omitempty"`
	RecipientName string `json:"recipientName,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
