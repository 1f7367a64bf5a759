// Package events defines the wire protocol between game clients and the
// session server. Every frame is a JSON envelope with a type tag and a
// payload; payload shapes are the structs below.
package events

import (
	"encoding/json"
	"fmt"
)

// Inbound event names (client to server).
const (
	PlayerMove     = "player:move"
	PlayerAttack   = "player:attack"
	PlayerItemUse  = "player:item:use"
	PlayerItemPick = "player:item:pickup"
	PlayerItemDrop = "player:item:drop"
	ChatSend       = "chat:message"
	Disconnect     = "disconnect"
)

// Outbound event names (server to client).
const (
	GameInit         = "game:init"
	PlayerJoined     = "player:joined"
	PlayerLeft       = "player:left"
	PlayerMoved      = "player:moved"
	PlayerDamaged    = "player:damaged"
	PlayerDefeated   = "player:defeated"
	PlayerDefeat     = "player:defeat"
	PlayerLevelUp    = "player:levelup"
	PlayerStatus     = "player:status"
	PlayerEquip      = "player:equip"
	NPCDefeated      = "npc:defeated"
	NPCLoot          = "npc:loot"
	CombatEvent      = "combat:event"
	WorldItemAdded   = "world:item:added"
	WorldItemRemoved = "world:item:removed"
	InventoryUpdate  = "inventory:update"
	ChatMessage      = "chat:message"
	Error            = "error"
)

// Envelope is the frame every event travels in.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Decode parses a raw frame into an envelope.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("decoding envelope: %w", err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("envelope missing type")
	}
	return env, nil
}

// Encode builds a wire frame for an outbound event.
func Encode(eventType string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s payload: %w", eventType, err)
	}
	frame, err := json.Marshal(Envelope{Type: eventType, Data: data})
	if err != nil {
		return nil, fmt.Errorf("encoding %s envelope: %w", eventType, err)
	}
	return frame, nil
}
