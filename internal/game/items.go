package game

// InventoryCapacity is the hard limit on inventory slots per player.
const InventoryCapacity = 20

// ItemType partitions items by what the mutators may do with them.
type ItemType string

const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeCurrency   ItemType = "currency"
)

// ItemProperties is the free-form effect bag carried by an item definition.
// Zero values mean the property is absent.
type ItemProperties struct {
	BaseDamage      int    `json:"baseDamage,omitempty"`
	Quality         int    `json:"quality,omitempty"`
	Element         string `json:"element,omitempty"`
	RestoresHealth  bool   `json:"restoresHealth,omitempty"`
	HealAmount      int    `json:"healAmount,omitempty"`
	RestoresStamina bool   `json:"restoresStamina,omitempty"`
	StaminaAmount   int    `json:"staminaAmount,omitempty"`
}

// ItemStack is one inventory slot: an item definition plus a count and the
// per-slot equip flag.
type ItemStack struct {
	ItemID     string         `json:"itemId"`
	Name       string         `json:"name"`
	Type       ItemType       `json:"type"`
	Grade      int            `json:"grade"`
	Quantity   int            `json:"quantity"`
	Equipped   bool           `json:"equipped,omitempty"`
	Properties ItemProperties `json:"properties,omitempty"`
}

// Clone returns an independent copy of the stack.
func (s *ItemStack) Clone() *ItemStack {
	c := *s
	return &c
}
