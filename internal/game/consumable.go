package game

// DefaultRestoreAmount is used when a consumable declares a restore effect
// without an explicit amount.
const DefaultRestoreAmount = 25

// ConsumableEffect resolves what using a consumable does. Effects are keyed
// by the item's declared properties, with two well-known item names kept for
// items seeded before the properties bag existed. Returns the health and
// stamina restored, and whether the item has any effect at all.
func ConsumableEffect(item *ItemStack) (health int, stamina int, ok bool) {
	switch {
	case item.Name == "Health Potion" || item.Properties.RestoresHealth:
		health = item.Properties.HealAmount
		if health <= 0 {
			health = DefaultRestoreAmount
		}
		return health, 0, true

	case item.Name == "Stamina Booster" || item.Properties.RestoresStamina:
		stamina = item.Properties.StaminaAmount
		if stamina <= 0 {
			stamina = DefaultRestoreAmount
		}
		return 0, stamina, true
	}

	return 0, 0, false
}
