package game

import "math/rand"

// LootDropChance is the probability that a defeated NPC drops anything.
const LootDropChance = 0.3

// LootEntry is one weighted row in a loot table.
type LootEntry struct {
	Item   ItemStack `json:"item"`
	Weight int       `json:"weight"`
}

// RollLoot decides whether a defeated NPC drops loot and, if so, picks one
// entry from the table proportionally to its weight. Returns nil when the
// drop roll fails or the table is empty.
func RollLoot(rnd *rand.Rand, table []LootEntry) []*ItemStack {
	if len(table) == 0 {
		return nil
	}
	if rnd.Float64() >= LootDropChance {
		return nil
	}

	total := 0
	for _, e := range table {
		total += e.Weight
	}
	if total <= 0 {
		return nil
	}

	roll := rnd.Intn(total)
	acc := 0
	for _, e := range table {
		acc += e.Weight
		if roll < acc {
			drop := e.Item.Clone()
			if drop.Quantity < 1 {
				drop.Quantity = 1
			}
			return []*ItemStack{drop}
		}
	}
	return nil
}
