package command

import (
	"fmt"

	"github.com/pixil98/go-errors"
	"github.com/pixil98/go-realm/internal/game"
	"github.com/pixil98/go-realm/internal/world"
)

type WorldItemConfig struct {
	ItemID   string        `json:"item_id"`
	Name     string        `json:"name"`
	Type     game.ItemType `json:"type"`
	Grade    int           `json:"grade"`
	Position game.Position `json:"position"`
}

type LootEntryConfig struct {
	Item   game.ItemStack `json:"item"`
	Weight int            `json:"weight"`
}

type GameConfig struct {
	SpawnPoints []game.Position   `json:"spawn_points"`
	Items       []WorldItemConfig `json:"items,omitempty"`
	Loot        []LootEntryConfig `json:"loot,omitempty"`
}

func (c *GameConfig) validate() error {
	el := errors.NewErrorList()

	if len(c.SpawnPoints) == 0 {
		el.Add(fmt.Errorf("at least one spawn point is required"))
	}
	for i, it := range c.Items {
		if it.ItemID == "" || it.Name == "" {
			el.Add(fmt.Errorf("item %d: item_id and name are required", i))
		}
	}
	for i, l := range c.Loot {
		if l.Weight <= 0 {
			el.Add(fmt.Errorf("loot entry %d: weight must be positive", i))
		}
	}

	return el.Err()
}

func (c *GameConfig) BuildWorld() *world.World {
	items := make([]*world.Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, &world.Item{
			ItemID:   it.ItemID,
			Name:     it.Name,
			Type:     it.Type,
			Grade:    it.Grade,
			Position: it.Position,
		})
	}

	loot := make([]game.LootEntry, 0, len(c.Loot))
	for _, l := range c.Loot {
		loot = append(loot, game.LootEntry{Item: l.Item, Weight: l.Weight})
	}

	return world.New(c.SpawnPoints, world.WithItems(items), world.WithLootTable(loot))
}
