package session

import (
	"github.com/pixil98/go-realm/internal/game"
)

// Inventory mutations live on the session so their invariants (slot/id
// agreement, capacity, single equipped weapon) hold under one lock.

// Inventory returns a deep copy of the inventory in slot order.
func (s *PlayerSession) Inventory() []*game.ItemStack {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneInventory(s.inventory)
}

// ItemAt returns a copy of the stack at index after checking the slot holds
// the item the client thinks it does. Defends against stale client state.
func (s *PlayerSession) ItemAt(index int, itemID string) (*game.ItemStack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stack, err := s.stackAt(index, itemID)
	if err != nil {
		return nil, err
	}
	return stack.Clone(), nil
}

// FindWeapon returns a copy of the weapon with the given item id, or
// ErrWeaponNotEquipped when the attacker does not carry it.
func (s *PlayerSession) FindWeapon(itemID string) (*game.ItemStack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, stack := range s.inventory {
		if stack.ItemID == itemID {
			return stack.Clone(), nil
		}
	}
	return nil, game.ErrWeaponNotEquipped
}

// EquipWeapon equips the weapon at index, unequipping any previously
// equipped weapon first so at most one weapon stack is ever equipped.
// Returns a copy of the newly equipped stack.
func (s *PlayerSession) EquipWeapon(index int, itemID string) (*game.ItemStack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stack, err := s.stackAt(index, itemID)
	if err != nil {
		return nil, err
	}

	for _, other := range s.inventory {
		if other.Type == game.ItemTypeWeapon && other.Equipped {
			other.Equipped = false
		}
	}
	stack.Equipped = true

	return stack.Clone(), nil
}

// Consume removes one unit from the stack at index, deleting the stack when
// its quantity reaches zero. Returns a copy of the consumed stack.
func (s *PlayerSession) Consume(index int, itemID string) (*game.ItemStack, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stack, err := s.stackAt(index, itemID)
	if err != nil {
		return nil, err
	}

	used := stack.Clone()
	if stack.Quantity > 1 {
		stack.Quantity--
	} else {
		s.inventory = append(s.inventory[:index], s.inventory[index+1:]...)
	}
	return used, nil
}

// AddItem places a stack into the inventory. A full inventory rejects the
// item outright, even when it could have stacked. Otherwise consumables
// stack into an existing entry with the same item id and everything else
// appends.
func (s *PlayerSession) AddItem(item *game.ItemStack) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.inventory) >= game.InventoryCapacity {
		return game.ErrInventoryFull
	}

	if item.Type == game.ItemTypeConsumable {
		for _, stack := range s.inventory {
			if stack.ItemID == item.ItemID && stack.Type == game.ItemTypeConsumable {
				stack.Quantity += item.Quantity
				return nil
			}
		}
	}

	s.inventory = append(s.inventory, item.Clone())
	return nil
}

func (s *PlayerSession) stackAt(index int, itemID string) (*game.ItemStack, error) {
	if index < 0 || index >= len(s.inventory) {
		return nil, game.ErrItemMismatch
	}
	stack := s.inventory[index]
	if stack.ItemID != itemID {
		return nil, game.ErrItemMismatch
	}
	return stack, nil
}
