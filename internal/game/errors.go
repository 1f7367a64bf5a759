package game

import "errors"

var (
	ErrPlayerNotFound      = errors.New("player not found")
	ErrTargetNotFound      = errors.New("target not found")
	ErrWeaponNotEquipped   = errors.New("weapon not found in inventory")
	ErrInsufficientStamina = errors.New("not enough stamina")
	ErrItemMismatch        = errors.New("item not found in inventory at specified position")
	ErrItemNotFound        = errors.New("item not found at this position")
	ErrInventoryFull       = errors.New("inventory is full")
	ErrNotInGuild          = errors.New("not in a guild")
)
