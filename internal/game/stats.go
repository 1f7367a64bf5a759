package game

const (
	// MaxHealth is the health ceiling for every player.
	MaxHealth = 100
	// MaxStamina is the stamina ceiling for every player.
	MaxStamina = 100
)

// ClampHealth bounds a health value to [0, MaxHealth].
func ClampHealth(v int) int {
	return clamp(v, 0, MaxHealth)
}

// ClampStamina bounds a stamina value to [0, MaxStamina].
func ClampStamina(v int) int {
	return clamp(v, 0, MaxStamina)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
