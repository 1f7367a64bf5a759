package game

const (
	// PlayerDefeatExpPerLevel is the experience awarded for defeating a
	// player, per level of the victim.
	PlayerDefeatExpPerLevel = 10
	// NPCDefeatExpPerLevel is the experience awarded for defeating an NPC,
	// per level of the NPC.
	NPCDefeatExpPerLevel = 15
)

// LevelThreshold returns the experience required to advance past the given
// level. Low levels share a fixed floor so a fresh character still has a
// meaningful first threshold.
func LevelThreshold(level int) int {
	t := level * 100
	if t < 100 {
		return 100
	}
	return t
}

// AddExperience applies an experience gain to a level/experience pair.
// Each threshold crossing increments the level exactly once and carries the
// remainder forward, looping so a single large gain can advance multiple
// levels. Returns the new level, the new experience, and how many levels
// were gained.
func AddExperience(level, experience, gain int) (int, int, int) {
	if gain < 0 {
		gain = 0
	}
	experience += gain

	gained := 0
	for experience >= LevelThreshold(level) {
		experience -= LevelThreshold(level)
		level++
		gained++
	}

	return level, experience, gained
}
