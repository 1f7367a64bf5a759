package game

import "math"

const (
	// AttackStaminaCost is deducted from the attacker on every swing.
	AttackStaminaCost = 10

	// CriticalChance is the probability an attack lands critically.
	CriticalChance = 0.1

	// defaultBaseDamage applies when the weapon declares no base damage.
	defaultBaseDamage = 10

	// maxDefenseReduction caps how much of an attack defense can absorb.
	maxDefenseReduction = 0.75
)

// DamageParams collects everything that feeds one damage roll. The critical
// decision is made by the caller so the formula itself stays deterministic.
type DamageParams struct {
	BaseDamage    int
	AttackerLevel int
	TargetDefense int
	Critical      bool
	Quality       int
	Element       string
}

// CalculateDamage applies the combat formula in a fixed order: level bonus,
// critical, quality tier, elemental tag, then defense mitigation. The result
// is floored and never below one.
func CalculateDamage(p DamageParams) int {
	base := float64(p.BaseDamage)
	if base <= 0 {
		base = defaultBaseDamage
	}

	dmg := base * (1 + 0.05*float64(p.AttackerLevel))
	if p.Critical {
		dmg *= 1.5
	}
	if p.Quality > 0 {
		dmg *= 0.8 + 0.1*float64(p.Quality)
	}
	if p.Element != "" {
		dmg *= 1.1
	}

	if p.TargetDefense > 0 {
		reduction := float64(p.TargetDefense) / float64(p.TargetDefense+50)
		if reduction > maxDefenseReduction {
			reduction = maxDefenseReduction
		}
		dmg *= 1 - reduction
	}

	out := int(math.Floor(dmg))
	if out < 1 {
		out = 1
	}
	return out
}
