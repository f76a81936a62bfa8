package combat

import "github.com/MJE43/eclipse-combat/internal/catalog"

const (
	minHitChance = 1.0 / 6
	maxHitChance = 5.0 / 6
)

// HitProbability is the chance a single die hits, clamped to [1/6, 5/6].
func HitProbability(computer, shield int) float64 {
	p := 1.0/6 + float64(computer)*(1.0/6) - float64(shield)*(1.0/6)
	return min(max(p, minHitChance), maxHitChance)
}

// ExpectedDamage estimates the damage a ship deals per turn against the
// given shield. It only ranks targets; dice are resolved by the roll rule.
// Each rift cannon adds one point.
func ExpectedDamage(s *Ship, opposingShield int, includeMissiles bool) float64 {
	p := HitProbability(s.Stats.Computer, opposingShield)
	total := sumWeapons(s.cannons, p)
	if includeMissiles {
		total += sumWeapons(s.missiles, p)
	}
	return total + float64(s.Stats.RiftCannons)
}

func sumWeapons(groups []catalog.DieGroup, p float64) float64 {
	total := 0.0
	for _, g := range groups {
		total += float64(g.Damage) * float64(g.Count) * p
	}
	return total
}
