package combat

import (
	"cmp"
	"slices"
)

// WeaponClass selects the threat model used when ranking targets.
type WeaponClass uint8

const (
	Standard WeaponClass = iota
	Guided
	Area
)

func (c WeaponClass) String() string {
	switch c {
	case Guided:
		return "missile"
	case Area:
		return "rift"
	default:
		return "cannon"
	}
}

type candidate struct {
	ship      *Ship
	threat    float64
	partition int
}

// Targeter ranks enemy ships for incoming hits. The zero value is ready to
// use; it keeps a scratch buffer and must not be shared between battles.
type Targeter struct {
	buf    []candidate
	ranked []*Ship
}

// Rank orders the living ships of fleet by priority for a hit of the given
// damage. allyShield is the best shield among the shooter's living allies;
// threat is estimated as if each candidate fired back at it.
func (t *Targeter) Rank(fleet *Fleet, shooter *Ship, allyShield, damage int, class WeaponClass) []*Ship {
	t.buf = t.buf[:0]
	for i := range fleet.Ships {
		target := &fleet.Ships[i]
		if !target.Alive() {
			continue
		}
		c := candidate{ship: target}
		if class == Guided && target.Stats.Initiative < shooter.Stats.Initiative {
			// Slower ships still hold their missiles.
			c.threat = ExpectedDamage(target, allyShield, true)
		} else {
			c.threat = ExpectedDamage(target, allyShield, false)
			if class == Guided {
				c.partition = 1
			}
		}
		t.buf = append(t.buf, c)
	}

	slices.SortStableFunc(t.buf, func(a, b candidate) int {
		return compareCandidates(a, b, damage)
	})

	t.ranked = t.ranked[:0]
	for _, c := range t.buf {
		t.ranked = append(t.ranked, c.ship)
	}
	return t.ranked
}

// Select returns the highest priority target the roll can hit, or nil.
func (t *Targeter) Select(fleet *Fleet, roll int, shooter *Ship, allyShield, damage int, class WeaponClass) *Ship {
	for _, target := range t.Rank(fleet, shooter, allyShield, damage, class) {
		if CanHit(roll, shooter, target) {
			return target
		}
	}
	return nil
}

// CanHit applies the to-hit rule: a natural 6 always hits, otherwise
// roll + computer - shield must reach 6.
func CanHit(roll int, shooter, target *Ship) bool {
	return roll == criticalRoll || roll+shooter.Stats.Computer-target.Stats.Shield >= criticalRoll
}

// compareCandidates orders by threat, then prefers the ship this hit kills
// most cleanly: hull closest to damage-1, killable first, lower hull.
func compareCandidates(a, b candidate, damage int) int {
	if a.threat != b.threat {
		if a.threat > b.threat {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(absInt(a.ship.Hull-(damage-1)), absInt(b.ship.Hull-(damage-1))); c != 0 {
		return c
	}
	aKill, bKill := a.ship.Hull < damage, b.ship.Hull < damage
	if aKill != bKill {
		if aKill {
			return -1
		}
		return 1
	}
	if c := cmp.Compare(a.ship.Hull, b.ship.Hull); c != 0 {
		return c
	}
	if c := cmp.Compare(a.partition, b.partition); c != 0 {
		return c
	}
	return cmp.Compare(a.ship.Index, b.ship.Index)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
