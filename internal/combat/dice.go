package combat

import (
	"github.com/MJE43/eclipse-combat/internal/catalog"
	"github.com/MJE43/eclipse-combat/internal/engine"
)

const (
	missRoll     = 1
	criticalRoll = 6
	splitDamage  = 4
	splitHits    = 4
)

// Hit is one scoring die: the damage it carries and the raw face rolled.
type Hit struct {
	Damage int
	Roll   int
}

// RollCannons rolls the ship's standard dice and appends the scoring hits to
// dst. With an antimatter splitter a damage-4 hit becomes four damage-1 hits.
func RollCannons(src engine.Source, s *Ship, dst []Hit) []Hit {
	return rollGroups(src, s.cannons, s.Stats.AntimatterSplitter, dst)
}

// RollMissiles rolls the ship's missile dice and appends the scoring hits to dst.
func RollMissiles(src engine.Source, s *Ship, dst []Hit) []Hit {
	return rollGroups(src, s.missiles, false, dst)
}

func rollGroups(src engine.Source, groups []catalog.DieGroup, splitter bool, dst []Hit) []Hit {
	for _, g := range groups {
		for i := 0; i < g.Count; i++ {
			roll := engine.D6(src)
			if roll == missRoll {
				continue
			}
			if splitter && g.Damage == splitDamage {
				for j := 0; j < splitHits; j++ {
					dst = append(dst, Hit{Damage: 1, Roll: roll})
				}
				continue
			}
			dst = append(dst, Hit{Damage: g.Damage, Roll: roll})
		}
	}
	return dst
}

// RiftFace is one side of the rift cannon die.
type RiftFace uint8

const (
	RiftOverload RiftFace = iota // 3 to the target, 1 to own fleet
	RiftDouble
	RiftSingle
	RiftBackfire // 1 to own fleet only
	RiftMiss
	RiftMissAlt
	riftFaces
)

var riftEffects = [riftFaces]struct{ target, self int }{
	RiftOverload: {target: 3, self: 1},
	RiftDouble:   {target: 2},
	RiftSingle:   {target: 1},
	RiftBackfire: {self: 1},
	RiftMiss:     {},
	RiftMissAlt:  {},
}

// Effect returns the damage the face deals to the target and to the firing fleet.
func (f RiftFace) Effect() (target, self int) {
	e := riftEffects[f]
	return e.target, e.self
}

// RiftTally counts how many charges landed on each face.
type RiftTally [riftFaces]int

// RollRift rolls each rift charge onto one of the six faces.
func RollRift(src engine.Source, charges int) RiftTally {
	var tally RiftTally
	for i := 0; i < charges; i++ {
		tally[src.IntN(int(riftFaces))]++
	}
	return tally
}
