// Package combat resolves fleet battles: dice, target selection and the
// initiative-ordered rounds of a single engagement.
package combat

import (
	"fmt"
	"maps"
	"slices"

	"github.com/MJE43/eclipse-combat/internal/catalog"
)

// Side identifies which fleet a ship fights for.
type Side uint8

const (
	Attacker Side = iota
	Defender
)

func (s Side) String() string {
	if s == Defender {
		return "defender"
	}
	return "attacker"
}

// Ship is a mutable instance of a ship type, owned by one battle.
type Ship struct {
	Type  string
	Stats catalog.ShipTypeStats
	Hull  int
	Side  Side
	// Index is the per-battle sequence number used only for tie-breaks.
	Index int

	cannons  []catalog.DieGroup
	missiles []catalog.DieGroup
}

// NewShip creates a ship at full hull.
func NewShip(name string, stats catalog.ShipTypeStats) Ship {
	return Ship{
		Type:     name,
		Stats:    stats,
		Hull:     stats.Hull,
		cannons:  stats.Cannons.Groups(),
		missiles: stats.Missiles.Groups(),
	}
}

// Alive reports whether the ship can still fire and be targeted.
func (s *Ship) Alive() bool {
	return s.Hull >= 0
}

// Fleet owns its ships by value. Alive views are index lists into Ships.
type Fleet struct {
	Ships []Ship
}

// BuildFleet expands a composition into ship instances. Ship types are
// expanded in name order so the roster is the same for equal inputs.
func BuildFleet(cat catalog.Catalog, counts map[string]int) (Fleet, error) {
	total := 0
	for name, count := range counts {
		if count < 0 {
			return Fleet{}, fmt.Errorf("%w: %s=%d", ErrInvalidCount, name, count)
		}
		total += count
	}

	fleet := Fleet{Ships: make([]Ship, 0, total)}
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		count := counts[name]
		if count == 0 {
			continue
		}
		stats, ok := cat.Lookup(name)
		if !ok {
			return Fleet{}, fmt.Errorf("%w: %q", ErrUnknownShipType, name)
		}
		if err := stats.Validate(); err != nil {
			return Fleet{}, fmt.Errorf("ship type %q: %w", name, err)
		}
		template := NewShip(name, stats)
		for i := 0; i < count; i++ {
			fleet.Ships = append(fleet.Ships, template)
		}
	}
	return fleet, nil
}

// Len returns the number of ships, dead or alive.
func (f *Fleet) Len() int {
	return len(f.Ships)
}

// Clone copies the ships so the result can be mutated independently.
// Stat blocks are shared; they are never written.
func (f *Fleet) Clone() Fleet {
	return Fleet{Ships: slices.Clone(f.Ships)}
}

// Alive appends the indices of living ships to dst.
func (f *Fleet) Alive(dst []int) []int {
	for i := range f.Ships {
		if f.Ships[i].Alive() {
			dst = append(dst, i)
		}
	}
	return dst
}

// AnyAlive reports whether at least one ship has hull >= 0.
func (f *Fleet) AnyAlive() bool {
	for i := range f.Ships {
		if f.Ships[i].Alive() {
			return true
		}
	}
	return false
}

// Armed reports whether a living ship carries standard dice or rift cannons.
func (f *Fleet) Armed() bool {
	for i := range f.Ships {
		if f.Ships[i].Alive() && f.Ships[i].Stats.Armed() {
			return true
		}
	}
	return false
}

// Compact drops dead ships in place, keeping order.
func (f *Fleet) Compact() {
	f.Ships = slices.DeleteFunc(f.Ships, func(s Ship) bool { return !s.Alive() })
}

// TotalHull sums the hull of living ships.
func (f *Fleet) TotalHull() int {
	total := 0
	for i := range f.Ships {
		if f.Ships[i].Alive() {
			total += f.Ships[i].Hull
		}
	}
	return total
}

// Survivors counts living ships per type.
func (f *Fleet) Survivors() map[string]int {
	out := make(map[string]int)
	for i := range f.Ships {
		if f.Ships[i].Alive() {
			out[f.Ships[i].Type]++
		}
	}
	return out
}
