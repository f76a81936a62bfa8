package combat

import (
	"fmt"

	"github.com/MJE43/eclipse-combat/internal/catalog"
)

// scriptedSource replays fixed draws so tests can set exact dice.
type scriptedSource struct {
	values []int
	pos    int
}

// faces builds a source from die faces 1-6 (or rift face indices via rift()).
func faces(rolls ...int) *scriptedSource {
	values := make([]int, len(rolls))
	for i, r := range rolls {
		values[i] = r - 1
	}
	return &scriptedSource{values: values}
}

func (s *scriptedSource) IntN(n int) int {
	if s.pos >= len(s.values) {
		panic(fmt.Sprintf("scripted source exhausted after %d draws", s.pos))
	}
	v := s.values[s.pos]
	s.pos++
	if v < 0 || v >= n {
		panic(fmt.Sprintf("scripted value %d out of range [0,%d)", v, n))
	}
	return v
}

func (s *scriptedSource) remaining() int {
	return len(s.values) - s.pos
}

func shipOf(name string, stats catalog.ShipTypeStats) Ship {
	if stats.Category == "" {
		stats.Category = catalog.CategoryCruiser
	}
	return NewShip(name, stats)
}

func fleetOf(ships ...Ship) Fleet {
	return Fleet{Ships: ships}
}

func gunboat(initiative int) catalog.ShipTypeStats {
	return catalog.ShipTypeStats{Hull: 1, Computer: 1, Cannons: catalog.Weapons{1: 1}, Initiative: initiative}
}
