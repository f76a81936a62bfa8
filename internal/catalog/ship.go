// Package catalog holds ship-type stat blocks and the lookup interface the
// combat engine reads them through.
package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Category is the fleet category of a ship type
type Category string

const (
	CategoryInterceptor Category = "interceptor"
	CategoryCruiser     Category = "cruiser"
	CategoryDreadnought Category = "dreadnought"
	CategoryStarbase    Category = "starbase"
	CategoryAncient     Category = "ancient"
	CategoryNeutral     Category = "neutral"
)

// CategoryLimits is the maximum number of ships of each category in one fleet.
var CategoryLimits = map[Category]int{
	CategoryInterceptor: 8,
	CategoryCruiser:     4,
	CategoryDreadnought: 2,
	CategoryStarbase:    4,
	CategoryAncient:     2,
	CategoryNeutral:     1,
}

// Categories lists the categories in display order.
var Categories = []Category{
	CategoryInterceptor,
	CategoryCruiser,
	CategoryDreadnought,
	CategoryStarbase,
	CategoryAncient,
	CategoryNeutral,
}

// Limit returns the per-fleet cap for the category, or 0 if unknown.
func (c Category) Limit() int {
	return CategoryLimits[c]
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	_, ok := CategoryLimits[c]
	return ok
}

// Weapons maps die damage to the number of dice of that damage.
type Weapons map[int]int

// DieGroup is one entry of a Weapons table.
type DieGroup struct {
	Damage int
	Count  int
}

// Groups returns the non-empty groups ordered by damage, highest first.
func (w Weapons) Groups() []DieGroup {
	groups := make([]DieGroup, 0, len(w))
	for damage, count := range w {
		if count > 0 {
			groups = append(groups, DieGroup{Damage: damage, Count: count})
		}
	}
	slices.SortFunc(groups, func(a, b DieGroup) int { return b.Damage - a.Damage })
	return groups
}

// Dice returns the total number of dice in the table.
func (w Weapons) Dice() int {
	total := 0
	for _, count := range w {
		total += count
	}
	return total
}

// String renders the table as count x damage groups, e.g. "2x1,1x4".
func (w Weapons) String() string {
	groups := w.Groups()
	if len(groups) == 0 {
		return "-"
	}
	parts := make([]string, len(groups))
	for i, g := range groups {
		parts[i] = fmt.Sprintf("%dx%d", g.Count, g.Damage)
	}
	return strings.Join(parts, ",")
}

// ShipTypeStats is the immutable stat block of a ship type.
type ShipTypeStats struct {
	Category           Category `json:"category" yaml:"category"`
	Hull               int      `json:"hull" yaml:"hull"`
	Computer           int      `json:"computer" yaml:"computer"`
	Shield             int      `json:"shield" yaml:"shield"`
	Cannons            Weapons  `json:"cannons" yaml:"cannons"`
	Missiles           Weapons  `json:"missiles" yaml:"missiles"`
	RiftCannons        int      `json:"rift_cannons" yaml:"rift_cannons"`
	Initiative         int      `json:"initiative" yaml:"initiative"`
	AntimatterSplitter bool     `json:"antimatter_splitter" yaml:"antimatter_splitter"`
}

// Validate checks the stat block invariants the combat engine relies on.
func (s ShipTypeStats) Validate() error {
	if !s.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, s.Category)
	}
	if s.Hull < 0 {
		return fmt.Errorf("%w: hull %d is negative", ErrInvalidStats, s.Hull)
	}
	if s.RiftCannons < 0 {
		return fmt.Errorf("%w: rift cannon count %d is negative", ErrInvalidStats, s.RiftCannons)
	}
	if err := validateWeapons("cannon", s.Cannons); err != nil {
		return err
	}
	return validateWeapons("missile", s.Missiles)
}

// Armed reports whether the ship can deal damage during standard rounds.
func (s ShipTypeStats) Armed() bool {
	return s.Cannons.Dice() > 0 || s.RiftCannons > 0
}

// Clone returns a copy that shares no maps with s.
func (s ShipTypeStats) Clone() ShipTypeStats {
	c := s
	c.Cannons = cloneWeapons(s.Cannons)
	c.Missiles = cloneWeapons(s.Missiles)
	return c
}

func cloneWeapons(w Weapons) Weapons {
	out := make(Weapons, len(w))
	for damage, count := range w {
		out[damage] = count
	}
	return out
}

func validateWeapons(kind string, w Weapons) error {
	for damage, count := range w {
		if damage < 1 {
			return fmt.Errorf("%w: %s damage %d must be at least 1", ErrInvalidStats, kind, damage)
		}
		if count < 0 {
			return fmt.Errorf("%w: %s count %d for damage %d is negative", ErrInvalidStats, kind, count, damage)
		}
	}
	return nil
}
