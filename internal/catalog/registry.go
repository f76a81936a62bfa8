package catalog

import (
	"fmt"
	"maps"
	"slices"
)

// Catalog resolves ship-type names to stat blocks. Implementations must be
// safe for concurrent reads; the combat engine never writes through it.
type Catalog interface {
	Lookup(name string) (ShipTypeStats, bool)
}

// Registry is an in-memory Catalog.
type Registry struct {
	ships map[string]ShipTypeStats
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{ships: make(map[string]ShipTypeStats)}
}

// Defaults returns a registry holding the built-in ship types.
func Defaults() *Registry {
	r := NewRegistry()
	for name, stats := range DefaultShipTypes() {
		r.ships[name] = stats
	}
	return r
}

// Register adds or replaces a ship type after validating it.
func (r *Registry) Register(name string, stats ShipTypeStats) error {
	if name == "" {
		return fmt.Errorf("%w: empty ship type name", ErrInvalidStats)
	}
	if err := stats.Validate(); err != nil {
		return fmt.Errorf("ship type %q: %w", name, err)
	}
	r.ships[name] = stats.Clone()
	return nil
}

// Lookup retrieves a ship type by name
func (r *Registry) Lookup(name string) (ShipTypeStats, bool) {
	stats, ok := r.ships[name]
	return stats, ok
}

// Names returns all registered ship type names, sorted.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.ships))
}

// All returns a copy of every registered ship type.
func (r *Registry) All() map[string]ShipTypeStats {
	out := make(map[string]ShipTypeStats, len(r.ships))
	for name, stats := range r.ships {
		out[name] = stats.Clone()
	}
	return out
}

// Len returns the number of registered ship types.
func (r *Registry) Len() int {
	return len(r.ships)
}

// DefaultShipTypes returns fresh copies of the built-in ship types.
func DefaultShipTypes() map[string]ShipTypeStats {
	return map[string]ShipTypeStats{
		"Interceptor": {Category: CategoryInterceptor, Hull: 0, Computer: 0, Shield: 0, Cannons: Weapons{1: 1}, Missiles: Weapons{}, Initiative: 3},
		"Cruiser":     {Category: CategoryCruiser, Hull: 1, Computer: 1, Shield: 0, Cannons: Weapons{1: 1}, Missiles: Weapons{}, Initiative: 2},
		"Dreadnought": {Category: CategoryDreadnought, Hull: 2, Computer: 1, Shield: 0, Cannons: Weapons{1: 2}, Missiles: Weapons{}, Initiative: 1},
		"Starbase":    {Category: CategoryStarbase, Hull: 2, Computer: 1, Shield: 0, Cannons: Weapons{1: 1}, Missiles: Weapons{}, Initiative: 4},
		"Ancient":     {Category: CategoryAncient, Hull: 1, Computer: 1, Shield: 0, Cannons: Weapons{1: 2}, Missiles: Weapons{}, Initiative: 2},
		"GCDS":        {Category: CategoryNeutral, Hull: 7, Computer: 2, Shield: 0, Cannons: Weapons{1: 4}, Missiles: Weapons{}, Initiative: 0},
		"Guardian":    {Category: CategoryNeutral, Hull: 2, Computer: 2, Shield: 0, Cannons: Weapons{1: 3}, Missiles: Weapons{}, Initiative: 3},
	}
}
