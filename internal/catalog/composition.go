package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Adjustment records a count that was lowered to its category cap.
type Adjustment struct {
	Name      string
	Category  Category
	Requested int
	Allowed   int
}

// ParseComposition parses "Name=count,Name=count" into a fleet composition.
// An empty string yields an empty fleet.
func ParseComposition(s string) (map[string]int, error) {
	counts := make(map[string]int)
	s = strings.TrimSpace(s)
	if s == "" {
		return counts, nil
	}

	for _, part := range strings.Split(s, ",") {
		name, value, ok := strings.Cut(strings.TrimSpace(part), "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q is not name=count", ErrInvalidComposition, part)
		}
		count, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: bad count for %q", ErrInvalidComposition, name)
		}
		counts[name] += count
	}
	return counts, nil
}

// ClampComposition caps each count at its category limit and returns the
// capped composition with the adjustments made. Names missing from the
// catalog are left untouched for the fleet builder to reject.
func ClampComposition(cat Catalog, counts map[string]int) (map[string]int, []Adjustment) {
	out := make(map[string]int, len(counts))
	var adjustments []Adjustment
	for name, count := range counts {
		stats, ok := cat.Lookup(name)
		if !ok {
			out[name] = count
			continue
		}
		limit := stats.Category.Limit()
		if count > limit {
			adjustments = append(adjustments, Adjustment{
				Name:      name,
				Category:  stats.Category,
				Requested: count,
				Allowed:   limit,
			})
			count = limit
		}
		out[name] = count
	}
	slices.SortFunc(adjustments, func(a, b Adjustment) int { return strings.Compare(a.Name, b.Name) })
	return out, adjustments
}

// FormatComposition renders a composition in the form ParseComposition
// reads, names sorted.
func FormatComposition(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, name := range slices.Sorted(maps.Keys(counts)) {
		parts = append(parts, fmt.Sprintf("%s=%d", name, counts[name]))
	}
	return strings.Join(parts, ",")
}
