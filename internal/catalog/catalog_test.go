package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultsValid(t *testing.T) {
	r := Defaults()
	if r.Len() != 7 {
		t.Fatalf("expected 7 default ship types, got %d", r.Len())
	}
	for _, name := range r.Names() {
		stats, _ := r.Lookup(name)
		if err := stats.Validate(); err != nil {
			t.Errorf("default %s invalid: %v", name, err)
		}
	}
}

func TestRegistryLookup(t *testing.T) {
	r := Defaults()

	stats, ok := r.Lookup("Dreadnought")
	if !ok {
		t.Fatal("Dreadnought missing from defaults")
	}
	if stats.Hull != 2 || stats.Initiative != 1 || stats.Cannons[1] != 2 {
		t.Errorf("unexpected Dreadnought stats: %+v", stats)
	}

	if _, ok := r.Lookup("Mothership"); ok {
		t.Error("lookup of unknown ship type succeeded")
	}
}

func TestRegistryRegisterCopiesWeapons(t *testing.T) {
	r := NewRegistry()
	cannons := Weapons{2: 1}
	if err := r.Register("Raider", ShipTypeStats{Category: CategoryCruiser, Hull: 1, Cannons: cannons}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	cannons[2] = 5

	stats, _ := r.Lookup("Raider")
	if stats.Cannons[2] != 1 {
		t.Errorf("registry shares caller's weapon map: got %d dice", stats.Cannons[2])
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		stats   ShipTypeStats
		wantErr error
	}{
		{"valid", ShipTypeStats{Category: CategoryCruiser, Hull: 1, Cannons: Weapons{1: 1}}, nil},
		{"unknown_category", ShipTypeStats{Category: "battlestar"}, ErrUnknownCategory},
		{"negative_hull", ShipTypeStats{Category: CategoryCruiser, Hull: -1}, ErrInvalidStats},
		{"negative_rift", ShipTypeStats{Category: CategoryCruiser, RiftCannons: -2}, ErrInvalidStats},
		{"negative_dice", ShipTypeStats{Category: CategoryCruiser, Cannons: Weapons{1: -1}}, ErrInvalidStats},
		{"zero_damage_die", ShipTypeStats{Category: CategoryCruiser, Missiles: Weapons{0: 1}}, ErrInvalidStats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.stats.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWeaponGroupsOrdered(t *testing.T) {
	w := Weapons{1: 2, 4: 1, 2: 3, 3: 0}
	groups := w.Groups()
	want := []DieGroup{{4, 1}, {2, 3}, {1, 2}}
	if len(groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(groups), len(want))
	}
	for i := range want {
		if groups[i] != want[i] {
			t.Errorf("group %d = %+v, want %+v", i, groups[i], want[i])
		}
	}
	if w.Dice() != 6 {
		t.Errorf("Dice() = %d, want 6", w.Dice())
	}
}

func TestArmed(t *testing.T) {
	if (ShipTypeStats{Missiles: Weapons{2: 2}}).Armed() {
		t.Error("missile-only ship reported armed for standard rounds")
	}
	if !(ShipTypeStats{RiftCannons: 1}).Armed() {
		t.Error("rift cannon ship reported unarmed")
	}
}

func TestParseComposition(t *testing.T) {
	tests := []struct {
		input   string
		want    map[string]int
		wantErr bool
	}{
		{"", map[string]int{}, false},
		{"Interceptor=8", map[string]int{"Interceptor": 8}, false},
		{" Cruiser = 2 , Ancient=1", map[string]int{"Cruiser": 2, "Ancient": 1}, false},
		{"Cruiser=1,Cruiser=2", map[string]int{"Cruiser": 3}, false},
		{"Cruiser", nil, true},
		{"=3", nil, true},
		{"Cruiser=-1", nil, true},
		{"Cruiser=two", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseComposition(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidComposition) {
					t.Fatalf("expected ErrInvalidComposition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for name, count := range tt.want {
				if got[name] != count {
					t.Errorf("%s = %d, want %d", name, got[name], count)
				}
			}
		})
	}
}

func TestClampComposition(t *testing.T) {
	r := Defaults()
	counts := map[string]int{"Interceptor": 10, "Cruiser": 3, "GCDS": 2, "Unknown": 5}

	clamped, adjustments := ClampComposition(r, counts)
	if clamped["Interceptor"] != 8 || clamped["Cruiser"] != 3 || clamped["GCDS"] != 1 {
		t.Errorf("unexpected clamp result: %v", clamped)
	}
	if clamped["Unknown"] != 5 {
		t.Errorf("unknown ship type should pass through, got %d", clamped["Unknown"])
	}
	if len(adjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %d", len(adjustments))
	}
	if adjustments[0].Name != "GCDS" || adjustments[0].Allowed != 1 || adjustments[1].Name != "Interceptor" {
		t.Errorf("unexpected adjustments: %+v", adjustments)
	}
}

func TestFormatComposition(t *testing.T) {
	got := FormatComposition(map[string]int{"Cruiser": 2, "Ancient": 1})
	if got != "Ancient=1,Cruiser=2" {
		t.Errorf("FormatComposition = %q", got)
	}
}

func TestYAMLRoundTripThroughFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ships.yaml")
	ships := map[string]ShipTypeStats{
		"Cruiser": {Category: CategoryCruiser, Hull: 3, Computer: 2, Shield: 1, Cannons: Weapons{2: 1}, Missiles: Weapons{2: 2}, Initiative: 3},
		"Rifter":  {Category: CategoryDreadnought, Hull: 4, RiftCannons: 2, Cannons: Weapons{4: 1}, AntimatterSplitter: true, Initiative: 1},
	}
	if err := WriteFile(path, ships); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	r, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if r.Len() != 8 {
		t.Errorf("expected defaults plus one new type (8), got %d", r.Len())
	}

	cruiser, _ := r.Lookup("Cruiser")
	if cruiser.Hull != 3 || cruiser.Missiles[2] != 2 || cruiser.Shield != 1 {
		t.Errorf("file entry did not replace default Cruiser: %+v", cruiser)
	}
	rifter, ok := r.Lookup("Rifter")
	if !ok || !rifter.AntimatterSplitter || rifter.RiftCannons != 2 {
		t.Errorf("Rifter not loaded correctly: %+v", rifter)
	}
}

func TestLoadFileRejectsBadStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "Broken:\n  category: cruiser\n  hull: -3\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); !errors.Is(err, ErrInvalidStats) {
		t.Errorf("expected ErrInvalidStats, got %v", err)
	}
}

func TestLoadFileRejectsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.yaml")
	doc := "Typo:\n  category: cruiser\n  hul: 3\n"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestWeaponsString(t *testing.T) {
	tests := []struct {
		w    Weapons
		want string
	}{
		{nil, "-"},
		{Weapons{1: 0}, "-"},
		{Weapons{1: 2, 4: 1}, "1x4,2x1"},
	}
	for _, tt := range tests {
		if got := tt.w.String(); got != tt.want {
			t.Errorf("%v.String() = %q, want %q", map[int]int(tt.w), got, tt.want)
		}
	}
}
