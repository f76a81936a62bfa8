package combat

import (
	"math"
	"testing"

	"github.com/MJE43/eclipse-combat/internal/catalog"
)

func TestHitProbabilityClamped(t *testing.T) {
	tests := []struct {
		name     string
		computer int
		shield   int
		want     float64
	}{
		{"base", 0, 0, 1.0 / 6},
		{"computer_one", 1, 0, 2.0 / 6},
		{"shield_cancels_computer", 2, 2, 1.0 / 6},
		{"computer_three", 3, 1, 3.0 / 6},
		{"high_computer_capped", 10, 0, 5.0 / 6},
		{"high_shield_floored", 0, 10, 1.0 / 6},
		{"both_extreme", 10, 10, 1.0 / 6},
		{"four_computer_capped", 4, 0, 5.0 / 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HitProbability(tt.computer, tt.shield)
			if got < 1.0/6 || got > 5.0/6 {
				t.Fatalf("HitProbability(%d, %d) = %v outside [1/6, 5/6]", tt.computer, tt.shield, got)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("HitProbability(%d, %d) = %v, want %v", tt.computer, tt.shield, got, tt.want)
			}
		})
	}
}

func TestHitProbabilityRangeSweep(t *testing.T) {
	for computer := -5; computer <= 15; computer++ {
		for shield := -5; shield <= 15; shield++ {
			p := HitProbability(computer, shield)
			if p < 1.0/6 || p > 5.0/6 {
				t.Fatalf("HitProbability(%d, %d) = %v", computer, shield, p)
			}
		}
	}
}

func TestExpectedDamage(t *testing.T) {
	s := shipOf("Raider", catalog.ShipTypeStats{
		Computer:    1,
		Cannons:     catalog.Weapons{1: 2, 2: 1},
		Missiles:    catalog.Weapons{2: 2},
		RiftCannons: 1,
	})

	// p = 2/6: cannons 2*1 + 1*2 = 4 damage at p, missiles 4 at p, rift +1
	tests := []struct {
		name     string
		shield   int
		missiles bool
		want     float64
	}{
		{"cannons_and_rift", 0, false, 4*(2.0/6) + 1},
		{"with_missiles", 0, true, 8*(2.0/6) + 1},
		{"shielded_target_floor", 3, false, 4*(1.0/6) + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExpectedDamage(&s, tt.shield, tt.missiles)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ExpectedDamage = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpectedDamageUnarmed(t *testing.T) {
	s := shipOf("Hulk", catalog.ShipTypeStats{Hull: 5})
	if got := ExpectedDamage(&s, 0, true); got != 0 {
		t.Errorf("unarmed ship expected damage = %v", got)
	}
}
