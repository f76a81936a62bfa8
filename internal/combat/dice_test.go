package combat

import (
	"testing"

	"github.com/MJE43/eclipse-combat/internal/catalog"
	"github.com/MJE43/eclipse-combat/internal/engine"
)

func TestRollCannonsDropsOnes(t *testing.T) {
	s := shipOf("Gun", catalog.ShipTypeStats{Cannons: catalog.Weapons{1: 3, 2: 1}})
	// Highest damage group rolls first: 2-damage die shows 1, then 1-damage dice show 6, 1, 4.
	src := faces(1, 6, 1, 4)

	hits := RollCannons(src, &s, nil)
	want := []Hit{{Damage: 1, Roll: 6}, {Damage: 1, Roll: 4}}
	if len(hits) != len(want) {
		t.Fatalf("got %d hits, want %d: %+v", len(hits), len(want), hits)
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Errorf("hit %d = %+v, want %+v", i, hits[i], want[i])
		}
	}
	if src.remaining() != 0 {
		t.Errorf("%d draws left unused", src.remaining())
	}
}

func TestAntimatterSplitter(t *testing.T) {
	tests := []struct {
		name     string
		splitter bool
		cannons  catalog.Weapons
		want     []Hit
	}{
		{
			name:     "splits_damage_four",
			splitter: true,
			cannons:  catalog.Weapons{4: 1},
			want:     []Hit{{1, 5}, {1, 5}, {1, 5}, {1, 5}},
		},
		{
			name:     "no_splitter",
			splitter: false,
			cannons:  catalog.Weapons{4: 1},
			want:     []Hit{{4, 5}},
		},
		{
			name:     "other_tiers_unchanged",
			splitter: true,
			cannons:  catalog.Weapons{2: 1},
			want:     []Hit{{2, 5}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := shipOf("Splitter", catalog.ShipTypeStats{Cannons: tt.cannons, AntimatterSplitter: tt.splitter})
			hits := RollCannons(faces(5), &s, nil)
			if len(hits) != len(tt.want) {
				t.Fatalf("got %+v, want %+v", hits, tt.want)
			}
			for i := range tt.want {
				if hits[i] != tt.want[i] {
					t.Errorf("hit %d = %+v, want %+v", i, hits[i], tt.want[i])
				}
			}
		})
	}
}

func TestSplitterMissStillMisses(t *testing.T) {
	s := shipOf("Splitter", catalog.ShipTypeStats{Cannons: catalog.Weapons{4: 1}, AntimatterSplitter: true})
	if hits := RollCannons(faces(1), &s, nil); len(hits) != 0 {
		t.Errorf("roll of 1 produced hits: %+v", hits)
	}
}

func TestRollMissilesIgnoresSplitter(t *testing.T) {
	s := shipOf("Launcher", catalog.ShipTypeStats{Missiles: catalog.Weapons{4: 1}, AntimatterSplitter: true})
	hits := RollMissiles(faces(3), &s, nil)
	if len(hits) != 1 || hits[0] != (Hit{Damage: 4, Roll: 3}) {
		t.Errorf("missile hits = %+v", hits)
	}
}

func TestRiftFaces(t *testing.T) {
	blanks := 0
	for f := RiftFace(0); f < riftFaces; f++ {
		target, self := f.Effect()
		if target == 0 && self == 0 {
			blanks++
		}
	}
	if blanks != 2 {
		t.Errorf("expected 2 blank rift faces out of 6, got %d", blanks)
	}

	if target, self := RiftOverload.Effect(); target != 3 || self != 1 {
		t.Errorf("overload = (%d, %d)", target, self)
	}
	if target, self := RiftBackfire.Effect(); target != 0 || self != 1 {
		t.Errorf("backfire = (%d, %d)", target, self)
	}
}

func TestRollRiftTally(t *testing.T) {
	// faces() subtracts one, so pass face index + 1.
	src := faces(int(RiftDouble)+1, int(RiftMiss)+1, int(RiftDouble)+1)
	tally := RollRift(src, 3)
	if tally[RiftDouble] != 2 || tally[RiftMiss] != 1 {
		t.Errorf("tally = %v", tally)
	}
}

func TestRollRiftMissRate(t *testing.T) {
	if testing.Short() {
		t.Skip("statistical test")
	}
	src := engine.NewTrialSource("rift-rate", 0)
	const charges = 60000
	tally := RollRift(src, charges)
	misses := tally[RiftMiss] + tally[RiftMissAlt]
	rate := float64(misses) / charges
	if rate < 0.32 || rate > 0.347 {
		t.Errorf("rift miss rate = %.4f, want about 2/6", rate)
	}
}
