package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"io"
	"strings"
	"testing"

	"github.com/MJE43/eclipse-combat/internal/sim"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"-attacker", "Interceptor=8"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Trials != 10000 {
		t.Fatalf("expected default trials 10000, got %d", cfg.Trials)
	}
	if cfg.Attacker["Interceptor"] != 8 || len(cfg.Defender) != 0 {
		t.Fatalf("unexpected fleets: %v vs %v", cfg.Attacker, cfg.Defender)
	}
}

func TestParseConfigEnvAndFlags(t *testing.T) {
	t.Setenv("ECLIPSE_COMBAT_TRIALS", "500")
	t.Setenv("ECLIPSE_COMBAT_WORKERS", "2")

	cfg, err := ParseConfig(newFlagSet(), []string{"-defender", "Ancient=2", "-workers", "5", "-seed", "abc"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Trials != 500 {
		t.Fatalf("expected env trials 500, got %d", cfg.Trials)
	}
	if cfg.Workers != 5 {
		t.Fatalf("expected flag workers 5, got %d", cfg.Workers)
	}
	if cfg.Seed != "abc" {
		t.Fatalf("expected seed abc, got %q", cfg.Seed)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no_fleets", nil},
		{"bad_composition", []string{"-attacker", "Cruiser"}},
		{"zero_trials", []string{"-attacker", "Cruiser=1", "-trials", "0"}},
		{"bad_log_format", []string{"-attacker", "Cruiser=1", "-log-format", "xml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig(newFlagSet(), tt.args); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunReport(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{
		"-attacker", "Interceptor=10",
		"-trials", "200",
		"-seed", "report",
		"-log-level", "error",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	var out bytes.Buffer
	if err := Run(context.Background(), cfg, &out, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "Interceptor limited to 8") {
		t.Errorf("expected clamp note, got:\n%s", text)
	}
	if !strings.Contains(text, "100.00%") {
		t.Errorf("expected certain attacker win, got:\n%s", text)
	}
}

func TestRunJSON(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{
		"-attacker", "Cruiser=1",
		"-defender", "Cruiser=1",
		"-trials", "300",
		"-seed", "json",
		"-json",
		"-progress",
		"-log-level", "error",
	})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}

	var out, progress bytes.Buffer
	if err := Run(context.Background(), cfg, &out, &progress); err != nil {
		t.Fatalf("run: %v", err)
	}
	var result sim.Result
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Trials != 300 || result.Seed != "json" {
		t.Fatalf("unexpected result: %+v", result)
	}
	if result.AttackerWins+result.DefenderWins+result.Draws != 300 {
		t.Fatalf("outcomes do not add up: %+v", result)
	}
}

func TestRunUnknownShip(t *testing.T) {
	cfg, err := ParseConfig(newFlagSet(), []string{"-attacker", "Mothership=1", "-trials", "5", "-log-level", "error"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	err = Run(context.Background(), cfg, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "Mothership") {
		t.Fatalf("expected unknown ship error, got %v", err)
	}
}

func TestBarProgressNeverMovesBack(t *testing.T) {
	bar := newProgressBar(1000, io.Discard)
	progress := barProgress(bar)

	steps := []struct {
		done uint64
		want float64
	}{
		{256, 0.256},
		{768, 0.768},
		{512, 0.768},
		{1000, 1},
		{768, 1},
	}
	for _, step := range steps {
		progress(step.done, 1000)
		if got := bar.State().CurrentPercent; got != step.want {
			t.Fatalf("after reporting %d: bar at %v, want %v", step.done, got, step.want)
		}
	}
}
