// Package replay re-fights a single trial of a seeded run with a full
// battle trace, so a surprising result can be inspected hit by hit.
package replay

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/MJE43/eclipse-combat/internal/catalog"
	entrypoint "github.com/MJE43/eclipse-combat/internal/cmd/entrypoint"
	"github.com/MJE43/eclipse-combat/internal/combat"
	"github.com/MJE43/eclipse-combat/internal/config"
	"github.com/MJE43/eclipse-combat/internal/logging"
	"github.com/MJE43/eclipse-combat/internal/sim"
)

// Config holds replay command configuration.
type Config struct {
	config.Config
	Attacker map[string]int
	Defender map[string]int
	Seed     string
	Trial    uint64
	Trace    bool
	JSON     bool
}

// Outcome is the printable result of one replayed trial.
type Outcome struct {
	Seed      string         `json:"seed"`
	Trial     uint64         `json:"trial"`
	Winner    string         `json:"winner"`
	Rounds    int            `json:"rounds"`
	Survivors map[string]int `json:"survivors,omitempty"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(fs, &cfg.Config); err != nil {
		return Config{}, err
	}
	var attacker, defender string
	fs.StringVar(&attacker, "attacker", "", "attacking fleet, e.g. Interceptor=8,Cruiser=2")
	fs.StringVar(&defender, "defender", "", "defending fleet, e.g. Ancient=2")
	fs.StringVar(&cfg.Seed, "seed", "", "seed of the run to replay (required)")
	fs.Uint64Var(&cfg.Trial, "trial", 0, "trial index within the run")
	fs.BoolVar(&cfg.Trace, "trace", true, "log every volley, turn and hit to stderr")
	fs.BoolVar(&cfg.JSON, "json", false, "print the outcome as JSON")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	if cfg.Seed == "" {
		return Config{}, errors.New("-seed is required")
	}
	var err error
	if cfg.Attacker, err = catalog.ParseComposition(attacker); err != nil {
		return Config{}, fmt.Errorf("attacker: %w", err)
	}
	if cfg.Defender, err = catalog.ParseComposition(defender); err != nil {
		return Config{}, fmt.Errorf("defender: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run replays the trial and writes its outcome to out.
func Run(ctx context.Context, cfg Config, out io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	reg, err := entrypoint.LoadCatalog(cfg.Config)
	if err != nil {
		return err
	}
	attackerCounts, _ := catalog.ClampComposition(reg, cfg.Attacker)
	defenderCounts, _ := catalog.ClampComposition(reg, cfg.Defender)

	attacker, err := combat.BuildFleet(reg, attackerCounts)
	if err != nil {
		return fmt.Errorf("attacker fleet: %w", err)
	}
	defender, err := combat.BuildFleet(reg, defenderCounts)
	if err != nil {
		return fmt.Errorf("defender fleet: %w", err)
	}

	battle := sim.NewTrialBattle(attacker, defender, cfg.Seed, cfg.Trial)
	if cfg.Trace {
		trace, err := logging.New("debug", cfg.LogFormat)
		if err != nil {
			return err
		}
		defer trace.Sync()
		battle.WithTrace(trace.Named("battle"))
	}

	outcome := NewOutcome(cfg.Seed, cfg.Trial, battle.Fight())
	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome)
	}
	fmt.Fprintf(out, "trial %d of seed %s: %s after %d rounds\n", outcome.Trial, outcome.Seed, outcome.Winner, outcome.Rounds)
	for _, name := range slices.Sorted(maps.Keys(outcome.Survivors)) {
		fmt.Fprintf(out, "  %s x%d\n", name, outcome.Survivors[name])
	}
	return nil
}

// NewOutcome summarises a battle result.
func NewOutcome(seed string, trial uint64, r combat.BattleResult) Outcome {
	o := Outcome{Seed: seed, Trial: trial, Rounds: r.Rounds, Survivors: r.Survivors}
	switch {
	case r.AttackerWon:
		o.Winner = "attacker"
	case r.DefenderWon:
		o.Winner = "defender"
	default:
		o.Winner = "no winner"
	}
	return o
}
