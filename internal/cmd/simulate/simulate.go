// Package simulate parses simulate command flags and runs a Monte Carlo
// battle estimate.
package simulate

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"

	"github.com/MJE43/eclipse-combat/internal/catalog"
	entrypoint "github.com/MJE43/eclipse-combat/internal/cmd/entrypoint"
	"github.com/MJE43/eclipse-combat/internal/config"
	"github.com/MJE43/eclipse-combat/internal/report"
	"github.com/MJE43/eclipse-combat/internal/sim"
)

// Config holds simulate command configuration.
type Config struct {
	config.Config
	Attacker map[string]int
	Defender map[string]int
	Seed     string
	Progress bool
	JSON     bool
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
	fs.Uint64Var(&cfg.Trials, "trials", cfg.Trials, "number of battles to simulate (env ECLIPSE_COMBAT_TRIALS)")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "worker goroutines, 0 = GOMAXPROCS (env ECLIPSE_COMBAT_WORKERS)")
	fs.StringVar(&cfg.Seed, "seed", "", "run seed for reproducible results (empty = random)")
	fs.BoolVar(&cfg.Progress, "progress", false, "show a progress bar on stderr")
	fs.BoolVar(&cfg.JSON, "json", false, "print the result as JSON")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	if attacker == "" && defender == "" {
		return Config{}, errors.New("-attacker or -defender is required")
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

// Run executes the simulation and writes the report to out. Progress goes
// to errOut.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}

	logger, err := entrypoint.NewLogger(cfg.Config)
	if err != nil {
		return err
	}
	defer logger.Sync()

	reg, err := entrypoint.LoadCatalog(cfg.Config)
	if err != nil {
		return err
	}

	attacker, adjustments := catalog.ClampComposition(reg, cfg.Attacker)
	defender, defAdjustments := catalog.ClampComposition(reg, cfg.Defender)
	adjustments = append(adjustments, defAdjustments...)
	for _, a := range adjustments {
		logger.Warn("fleet_clamped",
			zap.String("ship_type", a.Name),
			zap.String("category", string(a.Category)),
			zap.Int("requested", a.Requested),
			zap.Int("allowed", a.Allowed),
		)
	}

	opts := []sim.Option{sim.WithWorkers(cfg.Workers), sim.WithLogger(logger)}
	var bar *progressbar.ProgressBar
	if cfg.Progress {
		bar = newProgressBar(cfg.Trials, errOut)
		opts = append(opts, sim.WithProgress(barProgress(bar)))
	}

	result, err := sim.NewSimulator(reg, opts...).Run(ctx, sim.Request{
		Attacker: attacker,
		Defender: defender,
		Trials:   cfg.Trials,
		Seed:     cfg.Seed,
	})
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	if cfg.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return report.Render(out, result, adjustments)
}

func newProgressBar(total uint64, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions64(int64(total),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("simulating"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// barProgress advances bar by the trials finished since the last report.
// Workers report out of order, so a stale total adds nothing.
func barProgress(bar *progressbar.ProgressBar) sim.ProgressFunc {
	var shown atomic.Uint64
	return func(done, _ uint64) {
		for {
			prev := shown.Load()
			if done <= prev {
				return
			}
			if shown.CompareAndSwap(prev, done) {
				_ = bar.Add64(int64(done - prev))
				return
			}
		}
	}
}
