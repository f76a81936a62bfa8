// Package sim runs many independent battles between the same two fleets and
// aggregates win probabilities and survivor averages.
package sim

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/MJE43/eclipse-combat/internal/catalog"
	"github.com/MJE43/eclipse-combat/internal/combat"
	"github.com/MJE43/eclipse-combat/internal/engine"
	"github.com/MJE43/eclipse-combat/internal/version"
)

const batchSize = 256

// Request describes one Monte Carlo run.
type Request struct {
	Attacker map[string]int `json:"attacker"`
	Defender map[string]int `json:"defender"`
	Trials   uint64         `json:"trials"`
	// Seed makes the run reproducible. Empty means a fresh random seed.
	Seed string `json:"seed,omitempty"`
}

// Result aggregates every trial of a run.
type Result struct {
	RunID         string        `json:"run_id"`
	Seed          string        `json:"seed"`
	Trials        uint64        `json:"trials"`
	Workers       int           `json:"workers"`
	EngineVersion string        `json:"engine_version"`
	Elapsed       time.Duration `json:"elapsed"`

	AttackerWins uint64 `json:"attacker_wins"`
	DefenderWins uint64 `json:"defender_wins"`
	Draws        uint64 `json:"draws"`

	AttackerWinProbability float64 `json:"attacker_win_probability"`
	DefenderWinProbability float64 `json:"defender_win_probability"`
	DrawProbability        float64 `json:"draw_probability"`

	// Survivor averages per ship type over the trials that side won.
	AttackerSurvivors map[string]float64 `json:"attacker_survivors"`
	DefenderSurvivors map[string]float64 `json:"defender_survivors"`

	Echo Request `json:"echo"`
}

// Job is a half-open range of trial indices.
type Job struct {
	Start uint64
	End   uint64
}

// ProgressFunc receives the number of finished trials. It is called from
// worker goroutines and must be safe for concurrent use.
type ProgressFunc func(done, total uint64)

// Simulator distributes trials over a fixed pool of workers.
type Simulator struct {
	catalog     catalog.Catalog
	workerCount int
	logger      *zap.Logger
	progress    ProgressFunc
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithWorkers sets the worker count. Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.workerCount = n
		}
	}
}

// WithLogger sets the logger for run start and completion events.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithProgress installs a progress callback, invoked after each batch.
func WithProgress(fn ProgressFunc) Option {
	return func(s *Simulator) {
		s.progress = fn
	}
}

// NewSimulator creates a simulator over the given catalog.
func NewSimulator(cat catalog.Catalog, opts ...Option) *Simulator {
	s := &Simulator{
		catalog:     cat,
		workerCount: runtime.GOMAXPROCS(0),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run builds both fleets once, then fights req.Trials battles. Trial i always
// uses the same random stream for a given seed, so the result does not depend
// on the worker count. Cancelling ctx stops the run between batches.
func (s *Simulator) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Trials == 0 {
		return nil, ErrInvalidTrials
	}
	if len(req.Attacker) == 0 && len(req.Defender) == 0 {
		return nil, ErrEmptyRequest
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	attacker, err := combat.BuildFleet(s.catalog, req.Attacker)
	if err != nil {
		return nil, fmt.Errorf("attacker fleet: %w", err)
	}
	defender, err := combat.BuildFleet(s.catalog, req.Defender)
	if err != nil {
		return nil, fmt.Errorf("defender fleet: %w", err)
	}
	if attacker.Len() == 0 && defender.Len() == 0 {
		return nil, ErrEmptyRequest
	}

	seed := req.Seed
	if seed == "" {
		if seed, err = engine.NewRunSeed(); err != nil {
			return nil, fmt.Errorf("generate seed: %w", err)
		}
	}

	workers := s.workerCount
	if batches := int((req.Trials + batchSize - 1) / batchSize); batches < workers {
		workers = batches
	}

	runID := uuid.NewString()
	logger := s.logger.With(zap.String("run_id", runID))
	logger.Info("simulation_started",
		zap.String("seed_hash", engine.HashSeed(seed)),
		zap.Uint64("trials", req.Trials),
		zap.Int("workers", workers),
		zap.String("attacker", catalog.FormatComposition(req.Attacker)),
		zap.String("defender", catalog.FormatComposition(req.Defender)),
	)
	start := time.Now()

	jobs := make(chan Job, workers*2)
	tallies := make([]*Tally, workers)
	var completed atomic.Uint64

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return generateJobs(gctx, jobs, req.Trials)
	})
	for w := 0; w < workers; w++ {
		tally := NewTally()
		tallies[w] = tally
		g.Go(func() error {
			return s.work(gctx, jobs, tally, attacker, defender, seed, &completed, req.Trials)
		})
	}
	if err := g.Wait(); err != nil {
		logger.Warn("simulation_aborted",
			zap.Uint64("completed", completed.Load()),
			zap.Error(err),
		)
		return nil, err
	}

	total := NewTally()
	for _, t := range tallies {
		total.Merge(t)
	}

	result := total.Result(req)
	result.RunID = runID
	result.Seed = seed
	result.Workers = workers
	result.EngineVersion = version.EngineVersion
	result.Elapsed = time.Since(start)
	result.Echo = req

	logger.Info("simulation_completed",
		zap.Uint64("attacker_wins", result.AttackerWins),
		zap.Uint64("defender_wins", result.DefenderWins),
		zap.Uint64("draws", result.Draws),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}

func (s *Simulator) work(ctx context.Context, jobs <-chan Job, tally *Tally, attacker, defender combat.Fleet, seed string, completed *atomic.Uint64, total uint64) error {
	for {
		select {
		case job, ok := <-jobs:
			if !ok {
				return nil
			}
			for i := job.Start; i < job.End; i++ {
				tally.Add(Trial(attacker, defender, seed, i))
			}
			done := completed.Add(job.End - job.Start)
			if s.progress != nil {
				s.progress(done, total)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// generateJobs splits [0, trials) into batches.
func generateJobs(ctx context.Context, jobs chan<- Job, trials uint64) error {
	defer close(jobs)

	for current := uint64(0); current < trials; {
		end := min(current+batchSize, trials)
		select {
		case jobs <- Job{Start: current, End: end}:
			current = end
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Trial fights battle i of a seeded run on fresh copies of the templates.
func Trial(attacker, defender combat.Fleet, seed string, i uint64) combat.BattleResult {
	return NewTrialBattle(attacker, defender, seed, i).Fight()
}

// NewTrialBattle prepares battle i of a seeded run without fighting it.
func NewTrialBattle(attacker, defender combat.Fleet, seed string, i uint64) *combat.Battle {
	return combat.NewBattle(attacker.Clone(), defender.Clone(), engine.NewTrialSource(seed, i))
}

// Tally accumulates battle outcomes. It is not safe for concurrent use;
// each worker owns one.
type Tally struct {
	Trials       uint64
	AttackerWins uint64
	DefenderWins uint64
	Draws        uint64

	attackerSurvivors map[string]uint64
	defenderSurvivors map[string]uint64
}

func NewTally() *Tally {
	return &Tally{
		attackerSurvivors: make(map[string]uint64),
		defenderSurvivors: make(map[string]uint64),
	}
}

// Add records one battle.
func (t *Tally) Add(r combat.BattleResult) {
	t.Trials++
	switch {
	case r.AttackerWon:
		t.AttackerWins++
		for name, n := range r.Survivors {
			t.attackerSurvivors[name] += uint64(n)
		}
	case r.DefenderWon:
		t.DefenderWins++
		for name, n := range r.Survivors {
			t.defenderSurvivors[name] += uint64(n)
		}
	default:
		t.Draws++
	}
}

// Merge folds other into t.
func (t *Tally) Merge(other *Tally) {
	t.Trials += other.Trials
	t.AttackerWins += other.AttackerWins
	t.DefenderWins += other.DefenderWins
	t.Draws += other.Draws
	for name, n := range other.attackerSurvivors {
		t.attackerSurvivors[name] += n
	}
	for name, n := range other.defenderSurvivors {
		t.defenderSurvivors[name] += n
	}
}

// Result converts the counts into probabilities and survivor averages.
// Every ship type fielded by a side appears in its survivor map.
func (t *Tally) Result(req Request) *Result {
	r := &Result{
		Trials:            t.Trials,
		AttackerWins:      t.AttackerWins,
		DefenderWins:      t.DefenderWins,
		Draws:             t.Draws,
		AttackerSurvivors: averages(req.Attacker, t.attackerSurvivors, t.AttackerWins),
		DefenderSurvivors: averages(req.Defender, t.defenderSurvivors, t.DefenderWins),
	}
	if t.Trials > 0 {
		n := float64(t.Trials)
		r.AttackerWinProbability = float64(t.AttackerWins) / n
		r.DefenderWinProbability = float64(t.DefenderWins) / n
		r.DrawProbability = float64(t.Draws) / n
	}
	return r
}

func averages(fielded map[string]int, survivors map[string]uint64, wins uint64) map[string]float64 {
	out := make(map[string]float64, len(fielded))
	for name, count := range fielded {
		if count <= 0 {
			continue
		}
		if wins == 0 {
			out[name] = 0
			continue
		}
		out[name] = float64(survivors[name]) / float64(wins)
	}
	return out
}
