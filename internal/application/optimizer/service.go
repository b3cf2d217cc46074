// Package optimizer wires corpus, layout, cost model and search engine into
// one runnable optimization service.
package optimizer

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	domainCorpus "github.com/Glitchy-Tozier/klo/internal/domain/corpus"
	domainCost "github.com/Glitchy-Tozier/klo/internal/domain/cost"
	"github.com/Glitchy-Tozier/klo/internal/domain/layout"
	infraCorpus "github.com/Glitchy-Tozier/klo/internal/infrastructure/corpus"
	infraCost "github.com/Glitchy-Tozier/klo/internal/infrastructure/cost"
	"github.com/Glitchy-Tozier/klo/internal/infrastructure/search"
	"github.com/Glitchy-Tozier/klo/internal/infrastructure/store"
	"github.com/Glitchy-Tozier/klo/internal/shared"
)

// Service runs layout optimizations. The loader supplies file contents so the
// core stays free of direct file I/O.
type Service struct {
	opts   shared.OptimizeOptions
	load   infraCorpus.Loader
	logger *slog.Logger
	runs   store.RunStore
}

// Result is the outcome of one optimization: the best blueprint across all
// evolutions and its cost.
type Result struct {
	RunID string
	Best  layout.Blueprint
	Cost  float64
	Runs  int
}

// New creates a Service. The run store is optional; nil disables persistence.
func New(opts shared.OptimizeOptions, load infraCorpus.Loader, logger *slog.Logger, runs store.RunStore) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{opts: opts, load: load, logger: logger, runs: runs}
}

// Run builds the corpus and base layout, executes NumLayouts independent
// evolutions over a bounded worker fan-out and returns the global best.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	tables, err := s.buildCorpus()
	if err != nil {
		return nil, err
	}
	base, geo, err := s.baseLayout()
	if err != nil {
		return nil, err
	}
	weights, err := s.costWeights()
	if err != nil {
		return nil, err
	}

	evaluator := infraCost.NewEvaluator(tables, weights)
	schedule := search.Schedule{
		Steps:          s.opts.Steps,
		Prerandomize:   s.opts.Prerandomize,
		Anneal:         s.opts.Anneal,
		AnnealStep:     s.opts.AnnealStep,
		SampleSize:     search.DefaultSchedule().SampleSize,
		Controlled:     s.opts.Controlled,
		ControlledTail: s.opts.ControlledTail,
	}

	seed := s.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	numRuns := s.opts.NumLayouts
	if numRuns < 1 {
		numRuns = 1
	}
	workers := runtime.NumCPU()
	if workers > numRuns {
		workers = numRuns
	}
	s.logger.Info("starting optimization",
		"evolutions", numRuns, "workers", workers, "steps", schedule.Steps, "seed", seed)

	var (
		mu       sync.Mutex
		best     layout.Blueprint
		bestCost float64
		haveBest bool
	)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				rng := rand.New(rand.NewSource(seed + int64(i)))
				engine := search.NewEngine(evaluator, geo, s.opts.Alphabet, schedule, rng, s.logger)
				candidate, candidateCost := engine.Run(base)

				mu.Lock()
				if !haveBest || candidateCost < bestCost {
					best = candidate
					bestCost = candidateCost
					haveBest = true
					s.logger.Info("new best layout", "evolution", i, "cost", candidateCost)
				}
				mu.Unlock()
			}
		}()
	}
dispatch:
	for i := 0; i < numRuns; i++ {
		select {
		case <-ctx.Done():
			// Stop handing out work; running evolutions finish their
			// current budget.
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	result := &Result{
		RunID: uuid.NewString(),
		Best:  best,
		Cost:  bestCost,
		Runs:  numRuns,
	}
	if err := s.persist(ctx, result, seed); err != nil {
		return nil, err
	}
	return result, nil
}

// buildCorpus loads the ngrams config and merges its sources.
func (s *Service) buildCorpus() (*domainCorpus.Tables, error) {
	data, err := s.load(s.opts.NgramsConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domainCorpus.ErrConfig, s.opts.NgramsConfig, err)
	}
	builder := infraCorpus.NewBuilder(s.load, s.logger)
	tables, err := builder.Build(string(data))
	if err != nil {
		return nil, err
	}
	tables.Limit(s.opts.LimitNgrams)
	s.logger.Debug("corpus ready",
		"letters", len(tables.Letters), "pairs", len(tables.Pairs), "triples", len(tables.Triples))
	return tables, nil
}

// baseLayout resolves the base blueprint (embedded default or override file)
// and merges the starting-layout string onto it.
func (s *Service) baseLayout() (layout.Blueprint, *layout.Geometry, error) {
	var base layout.Blueprint
	if s.opts.BaseLayout != "" {
		data, err := s.load(s.opts.BaseLayout)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", domainCorpus.ErrConfig, s.opts.BaseLayout, err)
		}
		base, err = layout.ParseBlueprint(data)
		if err != nil {
			return nil, nil, err
		}
	} else {
		base = layout.DefaultBlueprint()
	}
	if s.opts.StartingLayout != "" {
		base = base.MergeRows(s.opts.StartingLayout)
	}
	return base, layout.DefaultGeometry(), nil
}

// costWeights loads the optional tuning file over the defaults.
func (s *Service) costWeights() (domainCost.Weights, error) {
	if s.opts.CostConfig == "" {
		return domainCost.DefaultWeights(), nil
	}
	data, err := s.load(s.opts.CostConfig)
	if err != nil {
		return domainCost.Weights{}, fmt.Errorf("%w: %s: %v", domainCorpus.ErrConfig, s.opts.CostConfig, err)
	}
	return domainCost.ParseWeights(data)
}

// persist saves the result to the run store when one is configured.
func (s *Service) persist(ctx context.Context, result *Result, seed int64) error {
	if s.runs == nil || result.Best == nil {
		return nil
	}
	encoded, err := result.Best.Encode()
	if err != nil {
		return fmt.Errorf("failed to encode best layout: %w", err)
	}
	record := store.RunRecord{
		ID:        result.RunID,
		CreatedAt: time.Now(),
		Cost:      result.Cost,
		Steps:     s.opts.Steps,
		Seed:      seed,
		Layout:    encoded,
	}
	if err := s.runs.SaveRun(ctx, record); err != nil {
		return err
	}
	s.logger.Debug("run persisted", "id", record.ID, "cost", record.Cost)
	return nil
}
