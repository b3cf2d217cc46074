package search

import (
	"log/slog"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/Glitchy-Tozier/klo/internal/domain/layout"
	"github.com/Glitchy-Tozier/klo/internal/infrastructure/cost"
)

// temperatureScale sets the anneal temperature relative to the starting cost,
// so acceptance leniency tracks the corpus's cost magnitude.
const temperatureScale = 0.01

// Engine drives one search run. The corpus-bound evaluator is shared
// read-only; the RNG is injected so runs are reproducible given a seed.
type Engine struct {
	eval     *cost.Evaluator
	geometry *layout.Geometry
	alphabet []string
	schedule Schedule
	rng      *rand.Rand
	logger   *slog.Logger
}

// NewEngine creates an engine mutating only the characters of alphabet. A nil
// rng falls back to a time-seeded source.
func NewEngine(eval *cost.Evaluator, geo *layout.Geometry, alphabet string, sched Schedule, rng *rand.Rand, logger *slog.Logger) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	chars := make([]string, 0, len(alphabet))
	for _, r := range alphabet {
		chars = append(chars, string(r))
	}
	return &Engine{
		eval:     eval,
		geometry: geo,
		alphabet: chars,
		schedule: sched.Rebalanced(),
		rng:      rng,
		logger:   logger,
	}
}

// Run executes the full phase sequence from initial and returns the best
// blueprint found with its cost. It never fails: all operations are pure
// value transformations over in-memory structures.
func (e *Engine) Run(initial layout.Blueprint) (layout.Blueprint, float64) {
	state := &searchState{current: initial.Clone(), phase: PhasePrerandomize}
	if len(e.alphabet) < 2 {
		// Nothing to mutate.
		return state.current, e.evaluate(state.current)
	}

	for i := 0; i < e.schedule.Prerandomize; i++ {
		a, b := e.randomPair()
		state.current = state.current.ApplySwap(a, b)
	}
	state.currentCost = e.evaluate(state.current)
	state.best = state.current.Clone()
	state.bestCost = state.currentCost
	e.logger.Debug("prerandomize done", "swaps", e.schedule.Prerandomize, "cost", state.currentCost)

	e.anneal(state)
	e.controlled(state)
	if e.schedule.ControlledTail {
		e.controlledTail(state)
	}

	e.logger.Debug("search finished", "phase", string(state.phase), "steps", state.steps, "best", state.bestCost)
	return state.best, state.bestCost
}

// anneal runs the decreasing-level annealing phase. Level L proposes L+1
// simultaneous swaps and accepts worsening candidates with a probability that
// shrinks with the level; level 0 is exactly greedy.
func (e *Engine) anneal(state *searchState) {
	state.phase = PhaseAnneal
	tau := state.currentCost * temperatureScale
	for level := e.schedule.Anneal; level >= 0 && state.steps < e.schedule.Steps; level-- {
		for i := 0; i < e.schedule.AnnealStep && state.steps < e.schedule.Steps; i++ {
			state.steps++
			candidate := state.current
			for k := 0; k <= level; k++ {
				a, b := e.randomPair()
				candidate = candidate.ApplySwap(a, b)
			}
			candidateCost := e.evaluate(candidate)
			if e.accept(candidateCost-state.currentCost, tau, level) {
				state.setCurrent(candidate, candidateCost)
			}
		}
		e.logger.Debug("anneal level done", "level", level, "cost", state.currentCost)
	}
}

// accept implements the annealing acceptance rule: improvements always pass,
// worsenings pass with p = exp(-delta/(tau*level)).
func (e *Engine) accept(delta, tau float64, level int) bool {
	if delta < 0 {
		return true
	}
	if level <= 0 || tau <= 0 {
		return false
	}
	return e.rng.Float64() < math.Exp(-delta/(tau*float64(level)))
}

// controlled spends the remaining step budget on strictly-improving single
// swaps: exhaustive steepest descent when Controlled is set, otherwise the
// best of a random sample per step.
func (e *Engine) controlled(state *searchState) {
	state.phase = PhaseControlled
	// The anneal can finish in a worse basin than the best it saw. Descend
	// from the best so every later phase, the tail included, operates on
	// the blueprint Run will return; from here on only strict improvements
	// are accepted, keeping best and current identical.
	state.current = state.best.Clone()
	state.currentCost = state.bestCost
	for state.steps < e.schedule.Steps {
		state.steps++
		var a, b string
		var improvedCost float64
		var found bool
		if e.schedule.Controlled {
			a, b, improvedCost, found = e.bestSwapExhaustive(state.current, state.currentCost)
			if !found {
				// No single swap improves; further exhaustive steps
				// would only repeat the same scan.
				return
			}
		} else {
			a, b, improvedCost, found = e.bestSwapSampled(state.current, state.currentCost)
			if !found {
				continue
			}
		}
		state.setCurrent(state.current.ApplySwap(a, b), improvedCost)
	}
}

// controlledTail certifies a single-swap local optimum: full passes over all
// character pairs until one pass finds no strictly-improving swap.
func (e *Engine) controlledTail(state *searchState) {
	state.phase = PhaseControlledTail
	for {
		a, b, improvedCost, found := e.bestSwapExhaustive(state.current, state.currentCost)
		if !found {
			return
		}
		state.steps++
		state.setCurrent(state.current.ApplySwap(a, b), improvedCost)
	}
}

// bestSwapExhaustive scans every unordered alphabet pair and returns the
// strictest improvement over currentCost, if any.
func (e *Engine) bestSwapExhaustive(current layout.Blueprint, currentCost float64) (string, string, float64, bool) {
	bestCost := currentCost
	var bestA, bestB string
	found := false
	for i := 0; i < len(e.alphabet); i++ {
		for j := i + 1; j < len(e.alphabet); j++ {
			c := e.evaluate(current.ApplySwap(e.alphabet[i], e.alphabet[j]))
			if c < bestCost {
				bestCost = c
				bestA, bestB = e.alphabet[i], e.alphabet[j]
				found = true
			}
		}
	}
	return bestA, bestB, bestCost, found
}

// bestSwapSampled draws SampleSize random pairs, scores the candidates
// concurrently and returns the best strict improvement, if any. Pair drawing
// stays on the caller's goroutine so the RNG is never shared.
func (e *Engine) bestSwapSampled(current layout.Blueprint, currentCost float64) (string, string, float64, bool) {
	n := e.schedule.SampleSize
	if n < 1 {
		n = 1
	}
	type pair struct{ a, b string }
	pairs := make([]pair, n)
	for i := range pairs {
		a, b := e.randomPair()
		pairs[i] = pair{a, b}
	}
	costs := make([]float64, n)
	var wg sync.WaitGroup
	for i := range pairs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			costs[i] = e.evaluate(current.ApplySwap(pairs[i].a, pairs[i].b))
		}(i)
	}
	wg.Wait()

	bestCost := currentCost
	var bestA, bestB string
	found := false
	for i, c := range costs {
		if c < bestCost {
			bestCost = c
			bestA, bestB = pairs[i].a, pairs[i].b
			found = true
		}
	}
	return bestA, bestB, bestCost, found
}

// randomPair draws two distinct alphabet characters.
func (e *Engine) randomPair() (string, string) {
	i := e.rng.Intn(len(e.alphabet))
	j := e.rng.Intn(len(e.alphabet) - 1)
	if j >= i {
		j++
	}
	return e.alphabet[i], e.alphabet[j]
}

// evaluate derives the layout caches for bp and scores it.
func (e *Engine) evaluate(bp layout.Blueprint) float64 {
	return e.eval.Evaluate(layout.FromBlueprint(bp, e.geometry))
}
