package search

import (
	"github.com/Glitchy-Tozier/klo/internal/domain/layout"
)

// Phase identifies the active stage of a run. Transitions are strictly
// forward.
type Phase string

const (
	PhasePrerandomize   Phase = "prerandomize"
	PhaseAnneal         Phase = "anneal"
	PhaseControlled     Phase = "controlled"
	PhaseControlledTail Phase = "controlled-tail"
)

// searchState is the mutable state threaded through one run. It is owned
// exclusively by the engine; candidate blueprints are independent values with
// no aliasing back into it.
type searchState struct {
	current     layout.Blueprint
	currentCost float64
	best        layout.Blueprint
	bestCost    float64
	phase       Phase
	steps       int
}

// setCurrent installs an accepted candidate and tracks the best ever seen.
func (s *searchState) setCurrent(bp layout.Blueprint, cost float64) {
	s.current = bp
	s.currentCost = cost
	if cost < s.bestCost {
		s.best = bp.Clone()
		s.bestCost = cost
	}
}
