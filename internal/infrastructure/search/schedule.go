// Package search implements the staged stochastic local search over layouts:
// blind randomization, simulated annealing, steepest-descent refinement and
// the optional local-optimum certification tail.
package search

// Schedule holds the step budgets and phase switches of one search run.
type Schedule struct {
	// Steps is the overall step budget shared by the anneal and controlled
	// phases.
	Steps int
	// Prerandomize is the number of unconditional random swaps applied
	// before the search proper, to escape the starting layout's basin.
	Prerandomize int
	// Anneal is the highest anneal level; levels run Anneal down to 0.
	Anneal int
	// AnnealStep is the number of steps spent per anneal level.
	AnnealStep int
	// SampleSize is the number of candidate swaps sampled per controlled
	// step when Controlled is off.
	SampleSize int
	// Controlled selects exhaustive steepest-descent controlled steps
	// instead of random sampling. Slow and still not globally optimal.
	Controlled bool
	// ControlledTail keeps swapping after the step budget until no single
	// swap improves the layout.
	ControlledTail bool
}

// DefaultSchedule is the stock tuning.
func DefaultSchedule() Schedule {
	return Schedule{
		Steps:          10000,
		Prerandomize:   3000,
		Anneal:         5,
		AnnealStep:     1000,
		SampleSize:     16,
		Controlled:     false,
		ControlledTail: true,
	}
}

// Rebalanced caps the anneal budget at half the overall step budget by
// shrinking AnnealStep (floor 1), so the controlled phase always keeps the
// other half. Checked once before the engine starts, never mid-run.
func (s Schedule) Rebalanced() Schedule {
	levels := s.Anneal + 1
	if levels <= 0 {
		return s
	}
	if levels*s.AnnealStep > s.Steps/2 {
		perLevel := s.Steps / 2 / levels
		if perLevel < 1 {
			perLevel = 1
		}
		s.AnnealStep = perLevel
	}
	return s
}
