// Package cost holds the tunable ergonomic penalty model the evaluator
// applies on top of raw key costs.
package cost

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Weights are the penalty knobs of the sequence-cost model. All defaults are
// strictly positive, which keeps a same-finger repeat strictly dearer than the
// same two key costs on different fingers.
type Weights struct {
	// SameFinger is charged when two consecutive keys share an assigned
	// finger, scaled by (1 + row distance).
	SameFinger float64 `toml:"same_finger"`
	// SameHand is charged when two consecutive keys stay on one hand.
	SameHand float64 `toml:"same_hand"`
	// RowJump is charged per row beyond the first when a same-hand pair
	// spans two or more rows.
	RowJump float64 `toml:"row_jump"`
	// NoAlternation is charged when a triple never switches hands.
	NoAlternation float64 `toml:"no_alternation"`
	// SameFingerSkip is charged when the outer keys of a triple share an
	// assigned finger.
	SameFingerSkip float64 `toml:"same_finger_skip"`
	// Uncovered is charged per unit frequency for corpus characters the
	// layout cannot type at all.
	Uncovered float64 `toml:"uncovered"`
}

// DefaultWeights returns the tuning the regression tests pin down.
func DefaultWeights() Weights {
	return Weights{
		SameFinger:     4.0,
		SameHand:       0.4,
		RowJump:        1.2,
		NoAlternation:  0.8,
		SameFingerSkip: 2.0,
		Uncovered:      40.0,
	}
}

// ParseWeights overlays a TOML document onto the defaults, so a tuning file
// only needs the knobs it changes.
func ParseWeights(data []byte) (Weights, error) {
	w := DefaultWeights()
	if err := toml.Unmarshal(data, &w); err != nil {
		return Weights{}, fmt.Errorf("cost: invalid weights file: %w", err)
	}
	return w, nil
}
