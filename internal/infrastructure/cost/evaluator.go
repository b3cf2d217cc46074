// Package cost implements the scalar fitness function: expected typing effort
// for a corpus on a layout.
package cost

import (
	"sort"

	"github.com/Glitchy-Tozier/klo/internal/domain/corpus"
	domainCost "github.com/Glitchy-Tozier/klo/internal/domain/cost"
	"github.com/Glitchy-Tozier/klo/internal/domain/layout"
)

// entry is one scored ngram; the evaluator iterates fixed slices instead of
// maps so every evaluation sums in the same order.
type entry struct {
	ngram string
	runes []string
	score float64
}

// Evaluator scores layouts against one immutable corpus. It is safe for
// concurrent use: construction snapshots the corpus into sorted slices and
// Evaluate only reads them.
type Evaluator struct {
	letters []entry
	pairs   []entry
	triples []entry
	weights domainCost.Weights
}

// NewEvaluator binds an evaluator to tables and penalty weights.
func NewEvaluator(tables *corpus.Tables, weights domainCost.Weights) *Evaluator {
	return &Evaluator{
		letters: snapshot(tables.Letters),
		pairs:   snapshot(tables.Pairs),
		triples: snapshot(tables.Triples),
		weights: weights,
	}
}

func snapshot(table map[string]float64) []entry {
	entries := make([]entry, 0, len(table))
	for ngram, score := range table {
		runes := make([]string, 0, 3)
		for _, r := range ngram {
			runes = append(runes, string(r))
		}
		entries = append(entries, entry{ngram: ngram, runes: runes, score: score})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ngram < entries[j].ngram })
	return entries
}

// Evaluate returns the expected effort of typing the corpus on l. Lower is
// better; the result is never negative and is identical for identical inputs.
func (e *Evaluator) Evaluate(l *layout.Layout) float64 {
	var total float64
	for _, ent := range e.letters {
		cost, ok := l.CostOf(ent.ngram)
		if !ok {
			total += ent.score * e.weights.Uncovered
			continue
		}
		total += ent.score * cost
	}
	for _, ent := range e.pairs {
		total += ent.score * e.sequenceCost(l, ent.runes)
	}
	for _, ent := range e.triples {
		total += ent.score * e.sequenceCost(l, ent.runes)
	}
	return total
}

// sequenceCost prices typing the given characters in sequence: the sum of the
// keys' effective costs plus flow penalties. Any character the layout cannot
// type prices the whole sequence at the uncovered penalty.
func (e *Evaluator) sequenceCost(l *layout.Layout, chars []string) float64 {
	positions := make([]layout.Position, len(chars))
	fingers := make([]layout.Finger, len(chars))
	var total float64
	for i, ch := range chars {
		pos, ok := l.PositionOf(ch)
		if !ok {
			return e.weights.Uncovered
		}
		cost, _ := l.CostOf(ch)
		total += cost
		positions[i] = pos
		fingers[i] = l.FingerOf(ch)
	}
	for i := 1; i < len(chars); i++ {
		total += e.transitionPenalty(l, positions[i-1], positions[i], fingers[i-1], fingers[i])
	}
	if len(chars) == 3 {
		if l.IsLeft(positions[0]) == l.IsLeft(positions[1]) && l.IsLeft(positions[1]) == l.IsLeft(positions[2]) {
			total += e.weights.NoAlternation
		}
		if fingers[0] != layout.FingerUnassigned && fingers[0] == fingers[2] {
			total += e.weights.SameFingerSkip
		}
	}
	return total
}

// transitionPenalty prices the hop between two consecutive keys.
func (e *Evaluator) transitionPenalty(l *layout.Layout, a, b layout.Position, fa, fb layout.Finger) float64 {
	var penalty float64
	rowDist := rowDistance(a, b)
	if fa != layout.FingerUnassigned && fa == fb {
		penalty += e.weights.SameFinger * (1 + float64(rowDist))
	}
	if l.IsLeft(a) == l.IsLeft(b) {
		penalty += e.weights.SameHand
		if rowDist >= 2 {
			penalty += e.weights.RowJump * float64(rowDist-1)
		}
	}
	return penalty
}

func rowDistance(a, b layout.Position) int {
	if a.Row > b.Row {
		return int(a.Row - b.Row)
	}
	return int(b.Row - a.Row)
}
