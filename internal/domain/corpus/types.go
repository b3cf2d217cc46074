// Package corpus provides the ngram frequency model the optimizer scores
// layouts against: weighted sources, normalization rules, and the merged
// letter/pair/triple tables.
package corpus

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ShiftMarker replaces every uppercase ASCII letter during text ingestion so
// shift usage is counted as its own key press.
const ShiftMarker = "⇧"

// SourceKind identifies how a source's locator is interpreted.
type SourceKind string

const (
	// KindText points at a raw corpus text file.
	KindText SourceKind = "text"
	// KindPregenerated points at three ;-separated frequency files
	// (letters, pairs, triples).
	KindPregenerated SourceKind = "pregenerated"
)

// Source is one weighted frequency source from the ngrams config.
type Source struct {
	Weight  float64
	Kind    SourceKind
	Locator string
	// Line is the 1-based config line the source was parsed from.
	Line int
}

// Tables holds the merged, weight-normalized frequency model. Keys are the
// ngram text itself; values are non-negative scores.
type Tables struct {
	Letters map[string]float64
	Pairs   map[string]float64
	Triples map[string]float64
}

// NewTables returns empty tables ready for accumulation.
func NewTables() *Tables {
	return &Tables{
		Letters: make(map[string]float64),
		Pairs:   make(map[string]float64),
		Triples: make(map[string]float64),
	}
}

// Total returns the sum of all scores across the three categories.
func (t *Tables) Total() float64 {
	var sum float64
	for _, category := range []map[string]float64{t.Letters, t.Pairs, t.Triples} {
		for _, key := range sortedKeys(category) {
			sum += category[key]
		}
	}
	return sum
}

// Limit keeps only the n highest-scored entries per category. A limit of zero
// or less leaves the tables untouched.
func (t *Tables) Limit(n int) {
	if n <= 0 {
		return
	}
	t.Letters = topN(t.Letters, n)
	t.Pairs = topN(t.Pairs, n)
	t.Triples = topN(t.Triples, n)
}

func topN(table map[string]float64, n int) map[string]float64 {
	if len(table) <= n {
		return table
	}
	keys := sortedKeys(table)
	// Highest score first; equal scores keep key order for reproducibility.
	sort.SliceStable(keys, func(i, j int) bool {
		return table[keys[i]] > table[keys[j]]
	})
	kept := make(map[string]float64, n)
	for _, key := range keys[:n] {
		kept[key] = table[key]
	}
	return kept
}

func sortedKeys(table map[string]float64) []string {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseConfig parses the ngrams config text: one source per line,
// "<weight> <kind> <locator>", #-prefixed lines and blank lines ignored.
// Unknown kinds are kept so the caller can warn and skip them.
func ParseConfig(contents string) ([]Source, error) {
	var sources []Source
	for i, line := range strings.Split(contents, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		fields := strings.Fields(trimmed)
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: want \"<weight> <kind> <locator>\", got %d fields", ErrConfig, i+1, len(fields))
		}
		weight, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: bad weight %q", ErrConfig, i+1, fields[0])
		}
		sources = append(sources, Source{
			Weight:  weight,
			Kind:    SourceKind(fields[1]),
			Locator: fields[2],
			Line:    i + 1,
		})
	}
	return sources, nil
}
