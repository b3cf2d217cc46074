// Package corpus implements ingestion and merging of ngram frequency sources.
package corpus

import (
	"fmt"
	"strconv"
	"strings"

	domain "github.com/Glitchy-Tozier/klo/internal/domain/corpus"
)

// rawSource holds one source's unnormalized counts.
type rawSource struct {
	weight  float64
	letters map[string]float64
	pairs   map[string]float64
	triples map[string]float64
}

func newRawSource(weight float64) *rawSource {
	return &rawSource{
		weight:  weight,
		letters: make(map[string]float64),
		pairs:   make(map[string]float64),
		triples: make(map[string]float64),
	}
}

// ingestText counts letters, pairs and triples from raw corpus text with a
// three-character sliding window. Uppercase ASCII folds to the shift marker,
// which is counted in pairs and triples but kept out of the letters table.
// Pairs are keyed current+previous and triples current+previous+before, the
// key orientation the pregenerated tables use as well. No padded ngrams are
// synthesized, so nothing straddles the end of input.
func ingestText(weight float64, text string) *rawSource {
	raw := newRawSource(weight)
	var prev, prev2 string
	for _, r := range text {
		if r >= 'A' && r <= 'Z' {
			r = []rune(domain.ShiftMarker)[0]
		}
		ch := string(r)
		if ch != domain.ShiftMarker {
			raw.letters[ch]++
		}
		if prev != "" {
			raw.pairs[ch+prev]++
			if prev2 != "" {
				raw.triples[ch+prev+prev2]++
			}
		}
		prev2 = prev
		prev = ch
	}
	return raw
}

// parseFrequencyFile parses one pregenerated table: "<count> <ngram>" per
// line, byte-order mark stripped, blank lines skipped. A line whose ngram is
// or ends with a literal space loses it to field splitting, so the trailing
// space is restored from the raw line. Malformed lines are fatal; silently
// wrong frequencies would poison every cost computed later.
func parseFrequencyFile(contents, path string) (map[string]float64, error) {
	table := make(map[string]float64)
	contents = strings.ReplaceAll(contents, "\ufeff", "")
	for i, line := range strings.Split(contents, "\n") {
		line = strings.TrimSuffix(line, "\r")
		fields := strings.Fields(line)
		trailingSpace := strings.HasSuffix(line, " ")
		var countField, ngram string
		switch {
		case len(fields) == 0:
			continue
		case len(fields) == 2:
			countField = fields[0]
			ngram = fields[1]
			if trailingSpace {
				ngram += " "
			}
		case len(fields) == 1 && trailingSpace:
			// The ngram is the space character itself.
			countField = fields[0]
			ngram = " "
		default:
			return nil, fmt.Errorf("%w: %s line %d: want \"<count> <ngram>\"", domain.ErrParse, path, i+1)
		}
		count, err := strconv.ParseFloat(countField, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s line %d: bad count %q", domain.ErrParse, path, i+1, countField)
		}
		table[ngram] += count
	}
	return table, nil
}

// normalize scales every count so the source's three categories sum to its
// declared weight. A zero grand total is fatal; dividing by it would leak NaN
// into every downstream cost.
func normalize(raw *rawSource, locator string) (*domain.Tables, error) {
	// Summing in sorted key order keeps the total bit-identical across runs.
	var total float64
	for _, table := range []map[string]float64{raw.letters, raw.pairs, raw.triples} {
		for _, key := range sortedKeys(table) {
			total += table[key]
		}
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrEmptyCorpus, locator)
	}
	out := domain.NewTables()
	scale := raw.weight / total
	for k, v := range raw.letters {
		out.Letters[k] = v * scale
	}
	for k, v := range raw.pairs {
		out.Pairs[k] = v * scale
	}
	for k, v := range raw.triples {
		out.Triples[k] = v * scale
	}
	return out, nil
}
