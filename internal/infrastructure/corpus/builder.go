package corpus

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	domain "github.com/Glitchy-Tozier/klo/internal/domain/corpus"
)

// Loader reads a locator into memory. The builder itself never touches the
// filesystem; the CLI passes os.ReadFile and tests pass maps.
type Loader func(path string) ([]byte, error)

// Builder turns an ngrams config into one merged, weight-normalized corpus.
type Builder struct {
	load   Loader
	logger *slog.Logger
}

// NewBuilder creates a Builder around the given loader.
func NewBuilder(load Loader, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{load: load, logger: logger}
}

// sourceResult carries one source's normalized, weighted tables out of the
// ingestion fan-out.
type sourceResult struct {
	tables  *domain.Tables
	skipped bool
	err     error
}

// Build parses the config text, ingests every supported source in parallel
// and merges the normalized results. Sources with an unsupported kind are
// skipped with a warning; everything else that goes wrong is fatal. The merge
// folds sources in config order and ngrams in sorted key order, so repeated
// builds over the same config are bit-identical.
func (b *Builder) Build(configText string) (*domain.Tables, error) {
	sources, err := domain.ParseConfig(configText)
	if err != nil {
		return nil, err
	}

	results := make([]sourceResult, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src domain.Source) {
			defer wg.Done()
			results[i] = b.ingestSource(src)
		}(i, src)
	}
	wg.Wait()

	merged := domain.NewTables()
	for i, res := range results {
		if res.skipped {
			b.logger.Warn("skipping unsupported ngram source",
				"kind", string(sources[i].Kind), "line", sources[i].Line)
			continue
		}
		if res.err != nil {
			return nil, res.err
		}
		mergeInto(merged.Letters, res.tables.Letters)
		mergeInto(merged.Pairs, res.tables.Pairs)
		mergeInto(merged.Triples, res.tables.Triples)
	}
	return merged, nil
}

// ingestSource loads, counts and normalizes one source.
func (b *Builder) ingestSource(src domain.Source) sourceResult {
	var raw *rawSource
	switch src.Kind {
	case domain.KindText:
		data, err := b.load(src.Locator)
		if err != nil {
			return sourceResult{err: fmt.Errorf("%w: line %d: %v", domain.ErrConfig, src.Line, err)}
		}
		b.logger.Debug("ingesting text source", "path", src.Locator, "weight", src.Weight)
		raw = ingestText(src.Weight, string(data))
	case domain.KindPregenerated:
		paths := strings.Split(src.Locator, ";")
		if len(paths) != 3 {
			return sourceResult{err: fmt.Errorf("%w: line %d: pregenerated locator wants 3 ;-separated paths, got %d", domain.ErrConfig, src.Line, len(paths))}
		}
		b.logger.Debug("ingesting pregenerated source", "paths", src.Locator, "weight", src.Weight)
		raw = newRawSource(src.Weight)
		for i, target := range []*map[string]float64{&raw.letters, &raw.pairs, &raw.triples} {
			data, err := b.load(paths[i])
			if err != nil {
				return sourceResult{err: fmt.Errorf("%w: line %d: %v", domain.ErrConfig, src.Line, err)}
			}
			table, err := parseFrequencyFile(string(data), paths[i])
			if err != nil {
				return sourceResult{err: err}
			}
			*target = table
		}
	default:
		return sourceResult{skipped: true}
	}

	tables, err := normalize(raw, src.Locator)
	if err != nil {
		return sourceResult{err: err}
	}
	return sourceResult{tables: tables}
}

// mergeInto folds src into dst in sorted key order. Fixing the fold order
// sidesteps floating-point non-associativity between runs.
func mergeInto(dst, src map[string]float64) {
	for _, key := range sortedKeys(src) {
		dst[key] += src[key]
	}
}

func sortedKeys(table map[string]float64) []string {
	keys := make([]string, 0, len(table))
	for key := range table {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
