package corpus

import "errors"

var (
	// ErrConfig indicates an unusable ngrams config (missing file, bad line shape).
	ErrConfig = errors.New("corpus: invalid ngrams config")
	// ErrParse indicates a malformed frequency-file line.
	ErrParse = errors.New("corpus: malformed frequency data")
	// ErrEmptyCorpus indicates a source whose total frequency is zero.
	ErrEmptyCorpus = errors.New("corpus: source has zero total frequency")
)
