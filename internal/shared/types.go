// Package shared provides the option types and logging setup used by the CLI
// and the application service.
package shared

// OptimizeOptions are the already-parsed knobs of one optimize invocation.
type OptimizeOptions struct {
	// NumLayouts is how many independent evolutions to run; around 500
	// gives a coin-flip chance of hitting the global minimum.
	NumLayouts int
	// Output is where the best blueprint JSON is written.
	Output string
	// Steps is the overall search step budget per evolution.
	Steps int
	// Prerandomize is the number of blind swaps before each evolution.
	Prerandomize int
	// Controlled selects exhaustive steepest-descent controlled steps.
	Controlled bool
	// ControlledTail finalizes each evolution until no single swap helps.
	ControlledTail bool
	// Anneal is the highest anneal level.
	Anneal int
	// AnnealStep is the iterations spent per anneal level.
	AnnealStep int
	// LimitNgrams caps each merged frequency table to its top-N entries;
	// 0 means no limit.
	LimitNgrams int
	// StartingLayout overrides layer-0 characters of the base layout,
	// newline-separated, offset one row and one slot from the top-left.
	StartingLayout string
	// NgramsConfig is the path of the ngrams source config.
	NgramsConfig string
	// Alphabet is the set of characters mutations may touch.
	Alphabet string
	// BaseLayout optionally points at a blueprint JSON overriding the
	// embedded reference board.
	BaseLayout string
	// CostConfig optionally points at a TOML file tuning the penalty
	// weights.
	CostConfig string
	// Seed makes runs reproducible; 0 seeds from the clock.
	Seed int64
	// HistoryDB enables run persistence when non-empty: a SQLite path, or
	// a database name with HistoryBackend "postgres".
	HistoryDB string
	// HistoryBackend selects the history store: "sqlite" (default) or
	// "postgres".
	HistoryBackend string
	// Quiet raises the log threshold to warnings.
	Quiet bool
	// Verbose lowers the log threshold to debug.
	Verbose bool
}

// DefaultOptimizeOptions returns the stock configuration.
func DefaultOptimizeOptions() OptimizeOptions {
	return OptimizeOptions{
		NumLayouts:     500,
		Output:         "output.txt",
		Steps:          10000,
		Prerandomize:   3000,
		Controlled:     false,
		ControlledTail: true,
		Anneal:         5,
		AnnealStep:     1000,
		LimitNgrams:    0,
		StartingLayout: "bmuaz kdflvjß\ncriey ptsnh⇘\nxäüoö wg,.q",
		NgramsConfig:   "ngrams.config",
		Alphabet:       "abcdefghijklmnopqrstuvwxyzäöüß",
		HistoryBackend: "sqlite",
	}
}
