package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Glitchy-Tozier/klo/internal/infrastructure/store"
)

var (
	historyDB      string
	historyBackend string
	historyLimit   int
)

// HistoryCmd lists persisted optimization runs.
var HistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List past optimization runs",
	Long:  `List persisted optimization runs, best cost first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			runs store.RunStore
			err  error
		)
		switch historyBackend {
		case "", "sqlite":
			runs, err = store.NewSQLiteRunStore(historyDB)
		case "postgres":
			runs, err = store.NewPostgresRunStore(cmd.Context(), store.PostgresConfig{Database: historyDB})
		default:
			err = fmt.Errorf("unknown history backend %q", historyBackend)
		}
		if err != nil {
			return err
		}
		defer runs.Close()

		records, err := runs.ListRuns(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDATE\tCOST\tSTEPS\tSEED")
		for _, record := range records {
			fmt.Fprintf(w, "%s\t%s\t%.4f\t%d\t%d\n",
				record.ID, record.CreatedAt.Format("2006-01-02 15:04:05"),
				record.Cost, record.Steps, record.Seed)
		}
		return w.Flush()
	},
}

func init() {
	HistoryCmd.Flags().StringVar(&historyDB, "history-db", ".data/runs.db",
		"SQLite path, or database name with --history-backend postgres")
	HistoryCmd.Flags().StringVar(&historyBackend, "history-backend", "sqlite",
		"history store backend: sqlite or postgres")
	HistoryCmd.Flags().IntVar(&historyLimit, "limit", 20,
		"maximum number of runs to list")
}
