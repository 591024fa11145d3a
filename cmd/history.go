package cmd

import (
	"fmt"
	"io"

	"sheet-sync/core/config"
	"sheet-sync/core/database"
	"sheet-sync/core/journal"
	"sheet-sync/core/logger"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// historyLimit caps the number of runs shown.
var historyLimit int

// historyCmd lists recent runs from the journal database.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent reconciliation runs",
	Long: `Lists the most recent reconciliation runs recorded in the journal
database, newest first. Requires the DATABASE_* settings; without them
runs leave no history.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to show")

	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("journal database unavailable: %w", err)
	}

	rec := journal.NewRecorder(db, l)
	runs, err := rec.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read journal: %w", err)
	}

	printRunHistory(cmd.OutOrStdout(), runs)
	return nil
}

// printRunHistory renders the journal rows newest first.
func printRunHistory(w io.Writer, runs []journal.Run) {
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(w, "(0 runs)")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Started", "Preset", "Status", "Dry", "Keys", "Matched", "Updated", "Inserted", "Cleared", "Deleted", "Error"})

	for _, run := range runs {
		dry := ""
		if run.DryRun {
			dry = "yes"
		}
		t.AppendRow(table.Row{
			run.StartedAt.Format("2006-01-02 15:04:05"),
			run.Preset,
			run.Status,
			dry,
			run.SourceKeys,
			run.Matched,
			run.Updated,
			run.Inserted,
			run.Cleared,
			run.Deleted,
			truncate(run.Error, 40),
		})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d runs)\n", len(runs))
}

// truncate shortens long error texts so the table stays on one screen.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
