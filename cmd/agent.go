package cmd

import (
	"context"
	"fmt"
	"io"

	"sheet-sync/core/config"
	"sheet-sync/core/logger"
	"sheet-sync/core/reconcile"
	"sheet-sync/core/storage"
	"sheet-sync/feature/registry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	// Flags for the agent command
	agentPreset string
	agentSource string
	agentTarget string
)

// agentCmd inspects one key on both sides of a preset.
var agentCmd = &cobra.Command{
	Use:   "agent <key>",
	Short: "Inspect one agent key on both sides of a preset",
	Long: `Looks up a single key in the source and target sheets of a preset and
shows the value each synchronized column would read and write, without
changing anything.

Examples:
  # Where does agent 000000123 stand in the summary preset?
  sheet-sync agent 000000123

  # Same lookup inside the single-workbook preset
  sheet-sync agent 000000123 --preset workbook --source disk:/реестр.xlsx`,
	Args: cobra.ExactArgs(1),
	RunE: runAgent,
}

func init() {
	agentCmd.Flags().StringVar(&agentPreset, "preset", "summary", "Preset whose sheets and columns to inspect")
	agentCmd.Flags().StringVar(&agentSource, "source", "", "Cloud path of the source workbook (overrides SYNC_SOURCE_PATH)")
	agentCmd.Flags().StringVar(&agentTarget, "target", "", "Cloud path of the target workbook (overrides SYNC_TARGET_PATH)")

	RootCmd.AddCommand(agentCmd)
}

func runAgent(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage, l)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc := registry.NewService(client, cfg.Sync, l, nil)

	report, err := svc.Inspect(ctx, agentPreset, args[0], registry.Options{
		SourcePath: agentSource,
		TargetPath: agentTarget,
	})
	if err != nil {
		return fmt.Errorf("inspect failed: %w", err)
	}

	printKeyReport(cmd.OutOrStdout(), agentPreset, report)
	return nil
}

// printKeyReport renders one key's standing on both sides.
func printKeyReport(w io.Writer, presetName string, rep *reconcile.KeyReport) {
	_, _ = fmt.Fprintf(w, "Key:    %s\n", rep.Key)
	_, _ = fmt.Fprintf(w, "Source: %s\n", sideLabel(rep.InSource, rep.SourceRow))
	_, _ = fmt.Fprintf(w, "Target: %s\n", sideLabel(rep.InTarget, rep.TargetRow))

	if !rep.InSource && !rep.InTarget {
		return
	}

	p, err := registry.ByName(presetName)
	if err != nil {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Column", "Source Value", "Target Value", "Changed"})

	for _, col := range p.Rules.Columns {
		changed := ""
		for _, name := range rep.Changed {
			if name == col.Name {
				changed = "yes"
				break
			}
		}
		t.AppendRow(table.Row{col.Name, rep.Values[col.Name], rep.Current[col.Name], changed})
	}

	t.Render()
}

func sideLabel(found bool, row int) string {
	if !found {
		return "not found"
	}
	return fmt.Sprintf("row %d", row)
}
