package cmd

import (
	"fmt"

	"sheet-sync/feature/registry"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// presetsCmd lists the built-in reconciliation presets.
var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List the built-in reconciliation presets",
	Long: `Lists every built-in preset with its sheets, match key column and layout.

The preset name is the argument the sync command and the POST /sync/:preset
endpoint take.`,
	RunE: runPresets,
}

func init() {
	RootCmd.AddCommand(presetsCmd)
}

func runPresets(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()
	presets := registry.All()

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Preset", "Source Sheet", "Target Sheet", "Key", "Columns", "Layout", "Description"})

	for _, p := range presets {
		layout := "two files"
		if p.SingleFile {
			layout = "one file"
		}
		t.AppendRow(table.Row{p.Name, p.SourceSheet, p.TargetSheet, p.Rules.Key, len(p.Rules.Columns), layout, p.Description})
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d presets)\n", len(presets))
	return nil
}
