package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"sheet-sync/core/config"
	"sheet-sync/core/database"
	"sheet-sync/core/journal"
	"sheet-sync/core/logger"
	"sheet-sync/core/storage"
	"sheet-sync/core/xlsx"
	"sheet-sync/feature/registry"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the sync command
	syncSource string
	syncTarget string
	syncAll    bool
	syncDryRun bool
	syncPrune  bool
	yesConfirm bool
)

// syncCmd runs one reconciliation preset against the cloud workbooks.
var syncCmd = &cobra.Command{
	Use:   "sync [preset]",
	Short: "Run a reconciliation preset (merge the source sheet into the target)",
	Long: `Run a reconciliation preset against the cloud-hosted workbooks.

Downloads the workbooks, merges the source sheet into the target sheet by
agent ID, and uploads the target back when anything changed. Reruns on an
already synchronized target are no-ops.

With --all every preset runs in order against the same paths; presets whose
workbook layout or sheets do not match the given files are skipped with a
warning.

Examples:
  # Preview the summary merge without writing anything
  sheet-sync sync summary --dry-run

  # Run against explicit workbook paths
  sheet-sync sync summary --source disk:/бд.xlsx --target disk:/сводная.xlsx

  # Single-workbook preset (source and target sheets in one file)
  sheet-sync sync workbook --source disk:/реестр.xlsx

  # Run everything that applies to the configured workbook pair
  sheet-sync sync --all

  # Delete target rows that vanished from the source (with interactive confirmation)
  sheet-sync sync summary --prune

  # Prune with auto-confirm (non-interactive)
  sheet-sync sync summary --prune --yes`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSync,
}

func init() {
	syncCmd.Flags().StringVar(&syncSource, "source", "", "Cloud path of the source workbook (overrides SYNC_SOURCE_PATH)")
	syncCmd.Flags().StringVar(&syncTarget, "target", "", "Cloud path of the target workbook (overrides SYNC_TARGET_PATH)")
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Run every preset; skip those the given workbooks do not fit")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Plan the merge without uploading anything")
	syncCmd.Flags().BoolVar(&syncPrune, "prune", false, "Delete target rows whose key vanished from the source")
	syncCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	presets := args
	if syncAll {
		if len(args) > 0 {
			return fmt.Errorf("--all runs every preset; drop the %q argument", args[0])
		}
		presets = registry.Names()
	} else if len(args) == 0 {
		return errors.New("preset name required (or --all)")
	}

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	l.Info("Starting sheet sync", zap.Strings("presets", presets))

	// Connect to the run journal database (optional)
	var rec *journal.Recorder
	if db, err := database.Connect(cfg.Database); err != nil {
		l.Warn("Run journal disabled, database connection failed", zap.Error(err))
	} else {
		rec = journal.NewRecorder(db, l)
		if err := rec.Migrate(); err != nil {
			l.Warn("Run journal disabled, schema migration failed", zap.Error(err))
			rec = nil
		}
	}

	// Connect to storage
	client, err := storage.NewClient(cfg.Storage, l)
	if err != nil {
		return fmt.Errorf("failed to connect to storage: %w", err)
	}

	svc := registry.NewService(client, cfg.Sync, l, rec)

	opts := registry.Options{
		SourcePath: syncSource,
		TargetPath: syncTarget,
		DryRun:     syncDryRun,
		Prune:      syncPrune,
	}

	// Pruning deletes target rows, so it gets the same confirmation gate
	// as any other destructive action. One confirmation covers the batch.
	if syncPrune && !syncDryRun {
		if !confirmDestructiveAction() {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
	}

	for _, preset := range presets {
		res, err := svc.Run(ctx, preset, opts)
		if err != nil {
			if syncAll && presetSkippable(err) {
				l.Warn("Preset skipped", zap.String("preset", preset), zap.Error(err))
				continue
			}
			return fmt.Errorf("sync %s failed: %w", preset, err)
		}
		printRunReport(l, res)
	}
	return nil
}

// presetSkippable reports errors that mean "these workbooks are not this
// preset's", as opposed to data or storage failures.
func presetSkippable(err error) bool {
	return errors.Is(err, registry.ErrInvalidOptions) || errors.Is(err, xlsx.ErrSheetNotFound)
}

// printRunReport prints a formatted run report using logger.
func printRunReport(l *zap.Logger, res *registry.RunResult) {
	s := res.Summary

	l.Info("Sync report",
		zap.String("run_id", res.RunID),
		zap.String("preset", res.Preset),
		zap.Bool("dry_run", res.DryRun),
		zap.Bool("uploaded", res.Uploaded),
		zap.Int("source_keys", s.SourceKeys),
		zap.Int("matched", s.Matched),
		zap.Int("updated", s.Updated),
		zap.Int("inserted", s.Inserted),
		zap.Int("cleared", s.Cleared),
		zap.Int("deleted", s.Deleted),
		zap.Int64("duration_ms", res.DurationMS),
	)

	if len(res.Actions) > 0 {
		// Show sample of actions (max 5 for logger)
		maxShow := 5
		if len(res.Actions) < maxShow {
			maxShow = len(res.Actions)
		}
		for i := 0; i < maxShow; i++ {
			action := res.Actions[i]
			l.Info("Planned action",
				zap.String("type", string(action.Type)),
				zap.String("key", action.Key),
				zap.Int("row", action.Row),
				zap.String("reason", action.Reason),
			)
		}
		if len(res.Actions) > maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(res.Actions)-maxShow))
		}
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(response)
	return response == "yes"
}
