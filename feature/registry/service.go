package registry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sheet-sync/core/config"
	"sheet-sync/core/journal"
	"sheet-sync/core/logger"
	"sheet-sync/core/reconcile"
	"sheet-sync/core/storage"
	"sheet-sync/core/xlsx"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidOptions marks run options that cannot be resolved into
// workbook paths.
var ErrInvalidOptions = errors.New("invalid run options")

// Options adjust a single run. Zero values fall back to the configured
// defaults.
type Options struct {
	// SourcePath overrides the configured source workbook path.
	SourcePath string
	// TargetPath overrides the configured target workbook path.
	TargetPath string
	// DryRun plans the reconciliation without applying or uploading.
	DryRun bool
	// Prune deletes target-only rows regardless of the preset's policy.
	Prune bool
}

// RunResult reports what one run did, or for dry runs, would do.
type RunResult struct {
	RunID      string `json:"run_id"`
	Preset     string `json:"preset"`
	SourcePath string `json:"source_path"`
	TargetPath string `json:"target_path"`
	DryRun     bool   `json:"dry_run"`

	// Uploaded is false when the target needed no changes.
	Uploaded bool `json:"uploaded"`

	Summary reconcile.Summary `json:"summary"`

	// Actions carries the planned mutations for dry runs.
	Actions []reconcile.Action `json:"actions,omitempty"`

	DurationMS int64 `json:"duration_ms"`
}

// Service runs preset reconciliations against cloud-hosted workbooks.
type Service struct {
	store    storage.Client
	defaults config.SyncConfig
	logger   *zap.Logger
	journal  *journal.Recorder
	group    singleflight.Group
}

// NewService creates the sync service. rec may be nil when no journal
// database is configured.
func NewService(store storage.Client, defaults config.SyncConfig, logg *zap.Logger, rec *journal.Recorder) *Service {
	if logg == nil {
		logg = zap.NewNop()
	}
	if rec == nil {
		rec = journal.NewRecorder(nil, logg)
	}
	return &Service{
		store:    store,
		defaults: defaults,
		logger:   logg,
		journal:  rec,
	}
}

// Run executes one preset end to end: download, plan, apply, restyle,
// upload, journal. Concurrent calls for the same preset and paths join
// the run already in flight instead of racing it.
func (s *Service) Run(ctx context.Context, presetName string, opts Options) (*RunResult, error) {
	p, err := ByName(presetName)
	if err != nil {
		return nil, err
	}
	if opts.Prune {
		p.Rules.TargetOnly = reconcile.TargetOnlyDelete
	}

	srcPath, tgtPath, err := s.resolvePaths(p, opts)
	if err != nil {
		return nil, err
	}

	gateKey := fmt.Sprintf("%s|%s|%s|%t", p.Name, srcPath, tgtPath, opts.DryRun)
	v, err, shared := s.group.Do(gateKey, func() (interface{}, error) {
		return s.run(ctx, p, srcPath, tgtPath, opts.DryRun)
	})
	if err != nil {
		return nil, err
	}

	res := v.(*RunResult)
	if shared {
		s.logger.Info("joined an in-flight run",
			zap.String("preset", p.Name),
			zap.String("run_id", res.RunID))
	}
	return res, nil
}

// resolvePaths fills in configured defaults and enforces the preset's
// workbook layout.
func (s *Service) resolvePaths(p Preset, opts Options) (string, string, error) {
	src := opts.SourcePath
	if src == "" {
		src = s.defaults.SourcePath
	}
	if src == "" {
		return "", "", fmt.Errorf("%w: preset %s: source workbook path is not set", ErrInvalidOptions, p.Name)
	}

	if p.SingleFile {
		// The configured default target belongs to the two-file presets.
		if opts.TargetPath != "" && opts.TargetPath != src {
			return "", "", fmt.Errorf("%w: preset %s works inside one workbook, got a second path %q", ErrInvalidOptions, p.Name, opts.TargetPath)
		}
		return src, src, nil
	}

	tgt := opts.TargetPath
	if tgt == "" {
		tgt = s.defaults.TargetPath
	}
	if tgt == "" {
		return "", "", fmt.Errorf("%w: preset %s: target workbook path is not set", ErrInvalidOptions, p.Name)
	}
	return src, tgt, nil
}

func (s *Service) run(ctx context.Context, p Preset, srcPath, tgtPath string, dryRun bool) (*RunResult, error) {
	runID := uuid.New().String()
	log := logger.WithRunID(s.logger, runID)
	started := time.Now()

	log.Info("run started",
		zap.String("preset", p.Name),
		zap.String("source", srcPath),
		zap.String("target", tgtPath),
		zap.Bool("dry_run", dryRun))

	res, runErr := s.execute(ctx, p, srcPath, tgtPath, dryRun, runID, log)
	finished := time.Now()

	run := journal.Run{
		ID:         runID,
		Preset:     p.Name,
		SourcePath: srcPath,
		TargetPath: tgtPath,
		DryRun:     dryRun,
		Status:     journal.StatusOK,
		StartedAt:  started,
		FinishedAt: finished,
	}
	if runErr != nil {
		run.Status = journal.StatusFailed
		run.Error = runErr.Error()
	} else {
		run.SourceKeys = res.Summary.SourceKeys
		run.Matched = res.Summary.Matched
		run.Updated = res.Summary.Updated
		run.Inserted = res.Summary.Inserted
		run.Cleared = res.Summary.Cleared
		run.Deleted = res.Summary.Deleted
	}
	s.journal.Record(run)

	if runErr != nil {
		log.Error("run failed",
			zap.String("preset", p.Name),
			zap.Duration("took", finished.Sub(started)),
			zap.Error(runErr))
		return nil, runErr
	}

	res.DurationMS = finished.Sub(started).Milliseconds()
	log.Info("run finished",
		zap.String("preset", p.Name),
		zap.Int("source_keys", res.Summary.SourceKeys),
		zap.Int("matched", res.Summary.Matched),
		zap.Int("updated", res.Summary.Updated),
		zap.Int("inserted", res.Summary.Inserted),
		zap.Int("cleared", res.Summary.Cleared),
		zap.Int("deleted", res.Summary.Deleted),
		zap.Bool("uploaded", res.Uploaded),
		zap.Duration("took", finished.Sub(started)))
	return res, nil
}

// execute is the run body between journal bookkeeping: everything here
// happens on in-memory copies until the final upload.
func (s *Service) execute(ctx context.Context, p Preset, srcPath, tgtPath string, dryRun bool, runID string, log *zap.Logger) (*RunResult, error) {
	res := &RunResult{
		RunID:      runID,
		Preset:     p.Name,
		SourcePath: srcPath,
		TargetPath: tgtPath,
		DryRun:     dryRun,
	}

	srcWB, tgtWB, err := s.download(ctx, srcPath, tgtPath, log)
	if err != nil {
		return nil, err
	}
	defer srcWB.Close()
	if tgtWB != srcWB {
		defer tgtWB.Close()
	}

	source, target, err := prepareSheets(p, srcWB, tgtWB, log)
	if err != nil {
		return nil, err
	}

	plan, err := reconcile.BuildPlan(source, target, p.Rules)
	if err != nil {
		return nil, err
	}
	res.Summary = plan.Summary

	if dryRun {
		res.Actions = plan.Actions
		log.Info("dry run, nothing written",
			zap.Int("planned_actions", len(plan.Actions)))
		return res, nil
	}

	applied := plan.Apply(target)
	res.Summary = applied.Summary

	if p.StyleTemplateRow > 0 {
		for _, row := range applied.InsertedRows {
			if row != p.StyleTemplateRow {
				target.CopyRowStyle(p.StyleTemplateRow, row)
			}
		}
	}

	// Reapply the flag fills only when something changed; an untouched
	// workbook keeps its formatting and is not re-uploaded.
	if tgtWB.Dirty() && len(p.BoolFormat) > 0 {
		if err := s.applyBoolFormat(p, target); err != nil {
			return nil, err
		}
	}

	if !tgtWB.Dirty() {
		log.Info("target already in sync, skipping upload")
		return res, nil
	}

	data, err := tgtWB.Bytes()
	if err != nil {
		return nil, err
	}
	if err := s.store.Upload(ctx, tgtPath, data); err != nil {
		return nil, fmt.Errorf("upload target: %w", err)
	}
	res.Uploaded = true
	return res, nil
}

// download fetches the workbooks, both at once when they are distinct
// files. Same-path runs share one workbook instance.
func (s *Service) download(ctx context.Context, srcPath, tgtPath string, log *zap.Logger) (*xlsx.Workbook, *xlsx.Workbook, error) {
	fetchStart := time.Now()

	if srcPath == tgtPath {
		data, err := s.store.Download(ctx, srcPath)
		if err != nil {
			return nil, nil, fmt.Errorf("download workbook: %w", err)
		}
		wb, err := xlsx.OpenWorkbook(data)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("workbook downloaded",
			zap.Int("bytes", len(data)),
			zap.Duration("took", time.Since(fetchStart)))
		return wb, wb, nil
	}

	var srcData, tgtData []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		srcData, err = s.store.Download(gctx, srcPath)
		if err != nil {
			return fmt.Errorf("download source: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		tgtData, err = s.store.Download(gctx, tgtPath)
		if err != nil {
			return fmt.Errorf("download target: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	srcWB, err := xlsx.OpenWorkbook(srcData)
	if err != nil {
		return nil, nil, fmt.Errorf("source: %w", err)
	}
	tgtWB, err := xlsx.OpenWorkbook(tgtData)
	if err != nil {
		srcWB.Close()
		return nil, nil, fmt.Errorf("target: %w", err)
	}

	log.Debug("workbooks downloaded",
		zap.Int("source_bytes", len(srcData)),
		zap.Int("target_bytes", len(tgtData)),
		zap.Duration("took", time.Since(fetchStart)))
	return srcWB, tgtWB, nil
}

// prepareSheets resolves both worksheets, creating and growing the
// target per the preset. Mutations stay in memory until upload.
func prepareSheets(p Preset, srcWB, tgtWB *xlsx.Workbook, log *zap.Logger) (*xlsx.Sheet, *xlsx.Sheet, error) {
	source, err := srcWB.Sheet(p.SourceSheet)
	if err != nil {
		return nil, nil, fmt.Errorf("source workbook: %w", err)
	}

	target, err := tgtWB.Sheet(p.TargetSheet)
	if err != nil {
		if !p.CreateTarget || !errors.Is(err, xlsx.ErrSheetNotFound) {
			return nil, nil, fmt.Errorf("target workbook: %w", err)
		}
		target, err = tgtWB.CreateSheet(p.TargetSheet)
		if err != nil {
			return nil, nil, err
		}
		log.Info("created missing target sheet", zap.String("sheet", p.TargetSheet))
	}

	for _, name := range p.EnsureTarget {
		target.EnsureColumn(name)
	}
	return source, target, nil
}

// applyBoolFormat installs the blank/1/0 fills on every configured flag
// column, spanning the data rows.
func (s *Service) applyBoolFormat(p Preset, target *xlsx.Sheet) error {
	hdr := target.Header()
	keyCol, ok := hdr[p.Rules.Key]
	if !ok {
		return nil
	}
	endRow := target.LastRow(keyCol, p.Rules.DataStartRow)

	for _, name := range p.BoolFormat {
		col, ok := hdr[name]
		if !ok {
			continue
		}
		if err := target.ApplyBoolFormat(col, p.Rules.DataStartRow, endRow); err != nil {
			return err
		}
	}
	return nil
}
