package registry

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"sheet-sync/core/reconcile"
)

// Inspect reports how a single key stands between the two sheets of a
// preset without planning or writing anything. It downloads the same
// workbooks a run would and reads them with the same rules, so the
// report reflects exactly what the next run will see.
func (s *Service) Inspect(ctx context.Context, presetName, key string, opts Options) (*reconcile.KeyReport, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: empty lookup key", ErrInvalidOptions)
	}

	p, err := ByName(presetName)
	if err != nil {
		return nil, err
	}
	srcPath, tgtPath, err := s.resolvePaths(p, opts)
	if err != nil {
		return nil, err
	}

	log := s.logger.With(
		zap.String("preset", p.Name),
		zap.String("key", key))

	srcWB, tgtWB, err := s.download(ctx, srcPath, tgtPath, log)
	if err != nil {
		return nil, err
	}
	defer srcWB.Close()
	if tgtWB != srcWB {
		defer tgtWB.Close()
	}

	// Column growth from prepareSheets stays in memory; an inspect
	// never uploads.
	source, target, err := prepareSheets(p, srcWB, tgtWB, log)
	if err != nil {
		return nil, err
	}

	report, err := reconcile.LookupKey(source, target, p.Rules, key)
	if err != nil {
		return nil, err
	}
	log.Debug("key inspected",
		zap.Bool("in_source", report.InSource),
		zap.Bool("in_target", report.InTarget),
		zap.Int("changed", len(report.Changed)))
	return report, nil
}
