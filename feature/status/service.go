package status

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"sheet-sync/core/journal"
	"sheet-sync/core/storage"
	"sheet-sync/feature/registry"
)

// ErrNoJournal reports a deployment running without a journal database.
var ErrNoJournal = errors.New("journal database is not configured")

// Service runs the operational self-checks behind the status endpoints.
type Service struct {
	store  storage.Client
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new status service. db may be nil when no journal
// database is configured.
func NewService(store storage.Client, db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, db: db, logger: logger}
}

// CheckStorage verifies that the workbook storage answers.
func (s *Service) CheckStorage(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("storage client is not configured")
	}
	return s.store.Ping(ctx)
}

// CheckDatabase verifies that the journal database answers and that the
// sync_runs table still matches the model.
func (s *Service) CheckDatabase(ctx context.Context) (*journal.SchemaReport, error) {
	if s.db == nil {
		return nil, ErrNoJournal
	}

	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping journal database: %w", err)
	}
	return journal.VerifySchema(s.db)
}

// CheckPresets validates every configured preset and lists the broken
// ones. An empty result means all presets are runnable.
func (s *Service) CheckPresets() []string {
	var problems []string
	for _, p := range registry.All() {
		if err := p.Rules.Validate(); err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", p.Name, err))
		}
	}
	return problems
}
