package journal

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Recorder persists runs to the database. A nil database produces a
// disabled recorder whose methods are safe no-ops, so a missing journal
// never blocks a reconciliation.
type Recorder struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewRecorder creates a Recorder. db may be nil.
func NewRecorder(db *gorm.DB, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{db: db, logger: logger}
}

// Enabled reports whether runs are being persisted.
func (r *Recorder) Enabled() bool {
	return r != nil && r.db != nil
}

// Migrate creates or updates the sync_runs table.
func (r *Recorder) Migrate() error {
	if !r.Enabled() {
		return nil
	}
	return r.db.AutoMigrate(&Run{})
}

// Record stores a finished run. Failures are logged, not returned: by the
// time the journal is written the workbook upload already happened.
func (r *Recorder) Record(run Run) {
	if !r.Enabled() {
		return
	}
	if err := r.db.Create(&run).Error; err != nil {
		r.logger.Warn("failed to record run",
			zap.String("run_id", run.ID),
			zap.Error(err))
	}
}

// Recent returns the latest runs, newest first.
func (r *Recorder) Recent(limit int) ([]Run, error) {
	if !r.Enabled() {
		return nil, nil
	}
	if limit <= 0 {
		limit = 20
	}

	var runs []Run
	err := r.db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	return runs, err
}
