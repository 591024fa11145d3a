package journal

import "time"

// Run statuses.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Run records a single reconciliation run, successful or not.
type Run struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)" json:"id"`
	Preset     string    `gorm:"column:preset;type:varchar(32)" json:"preset"`
	SourcePath string    `gorm:"column:source_path;type:varchar(512)" json:"source_path"`
	TargetPath string    `gorm:"column:target_path;type:varchar(512)" json:"target_path"`
	DryRun     bool      `gorm:"column:dry_run;type:tinyint(1);default:0" json:"dry_run"`
	Status     string    `gorm:"column:status;type:varchar(16)" json:"status"`
	Error      string    `gorm:"column:error;type:varchar(1024)" json:"error,omitempty"`
	SourceKeys int       `gorm:"column:source_keys;default:0" json:"source_keys"`
	Matched    int       `gorm:"column:matched;default:0" json:"matched"`
	Updated    int       `gorm:"column:updated;default:0" json:"updated"`
	Inserted   int       `gorm:"column:inserted;default:0" json:"inserted"`
	Cleared    int       `gorm:"column:cleared;default:0" json:"cleared"`
	Deleted    int       `gorm:"column:deleted;default:0" json:"deleted"`
	StartedAt  time.Time `gorm:"column:started_at" json:"started_at"`
	FinishedAt time.Time `gorm:"column:finished_at" json:"finished_at"`
}

func (Run) TableName() string {
	return "sync_runs"
}
