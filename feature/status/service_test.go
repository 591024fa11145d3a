package status

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"sheet-sync/core/storage/mocks"
)

// setupMockDB creates a mock GORM DB for testing.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, sqlMock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, sqlMock
}

// syncRunsColumns enumerates sync_runs as SHOW COLUMNS reports it.
func syncRunsColumns() *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
	for _, col := range [][2]string{
		{"id", "varchar(36)"},
		{"preset", "varchar(32)"},
		{"source_path", "varchar(512)"},
		{"target_path", "varchar(512)"},
		{"dry_run", "tinyint(1)"},
		{"status", "varchar(16)"},
		{"error", "varchar(1024)"},
		{"source_keys", "bigint"},
		{"matched", "bigint"},
		{"updated", "bigint"},
		{"inserted", "bigint"},
		{"cleared", "bigint"},
		{"deleted", "bigint"},
		{"started_at", "datetime(3)"},
		{"finished_at", "datetime(3)"},
	} {
		rows.AddRow(col[0], col[1], "YES", "", nil, "")
	}
	return rows
}

func TestCheckStorage(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("Ping", mock.Anything).Return(nil)

		svc := NewService(mockClient, nil, zap.NewNop())
		assert.NoError(t, svc.CheckStorage(context.Background()))
	})

	t.Run("Unreachable", func(t *testing.T) {
		mockClient := new(mocks.Client)
		mockClient.On("Ping", mock.Anything).Return(assert.AnError)

		svc := NewService(mockClient, nil, zap.NewNop())
		assert.Error(t, svc.CheckStorage(context.Background()))
	})

	t.Run("Unconfigured", func(t *testing.T) {
		svc := NewService(nil, nil, zap.NewNop())
		assert.Error(t, svc.CheckStorage(context.Background()))
	})
}

func TestCheckDatabase(t *testing.T) {
	t.Run("No Journal", func(t *testing.T) {
		svc := NewService(nil, nil, zap.NewNop())

		_, err := svc.CheckDatabase(context.Background())
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoJournal))
	})

	t.Run("Schema Matches", func(t *testing.T) {
		gormDB, sqlMock := setupMockDB(t)
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").
			WillReturnRows(syncRunsColumns())

		svc := NewService(nil, gormDB, zap.NewNop())
		report, err := svc.CheckDatabase(context.Background())
		require.NoError(t, err)

		assert.True(t, report.Matched)
		assert.Empty(t, report.MissingColumns)
		assert.Empty(t, report.TypeMismatches)
	})

	t.Run("Schema Drift", func(t *testing.T) {
		gormDB, sqlMock := setupMockDB(t)
		// A single surviving column: everything else is missing.
		sqlMock.ExpectQuery("SHOW COLUMNS FROM `sync_runs`").
			WillReturnRows(sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"}).
				AddRow("id", "varchar(36)", "NO", "PRI", nil, ""))

		svc := NewService(nil, gormDB, zap.NewNop())
		report, err := svc.CheckDatabase(context.Background())
		require.NoError(t, err)

		assert.False(t, report.Matched)
		assert.Contains(t, report.MissingColumns, "preset")
	})
}

func TestCheckPresets(t *testing.T) {
	svc := NewService(nil, nil, zap.NewNop())
	assert.Empty(t, svc.CheckPresets())
}
