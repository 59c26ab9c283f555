package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"ccrt-portal/backend/config"
)

type lookupRow struct {
	ID   uint
	Name string
}

func TestNewDB_GormLogsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	cfg := &config.DatabaseConfig{Driver: "sqlite", Path: filepath.Join(t.TempDir(), "nested", "portal.db")}

	db, err := NewDB(cfg, "warn", zap.New(core))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Exec("CREATE TABLE lookup_rows (id INTEGER PRIMARY KEY, name TEXT)").Error)

	var row lookupRow
	err = db.Where("id = ?", 42).First(&row).Error
	require.Error(t, err)
	assert.Zero(t, logs.FilterLoggerName("gorm").Len(), "missing records must not be logged")

	require.Error(t, db.Exec("SELECT * FROM no_such_table").Error)
	assert.Equal(t, 1, logs.FilterLoggerName("gorm").Len())
}

func TestPoolSettings(t *testing.T) {
	maxOpen, maxIdle, lifetime := poolSettings(&config.DatabaseConfig{})
	assert.Equal(t, 25, maxOpen)
	assert.Equal(t, 10, maxIdle)
	assert.Equal(t, time.Hour, lifetime)

	maxOpen, maxIdle, lifetime = poolSettings(&config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 8, ConnMaxLifetime: 5})
	assert.Equal(t, 4, maxOpen)
	assert.Equal(t, 4, maxIdle)
	assert.Equal(t, 5*time.Minute, lifetime)
}
