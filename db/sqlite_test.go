package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestConnect(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name          string
		dsn           string
		driver        string
		debug         bool
		expectedError bool
		errorContains string
	}{
		{name: "memory database", dsn: ":memory:"},
		{name: "memory database with debug", dsn: ":memory:", debug: true},
		{name: "file database", dsn: filepath.Join(dir, "history.db"), driver: DriverSQLite},
		{name: "nested directory creation", dsn: filepath.Join(dir, "nested", "path", "history.db")},
		{name: "pure go driver", dsn: filepath.Join(dir, "pure.db"), driver: DriverPureSQLite},
		{name: "empty dsn", dsn: "", expectedError: true, errorContains: "DSN is required"},
		{name: "unknown driver", dsn: ":memory:", driver: "postgres", expectedError: true, errorContains: "unknown database driver"},
		{name: "unreachable libsql", dsn: "http://127.0.0.1:19999/db", expectedError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := Connect(tt.dsn, tt.driver, tt.debug)
			if tt.expectedError {
				require.Error(t, err)
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Nil(t, db)
				return
			}
			require.NoError(t, err)
			t.Cleanup(func() { Close(db) })

			sqlDB, err := db.DB()
			require.NoError(t, err)
			require.NoError(t, sqlDB.Ping())

			var fkEnabled int
			require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fkEnabled).Error)
			assert.Equal(t, 1, fkEnabled)

			for _, table := range []string{"runs", "unit_records"} {
				assert.True(t, db.Migrator().HasTable(table), "table %s should exist", table)
			}
		})
	}
}

func TestIsURL(t *testing.T) {
	tests := []struct {
		dsn      string
		expected bool
	}{
		{"http://example.com", true},
		{"https://example.com", true},
		{"libsql://test.turso.io", true},
		{"/path/to/history.db", false},
		{"history.db", false},
		{":memory:", false},
		{"", false},
		{"http:/", false},
		{"libsq", false},
	}
	for _, tt := range tests {
		t.Run(tt.dsn, func(t *testing.T) {
			assert.Equal(t, tt.expected, isURL(tt.dsn))
		})
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	assert.NoError(t, Migrate(db))
	assert.NoError(t, Migrate(db))
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Connect(":memory:", DriverSQLite, false)
	require.NoError(t, err)
	t.Cleanup(func() { Close(db) })
	return db
}
