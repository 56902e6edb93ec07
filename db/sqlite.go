package db

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	puresqlite "github.com/glebarez/sqlite"
	libsql "github.com/tursodatabase/libsql-client-go/libsql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oxhq/cs2hx/models"
)

// Drivers accepted by Connect for file DSNs.
const (
	DriverSQLite     = "sqlite"      // cgo, mattn/go-sqlite3
	DriverPureSQLite = "sqlite-pure" // modernc, no cgo
)

// AuthTokenEnv names the variable holding the token for remote libsql DSNs.
const AuthTokenEnv = "CS2HX_LIBSQL_AUTH_TOKEN"

// Connect opens the run history database and migrates it. URL DSNs
// (libsql://, http://, https://) go through libsql and ignore driverName.
func Connect(dsn, driverName string, debug bool) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database DSN is required")
	}
	// Ensure directory exists for file-based SQLite
	if !isURL(dsn) && dsn != ":memory:" {
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	config := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	if debug {
		config.Logger = logger.Default.LogMode(logger.Info)
	}

	dialector, conn, err := dialect(dsn, driverName)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, config)
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		if dsn == ":memory:" {
			// every pooled connection would get its own empty database
			sqlDB.SetMaxOpenConns(1)
		}
		sqlDB.Exec("PRAGMA foreign_keys = ON")
	}

	if err := Migrate(db); err != nil {
		Close(db)
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

func dialect(dsn, driverName string) (gorm.Dialector, *sql.DB, error) {
	if isURL(dsn) {
		var (
			connector driver.Connector
			err       error
		)
		if token := os.Getenv(AuthTokenEnv); token != "" {
			connector, err = libsql.NewConnector(dsn, libsql.WithAuthToken(token))
		} else {
			connector, err = libsql.NewConnector(dsn)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create libsql connector: %w", err)
		}
		conn := sql.OpenDB(connector)
		return sqlite.New(sqlite.Config{
			DriverName: "libsql",
			Conn:       conn,
			DSN:        dsn,
		}), conn, nil
	}

	switch driverName {
	case "", DriverSQLite:
		return sqlite.Open(dsn), nil, nil
	case DriverPureSQLite:
		return puresqlite.Open(dsn), nil, nil
	}
	return nil, nil, fmt.Errorf("unknown database driver %q (want %s or %s)", driverName, DriverSQLite, DriverPureSQLite)
}

// isURL checks if the DSN is a URL (for Turso) or file path
func isURL(dsn string) bool {
	return strings.HasPrefix(dsn, "http://") ||
		strings.HasPrefix(dsn, "https://") ||
		strings.HasPrefix(dsn, "libsql://")
}

// Migrate runs database migrations
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Run{},
		&models.UnitRecord{},
	)
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
