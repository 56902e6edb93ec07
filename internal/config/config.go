package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// ErrInvalid marks a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application's configuration.
type Config struct {
	DB            string // run history DSN: file path or libsql/http(s) URL
	DBDriver      string // sqlite or sqlite-pure
	DBDebug       bool
	RetentionRuns int // history rows kept after each run, 0 keeps all
	Workers       int
	Indent        string
	LogLevel      string
	LogFormat     string
}

// LoadConfig reads the given .env files (".env" when none are named), then
// the CS2HX_* environment. Missing files are ignored and so are malformed
// numbers, which keep their defaults. Variables already set in the
// environment win over .env entries.
func LoadConfig(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	cfg := &Config{
		DB:            os.Getenv("CS2HX_DB"),
		DBDriver:      os.Getenv("CS2HX_DB_DRIVER"),
		RetentionRuns: 50,
		Workers:       runtime.NumCPU(),
		Indent:        "\t",
		LogLevel:      strings.ToLower(os.Getenv("CS2HX_LOG_LEVEL")),
		LogFormat:     strings.ToLower(os.Getenv("CS2HX_LOG_FORMAT")),
	}

	if cfg.DB == "" {
		cfg.DB = ".cs2hx/history.db"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = "sqlite"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}

	if debugStr := os.Getenv("CS2HX_DB_DEBUG"); debugStr != "" {
		if debug, err := strconv.ParseBool(debugStr); err == nil {
			cfg.DBDebug = debug
		}
	}

	if workersStr := os.Getenv("CS2HX_WORKERS"); workersStr != "" {
		if workers, err := strconv.Atoi(workersStr); err == nil && workers > 0 {
			cfg.Workers = workers
		}
	}

	if retentionStr := os.Getenv("CS2HX_DB_RETENTION_RUNS"); retentionStr != "" {
		if retention, err := strconv.Atoi(retentionStr); err == nil && retention >= 0 {
			cfg.RetentionRuns = retention
		}
	}

	if indentStr, ok := os.LookupEnv("CS2HX_INDENT"); ok {
		if indent, err := ParseIndent(indentStr); err == nil {
			cfg.Indent = indent
		}
	}

	return cfg
}

// Validate rejects values that have a fixed set of choices.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalid, c.LogLevel)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log format %q", ErrInvalid, c.LogFormat)
	}
	switch c.DBDriver {
	case "sqlite", "sqlite-pure":
	default:
		return fmt.Errorf("%w: database driver %q", ErrInvalid, c.DBDriver)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	return nil
}

// ParseIndent turns an indent setting into the indent unit: "tab" (or an
// empty value) is a tab, a number is that many spaces, and a literal run of
// spaces or tabs is used as is.
func ParseIndent(s string) (string, error) {
	switch s {
	case "", "tab", `\t`:
		return "\t", nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 8 {
			return "", fmt.Errorf("%w: indent width %d out of range 1-8", ErrInvalid, n)
		}
		return strings.Repeat(" ", n), nil
	}
	if strings.Trim(s, " \t") == "" {
		return s, nil
	}
	return "", fmt.Errorf("%w: indent %q", ErrInvalid, s)
}
