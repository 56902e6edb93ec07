package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/oxhq/cs2hx/internal/config"
	"github.com/oxhq/cs2hx/internal/logging"
	"github.com/oxhq/cs2hx/providers"
	"github.com/oxhq/cs2hx/providers/csharp"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1 // a unit failed or the run could not finish
	exitConfig = 2 // bad flags or configuration
)

var (
	errUnitsFailed = errors.New("some units failed to translate")
	errConfig      = errors.New("configuration error")
)

// unit parse results are cached for the lifetime of one process
const parseCacheAge = 10 * time.Minute

type app struct {
	stdout, stderr io.Writer

	envFiles  []string
	logLevel  string
	logFormat string
	dsn       string
	dbDriver  string

	cfg      *config.Config
	logger   *slog.Logger
	registry *providers.Registry
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUnitsFailed):
		return exitFailed
	case errors.Is(err, errConfig):
		fmt.Fprintf(stderr, "%s %v\n", red("Error:"), err)
		return exitConfig
	}
	fmt.Fprintf(stderr, "%s %v\n", red("Error:"), err)
	return exitFailed
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "cs2hx",
		Short:         "Translate C# sources to Haxe",
		Long:          "cs2hx translates C# classes and enums into Haxe, one file per type, laid out by package.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	flags.StringVar(&a.logLevel, "log-level", "", "debug, info, warn or error (env CS2HX_LOG_LEVEL)")
	flags.StringVar(&a.logFormat, "log-format", "", "text or json (env CS2HX_LOG_FORMAT)")
	flags.StringVar(&a.dsn, "db", "", "run history database (env CS2HX_DB)")
	flags.StringVar(&a.dbDriver, "db-driver", "", "sqlite or sqlite-pure (env CS2HX_DB_DRIVER)")

	root.AddCommand(a.translateCommand(), a.historyCommand(), a.languagesCommand())
	return root
}

// setup loads configuration, applies the persistent flags on top and builds
// the logger and provider registry.
func (a *app) setup(cmd *cobra.Command) error {
	cfg := config.LoadConfig(a.envFiles...)
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if flags.Changed("log-format") {
		cfg.LogFormat = a.logFormat
	}
	if flags.Changed("db") {
		cfg.DB = a.dsn
	}
	if flags.Changed("db-driver") {
		cfg.DBDriver = a.dbDriver
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}

	logger, err := logging.New(a.stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("%w: %w", errConfig, err)
	}

	a.cfg = cfg
	a.logger = logger
	a.registry = providers.NewRegistry()
	a.registry.Register(csharp.New(csharp.WithCache(parseCacheAge)))
	return nil
}
