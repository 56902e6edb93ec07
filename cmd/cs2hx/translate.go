package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/oxhq/cs2hx/core"
	"github.com/oxhq/cs2hx/db"
	"github.com/oxhq/cs2hx/internal/config"
)

type translateFlags struct {
	out       string
	include   []string
	exclude   []string
	workers   int
	indent    string
	dryRun    bool
	diff      bool
	json      bool
	noHistory bool
	backup    bool
	noIgnore  bool
}

// translateReport is the --json document.
type translateReport struct {
	OK   bool              `json:"ok"`
	Runs []*core.RunResult `json:"runs"`
}

func (a *app) translateCommand() *cobra.Command {
	var f translateFlags
	cmd := &cobra.Command{
		Use:   "translate [paths...]",
		Short: "Translate C# files or directories",
		Long: "Translate every .cs file under the given paths (default: the current directory).\n" +
			"A unit that fails produces no output; the others are still written.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{"."}
			}
			return a.translate(cmd, args, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.out, "out", "o", "haxe", "output directory for generated .hx files")
	flags.StringSliceVar(&f.include, "include", []string{"**/*.cs"}, "glob patterns to include")
	flags.StringSliceVar(&f.exclude, "exclude", []string{"**/bin/**", "**/obj/**"}, "glob patterns to exclude")
	flags.IntVarP(&f.workers, "workers", "w", 0, "parallel units (env CS2HX_WORKERS)")
	flags.StringVar(&f.indent, "indent", "", "indent unit: tab, a number of spaces (env CS2HX_INDENT)")
	flags.BoolVarP(&f.dryRun, "dry-run", "n", false, "translate and diff without writing")
	flags.BoolVar(&f.diff, "diff", false, "print a unified diff for each generated file")
	flags.BoolVar(&f.json, "json", false, "print results as JSON")
	flags.BoolVar(&f.noHistory, "no-history", false, "do not record this run in the history database")
	flags.BoolVar(&f.noIgnore, "no-gitignore", false, "do not skip files listed in the root .gitignore")
	flags.BoolVar(&f.backup, "backup", false, "keep a timestamped copy of files that are overwritten")
	return cmd
}

func (a *app) translate(cmd *cobra.Command, paths []string, f translateFlags) error {
	indent := a.cfg.Indent
	if cmd.Flags().Changed("indent") {
		parsed, err := config.ParseIndent(f.indent)
		if err != nil {
			return fmt.Errorf("%w: %w", errConfig, err)
		}
		indent = parsed
	}
	workers := a.cfg.Workers
	if f.workers > 0 {
		workers = f.workers
	}

	writeConfig := core.DefaultAtomicConfig()
	writeConfig.BackupOriginal = f.backup
	processor := core.NewProcessor(a.registry, a.logger).WithWriter(writeConfig)

	report := translateReport{OK: true}
	for _, path := range paths {
		opts := core.Options{
			Scope: core.FileScope{
				Path:      filepath.Clean(path),
				Include:   f.include,
				Exclude:   f.exclude,
				Gitignore: !f.noIgnore,
			},
			OutDir:  f.out,
			Workers: workers,
			DryRun:  f.dryRun,
			Diff:    f.diff,
			Indent:  indent,
		}
		result, err := processor.Run(cmd.Context(), opts)
		if err != nil {
			return err
		}
		report.Runs = append(report.Runs, result)
		report.OK = report.OK && result.OK()

		if !f.noHistory {
			a.recordHistory(result, opts)
		}
		if !f.json {
			a.printRun(result, f.diff)
		}
	}

	if f.json {
		enc := json.NewEncoder(a.stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	if !report.OK {
		return errUnitsFailed
	}
	return nil
}

// recordHistory stores the run and prunes old ones. History problems are
// logged and never fail the translation.
func (a *app) recordHistory(result *core.RunResult, opts core.Options) {
	gdb, err := db.Connect(a.cfg.DB, a.cfg.DBDriver, a.cfg.DBDebug)
	if err != nil {
		a.logger.Warn("run history unavailable", "dsn", a.cfg.DB, "error", err)
		return
	}
	defer db.Close(gdb)

	run, err := db.RecordRun(gdb, result, opts)
	if err != nil {
		a.logger.Warn("failed to record run", "error", err)
		return
	}
	a.logger.Debug("recorded run", "id", run.ID)

	if a.cfg.RetentionRuns > 0 {
		if removed, err := db.PruneRuns(gdb, a.cfg.RetentionRuns); err != nil {
			a.logger.Warn("failed to prune run history", "error", err)
		} else if removed > 0 {
			a.logger.Debug("pruned run history", "removed", removed)
		}
	}
}

func (a *app) printRun(result *core.RunResult, showDiff bool) {
	for _, u := range result.Units {
		if u.Failed() {
			fmt.Fprintf(a.stdout, "%s %s\n    %s %s\n", red("✗"), u.Path, red(string(u.Code)), u.Error)
			continue
		}
		fmt.Fprintf(a.stdout, "%s %s\n", green("✓"), u.Path)
		for _, out := range u.Outputs {
			state := "unchanged"
			switch {
			case result.DryRun:
				state = "dry-run"
			case out.Written:
				state = "written"
			}
			fmt.Fprintf(a.stdout, "    %s %s (%s)\n", cyan("→"), out.Path, state)
			if showDiff && out.Diff != "" {
				fmt.Fprint(a.stdout, out.Diff)
			}
		}
	}

	summary := fmt.Sprintf("%d translated, %d failed, %d written in %dms",
		result.Translated, result.Failed, result.FilesWritten, result.DurationMS)
	if result.DryRun {
		summary += " " + yellow("(dry run)")
	}
	if result.OK() {
		fmt.Fprintf(a.stdout, "%s %s\n", bold(green("Done:")), summary)
	} else {
		fmt.Fprintf(a.stdout, "%s %s\n", bold(red("Failed:")), summary)
	}
}
