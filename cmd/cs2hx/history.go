package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oxhq/cs2hx/db"
)

func (a *app) historyCommand() *cobra.Command {
	var (
		limit    int
		asJSON   bool
		failures bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent translate runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gdb, err := db.Connect(a.cfg.DB, a.cfg.DBDriver, a.cfg.DBDebug)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer db.Close(gdb)

			runs, err := db.RecentRuns(gdb, limit)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}
			if len(runs) == 0 {
				fmt.Fprintf(a.stdout, "%s no runs recorded in %s\n", yellow("→"), a.cfg.DB)
				return nil
			}

			for _, r := range runs {
				mark := green("✓")
				if !r.Succeeded() {
					mark = red("✗")
				}
				mode := ""
				if r.DryRun {
					mode = yellow(" dry-run")
				}
				fmt.Fprintf(a.stdout, "%s %s  %s  %s -> %s  %d ok, %d failed, %d written%s\n",
					mark,
					bold(r.ID[:8]),
					r.StartedAt.Local().Format("2006-01-02 15:04:05"),
					r.Scope, r.OutDir,
					r.Translated, r.Failed, r.FilesWritten,
					mode)
				if !failures {
					continue
				}
				for _, u := range r.Units {
					if u.Code != "" {
						fmt.Fprintf(a.stdout, "    %s %s %s\n", red(u.Code), u.Path, u.Error)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "l", 10, "number of runs to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print runs as JSON")
	cmd.Flags().BoolVar(&failures, "failures", false, "list failed units under each run")
	return cmd
}
