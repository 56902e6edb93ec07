package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func (a *app) languagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the source languages cs2hx can read",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, p := range a.registry.List() {
				fmt.Fprintf(a.stdout, "%s %s  %s\n", cyan("•"), bold(p.Language()), strings.Join(p.Extensions(), ", "))
			}
		},
	}
}
