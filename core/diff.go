package core

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// generateDiff returns a unified diff from original to modified, or "" when
// they are equal. An empty original diffs against /dev/null.
func generateDiff(path, original, modified string) string {
	if original == modified {
		return ""
	}
	from := path
	var a []string
	if original == "" {
		from = "/dev/null"
	} else {
		a = difflib.SplitLines(original)
	}
	diff := difflib.UnifiedDiff{
		A:        a,
		B:        difflib.SplitLines(modified),
		FromFile: from,
		ToFile:   path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return fmt.Sprintf("--- %s\n+++ %s\n@@ changes @@\n%d bytes -> %d bytes\n",
			from, path, len(original), len(modified))
	}
	return text
}
