package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <file>",
	Short: "Format a tbl source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

// runFmt is a guarded no-op: TBL's grammar has no reformatting degree of
// freedom beyond whitespace/comment canonicalization, which the source
// specification leaves unstated. Mirrors the teacher's own guards for
// unsupported fmt constructs rather than silently pretending to reformat.
func runFmt(cmd *cobra.Command, args []string) error {
	return fmt.Errorf("fmt: not yet supported for %s", args[0])
}
