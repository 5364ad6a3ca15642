package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tbl/internal/collection"
	"tbl/internal/diagfmt"
	"tbl/internal/source"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Parse and validate a tbl source file, printing diagnostics only",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := readSource(path)
	if err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	col, diags := collection.BuildFromSource(src)
	m := source.NewMap(src)

	color, err := resolveColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	if len(diags) == 0 {
		summary := col.Summary()
		fmt.Printf("ok: %d table(s), %d rule(s), %d exported\n", summary.TableCount, summary.TotalRuleCount, summary.ExportedCount)
		return nil
	}

	bag := bagFromDiagnostics(diags)
	bag.Sort()
	diagfmt.Pretty(os.Stdout, capBag(bag, maxDiagnostics), m, diagfmt.PrettyOpts{
		Color:           color,
		WithSuggestions: true,
		WithContextLine: true,
	})
	os.Exit(1)
	return nil
}
