package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/repr"
	"github.com/spf13/cobra"

	"tbl/internal/ast"
	"tbl/internal/cache"
	"tbl/internal/collection"
	"tbl/internal/diag"
	"tbl/internal/diagfmt"
	"tbl/internal/parser"
	"tbl/internal/source"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a tbl source file and print its AST",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().Bool("debug-ast", false, "also print a repr-formatted AST tree to stderr")
}

func runParse(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := readSource(path)
	if err != nil {
		return err
	}

	debugAST, err := cmd.Flags().GetBool("debug-ast")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	var result parser.Result
	if c := openCache(cmd); c != nil {
		key := cache.KeyOf(src)
		if prog, ok, cerr := c.Get(key); cerr == nil && ok {
			result = parser.Result{Program: prog, Bag: diag.NewBag(0)}
		} else {
			result = parser.Parse(src)
			if !result.Bag.HasErrors() {
				_ = c.Put(key, result.Program)
			}
		}
	} else {
		result = parser.Parse(src)
	}

	result.Bag.Sort()
	if result.Bag.Len() > 0 {
		color, cerr := resolveColor(cmd, os.Stderr)
		if cerr != nil {
			return cerr
		}
		m := source.NewMap(src)
		diagfmt.Pretty(os.Stderr, capBag(result.Bag, maxDiagnostics), m, diagfmt.PrettyOpts{
			Color:           color,
			WithSuggestions: true,
			WithContextLine: true,
		})
	}

	if debugAST {
		fmt.Fprintln(os.Stderr, repr.String(result.Program, repr.Indent("  ")))
		if !result.Bag.HasErrors() {
			printWeightFractions(os.Stderr, result.Program)
		}
	}

	js, err := result.Program.ToJSON()
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, js)

	if result.Bag.HasErrors() {
		os.Exit(1)
	}
	return nil
}

// printWeightFractions supplements the raw AST dump with each rule's
// RuleWeightFraction, the odds a reader of the tree can't get from the AST
// shape alone without re-deriving the prefix-sum totals by hand.
func printWeightFractions(w io.Writer, prog *ast.Program) {
	col, diags := collection.Build(prog)
	if len(diags) != 0 {
		return
	}
	for _, id := range col.TableIDs() {
		n, _ := col.RuleCount(id)
		fmt.Fprintf(w, "weights %s:", id)
		for i := 0; i < n; i++ {
			frac, _ := col.RuleWeightFraction(id, i)
			fmt.Fprintf(w, " [%d]=%.2f%%", i, frac*100)
		}
		fmt.Fprintln(w)
	}
}
