package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tbl/internal/collection"
	"tbl/internal/diagfmt"
	"tbl/internal/generator"
	"tbl/internal/source"
)

var genCmd = &cobra.Command{
	Use:   "gen <file> <table-id>",
	Short: "Generate samples from a table",
	Args:  cobra.ExactArgs(2),
	RunE:  runGen,
}

func init() {
	genCmd.Flags().Int("count", 1, "number of samples to generate")
	genCmd.Flags().Int64("seed", 0, "deterministic RNG seed (0 = platform entropy)")
	genCmd.Flags().Int("max-depth", generator.MaxRecursionDepth, "recursion depth ceiling (clamped to 64)")
}

func runGen(cmd *cobra.Command, args []string) error {
	path, tableID := args[0], args[1]
	src, err := readSource(path)
	if err != nil {
		return err
	}

	count, err := cmd.Flags().GetInt("count")
	if err != nil {
		return err
	}
	seed, err := cmd.Flags().GetInt64("seed")
	if err != nil {
		return err
	}
	maxDepth, err := cmd.Flags().GetInt("max-depth")
	if err != nil {
		return err
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}

	col, diags := collection.BuildFromSource(src)
	if len(diags) > 0 {
		bag := bagFromDiagnostics(diags)
		bag.Sort()
		color, cerr := resolveColor(cmd, os.Stderr)
		if cerr != nil {
			return cerr
		}
		m := source.NewMap(src)
		diagfmt.Pretty(os.Stderr, capBag(bag, maxDiagnostics), m, diagfmt.PrettyOpts{
			Color:           color,
			WithSuggestions: true,
			WithContextLine: true,
		})
		os.Exit(1)
	}

	var rng generator.RNG
	if seed != 0 {
		rng = generator.NewSeededRNG(uint64(seed))
	} else {
		rng = generator.NewRNG()
	}

	g := generator.New(col, rng, maxDepth)
	res, err := g.Generate(tableID, count)
	if err != nil {
		return err
	}

	log.WithField("request_id", res.RequestID).Debug("generate")
	fmt.Println(res.Joined())
	return nil
}
