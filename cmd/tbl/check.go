package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tbl/internal/collection"
	"tbl/internal/diag"
	"tbl/internal/diagfmt"
	"tbl/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check <dir>",
	Short: "Validate every *.tbl file under a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

type checkOutcome struct {
	path   string
	bag    *diag.Bag
	source string
}

func runCheck(cmd *cobra.Command, args []string) error {
	root := args[0]
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".tbl" {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %q: %w", root, err)
	}
	sort.Strings(files)

	outcomes := make([]checkOutcome, len(files))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(jobs)
	for i, path := range files {
		i, path := i, path
		g.Go(func() error {
			src, err := readSource(path)
			if err != nil {
				mu.Lock()
				outcomes[i] = checkOutcome{path: path, bag: errorBag(err)}
				mu.Unlock()
				return nil
			}
			_, diags := collection.BuildFromSource(src)
			bag := bagFromDiagnostics(diags)
			bag.Sort()
			mu.Lock()
			outcomes[i] = checkOutcome{path: path, bag: bag, source: src}
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	color, err := resolveColor(cmd, os.Stdout)
	if err != nil {
		return err
	}

	hadErrors := false
	for _, o := range outcomes {
		if o.bag.Len() == 0 {
			continue
		}
		if o.bag.HasErrors() {
			hadErrors = true
		}
		fmt.Printf("== %s ==\n", o.path)
		m := source.NewMap(o.source)
		diagfmt.Pretty(os.Stdout, capBag(o.bag, maxDiagnostics), m, diagfmt.PrettyOpts{
			Color:           color,
			WithSuggestions: true,
			WithContextLine: true,
		})
	}
	if !hadErrors {
		fmt.Printf("checked %d file(s), no errors\n", len(files))
	}
	if hadErrors {
		os.Exit(1)
	}
	return nil
}

func errorBag(err error) *diag.Bag {
	bag := diag.NewBag(0)
	bag.Add(&diag.Diagnostic{Severity: diag.SevError, Code: diag.UnknownCode, Message: err.Error()})
	return bag
}
