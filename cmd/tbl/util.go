package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"tbl/internal/cache"
	"tbl/internal/diag"
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// resolveColor turns the --color flag plus a TTY check into a single bool,
// the way cmd/surge's subcommands do for every diagnostic-printing path.
func resolveColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	return colorFlag == "on" || (colorFlag == "auto" && isTerminal(f)), nil
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// openCache resolves --cache-dir (falling back to cache.DefaultDir) and
// opens a disk cache. A failure to resolve/open is non-fatal: callers
// proceed without caching rather than failing the whole command.
func openCache(cmd *cobra.Command) *cache.DiskCache {
	dir, err := cmd.Root().PersistentFlags().GetString("cache-dir")
	if err != nil {
		return nil
	}
	if dir == "" {
		dir, err = cache.DefaultDir("tbl")
		if err != nil {
			log.WithError(err).Debug("cache: could not resolve default directory")
			return nil
		}
	}
	c, err := cache.Open(dir, log)
	if err != nil {
		log.WithError(err).Debug("cache: could not open")
		return nil
	}
	return c
}

// bagFromDiagnostics wraps a flat diagnostic list (as returned by
// collection.Build) back into a Bag so it can flow through diagfmt, which
// always renders a Bag.
func bagFromDiagnostics(diags []*diag.Diagnostic) *diag.Bag {
	bag := diag.NewBag(0)
	for _, d := range diags {
		bag.Add(d)
	}
	return bag
}

// capBag returns a new Bag holding at most max of bag's items (0 means
// unbounded), for the --max-diagnostics flag. bag is left untouched so
// HasErrors() still reflects the full diagnostic set.
func capBag(bag *diag.Bag, max int) *diag.Bag {
	if max <= 0 || bag.Len() <= max {
		return bag
	}
	capped := diag.NewBag(max)
	for _, d := range bag.Items()[:max] {
		capped.Add(d)
	}
	return capped
}
