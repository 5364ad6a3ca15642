package diagfmt

// PrettyOpts configures pretty-printing of diagnostics, per spec.md §4.2's
// enumerated formatter options.
type PrettyOpts struct {
	Color           bool
	WithSuggestions bool
	WithContextLine bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	Max int // 0 means unbounded; a rendering cap, distinct from the Bag's own cap
}
