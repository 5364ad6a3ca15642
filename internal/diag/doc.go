// Package diag defines the diagnostic model shared by every pipeline phase:
// lexer, parser, collection validator, and generator.
//
// Diagnostic is the central record: a Severity, a phase-ranged Code, a
// message, the primary source.Span, an optional deterministic Suggestion
// string, an optional Category tag, and zero or more Notes pointing at
// related spans (e.g. the earlier declaration in a duplicate-table report).
//
// Producers emit through a Reporter so that lexer/parser/collection never
// depend on a concrete Bag. BagReporter accumulates into a Bag, which
// supports capacity limits, sorting, and deduplication. DedupReporter wraps
// any Reporter to suppress exact repeats before they reach it.
//
// Package diag performs no formatting or IO; internal/diagfmt renders
// Diagnostics into the pretty box format and the JSON schema.
package diag
