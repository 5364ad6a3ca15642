// Package diagfmt renders a diagnostic Bag for humans (Pretty) and for
// tooling (JSON), mirroring the teacher's internal/diagfmt split but against
// a single in-memory source.Map instead of a multi-file FileSet.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tbl/internal/diag"
	"tbl/internal/source"
)

func severityIcon(s diag.Severity) string {
	switch s {
	case diag.SevError:
		return "✖"
	case diag.SevWarning:
		return "⚠"
	default:
		return "ℹ"
	}
}

// Pretty renders bag (call bag.Sort() first for deterministic order) in the
// box format of spec.md §4.2:
//
//	<icon> <message>
//	   ┌─ line L:C
//	   │
//	  L │ <source line>
//	   │ <caret padding>^
//	   │
//	   = <label>: <suggestion>
func Pretty(w io.Writer, bag *diag.Bag, m *source.Map, opts PrettyOpts) {
	prevNoColor := color.NoColor
	defer func() { color.NoColor = prevNoColor }()
	color.NoColor = !opts.Color

	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	lineNumColor := color.New(color.FgBlue)
	caretColor := color.New(color.FgRed, color.Bold)
	labelColor := color.New(color.FgCyan, color.Bold)

	sevColor := func(s diag.Severity) *color.Color {
		switch s {
		case diag.SevError:
			return errorColor
		case diag.SevWarning:
			return warningColor
		default:
			return infoColor
		}
	}

	for idx, d := range bag.Items() {
		if idx > 0 {
			fmt.Fprintln(w)
		}

		start, _ := m.PositionRange(d.Primary)

		fmt.Fprintf(w, "%s %s\n", sevColor(d.Severity).Sprint(severityIcon(d.Severity)), d.Message)
		fmt.Fprintf(w, "   ┌─ line %d:%d\n", start.Line, start.Col)
		fmt.Fprintln(w, "   │")

		if opts.WithContextLine {
			lineText := m.Line(start.Line)
			lineNumStr := lineNumColor.Sprint(fmt.Sprintf("%d", start.Line))
			fmt.Fprintf(w, "  %s │ %s\n", lineNumStr, lineText)

			width := visualWidth(lineText, start.Col)
			fmt.Fprintf(w, "   │ %s%s\n", strings.Repeat(" ", width), caretColor.Sprint("^"))
			fmt.Fprintln(w, "   │")
		}

		for _, note := range d.Notes {
			noteStart, _ := m.PositionRange(note.Span)
			fmt.Fprintf(w, "  %s: %s (line %d:%d)\n", infoColor.Sprint("note"), note.Msg, noteStart.Line, noteStart.Col)
		}

		if opts.WithSuggestions && d.Suggestion != "" {
			fmt.Fprintf(w, "   = %s: %s\n", labelColor.Sprint("help"), d.Suggestion)
		}
	}
}

// visualWidth returns the on-screen column width of line up to (but not
// including) the 1-based code-point column col, honoring wide runes the way
// the teacher's pretty printer does for East Asian width.
func visualWidth(line string, col uint32) int {
	if col <= 1 {
		return 0
	}
	limit, err := safecast.Conv[int](col - 1)
	if err != nil {
		return 0
	}
	width := 0
	i := 0
	for _, r := range line {
		if i >= limit {
			break
		}
		width += runewidth.RuneWidth(r)
		i++
	}
	return width
}
