package source

import (
	"sort"
	"sync"
	"unicode/utf8"

	"fortio.org/safecast"
)

// LineCol is a human-readable, 1-based position within a source text.
// Column counts Unicode code points, not bytes: spec.md §4.1 requires this
// because literal rule text may contain multi-byte characters even though
// TBL's own syntax is ASCII.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Map resolves byte offsets within a single source text into LineCol
// positions. Line-start offsets are computed lazily on first access and then
// cached, per spec.md §4.1.
type Map struct {
	content string

	once       sync.Once
	lineStarts []uint32 // byte offset of the first byte of each line; lineStarts[0] == 0
}

// NewMap wraps source text for position resolution. CRLF sequences are
// normalized to LF and a leading UTF-8 BOM is stripped, mirroring how a
// source file is loaded from disk before lexing.
func NewMap(content string) *Map {
	return &Map{content: normalizeSource(content)}
}

// Content returns the normalized source text.
func (m *Map) Content() string {
	return m.content
}

func (m *Map) ensureLineStarts() {
	m.once.Do(func() {
		starts := []uint32{0}
		for i := 0; i < len(m.content); i++ {
			if m.content[i] == '\n' {
				starts = append(starts, uint32(i+1))
			}
		}
		m.lineStarts = starts
	})
}

// Position resolves a byte offset to a 1-based (line, column). Offsets past
// the end of the source clamp to end-of-file.
func (m *Map) Position(offset uint32) LineCol {
	m.ensureLineStarts()

	total, err := safecast.Conv[uint32](len(m.content))
	if err != nil {
		panic(err)
	}
	if offset > total {
		offset = total
	}

	// Find the last line start <= offset.
	idx := sort.Search(len(m.lineStarts), func(i int) bool {
		return m.lineStarts[i] > offset
	})
	lineIdx := idx - 1
	if lineIdx < 0 {
		lineIdx = 0
	}
	lineStart := m.lineStarts[lineIdx]

	line, err := safecast.Conv[uint32](lineIdx + 1)
	if err != nil {
		panic(err)
	}
	col := uint32(utf8.RuneCountInString(m.content[lineStart:offset])) + 1
	return LineCol{Line: line, Col: col}
}

// PositionRange resolves both ends of a span.
func (m *Map) PositionRange(span Span) (start, end LineCol) {
	return m.Position(span.Start), m.Position(span.End)
}

// Line returns the text of the given 1-based line number, without its
// trailing newline. Returns "" for an out-of-range line.
func (m *Map) Line(lineNum uint32) string {
	m.ensureLineStarts()
	if lineNum == 0 || int(lineNum) > len(m.lineStarts) {
		return ""
	}
	start := m.lineStarts[lineNum-1]
	var end uint32
	if int(lineNum) < len(m.lineStarts) {
		end = m.lineStarts[lineNum] - 1 // back off the newline
	} else {
		total, err := safecast.Conv[uint32](len(m.content))
		if err != nil {
			panic(err)
		}
		end = total
	}
	if end < start {
		end = start
	}
	return m.content[start:end]
}

// LineCount returns the number of lines in the source, counting a trailing
// partial line (one without a terminating newline) as a line.
func (m *Map) LineCount() uint32 {
	m.ensureLineStarts()
	n, err := safecast.Conv[uint32](len(m.lineStarts))
	if err != nil {
		panic(err)
	}
	return n
}

func normalizeSource(content string) string {
	content = stripBOM(content)
	return normalizeCRLF(content)
}

func stripBOM(content string) string {
	const bom = "﻿"
	if len(content) >= 3 && content[:3] == bom {
		return content[3:]
	}
	return content
}

func normalizeCRLF(content string) string {
	if !containsCR(content) {
		return content
	}
	out := make([]byte, 0, len(content))
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			continue
		}
		out = append(out, content[i])
	}
	return string(out)
}

func containsCR(content string) bool {
	for i := 0; i < len(content); i++ {
		if content[i] == '\r' {
			return true
		}
	}
	return false
}
