package lexer

import (
	"fortio.org/safecast"

	"tbl/internal/source"
)

// Cursor is a forward-only byte position within a source text.
type Cursor struct {
	content string
	Off     uint32
	limit   uint32
}

// NewCursor creates a cursor over the full content of m.
func NewCursor(m *source.Map) Cursor {
	limit, err := safecast.Conv[uint32](len(m.Content()))
	if err != nil {
		panic(err)
	}
	return Cursor{content: m.Content(), Off: 0, limit: limit}
}

// EOF reports whether the cursor has consumed the whole source.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit
}

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.content[c.Off]
}

// PeekAt returns the byte n positions ahead of the cursor, or 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	off := c.Off + n
	if off >= c.limit {
		return 0
	}
	return c.content[off]
}

// Bump consumes and returns the current byte, or 0 at EOF.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.content[c.Off]
	c.Off++
	return b
}

// Eat consumes the next byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark is a saved cursor position used to build a Span for a scanned run.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom builds a Span from a previously saved Mark to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{Start: uint32(m), End: c.Off}
}

// Slice returns the raw text covered by a Span.
func (c *Cursor) Slice(sp source.Span) string {
	return c.content[sp.Start:sp.End]
}
