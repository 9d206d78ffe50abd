package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"hearthc/internal/source"
)

// Cursor tracks a byte offset into a single source file.
type Cursor struct {
	File *source.File
	Off  uint32
	lim  uint32
}

// NewCursor creates a Cursor positioned at the start of f.
func NewCursor(f *source.File) Cursor {
	lim, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("lexer: file %q exceeds addressable size: %w", f.Path, err))
	}
	return Cursor{File: f, Off: 0, lim: lim}
}

// EOF reports whether the cursor has consumed the whole file.
func (c *Cursor) EOF() bool { return c.Off >= c.lim }

// Peek returns the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 returns the current and next byte if both exist.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.lim {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// PeekAt returns the byte n positions ahead of the cursor, or 0 past EOF.
func (c *Cursor) PeekAt(n uint32) byte {
	if c.Off+n >= c.lim {
		return 0
	}
	return c.File.Content[c.Off+n]
}

// Bump consumes and returns the current byte.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Eat consumes the current byte if it equals b.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}

// Mark is a saved cursor position, used to compute the span of a scanned
// token once scanning completes.
type Mark uint32

// Mark saves the current offset.
func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom returns the span from a saved Mark to the current offset.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}
