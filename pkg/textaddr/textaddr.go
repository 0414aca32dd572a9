// Package textaddr maps a two-dimensional cursor (column, row) onto a linear
// offset into a text snapshot and back. Line boundaries are never cached;
// every query scans the text it is given.
package textaddr

import (
	"strings"
	"unicode/utf8"
)

// Cursor is a (column, row) position. Columns count characters (runes), not
// bytes. A column equal to the line length denotes the end of that line.
type Cursor struct {
	Col int
	Row int
}

// PositionToOffset returns the byte offset in text corresponding to c.
//
// The scan stops at the start of row c.Row and then advances c.Col
// characters without looking for a newline, so a column past the end of its
// line runs into the following rows. The result never exceeds len(text):
// rows that do not exist, and columns that overrun the text, resolve to the
// end of the text.
func PositionToOffset(text string, c Cursor) int {
	row, col := nonNeg(c.Row), nonNeg(c.Col)
	line := 0
	for i, r := range text {
		if line == row {
			return advance(text, i, col)
		}
		if r == '\n' {
			line++
		}
	}
	return len(text)
}

// advance moves n characters forward from byte offset off.
func advance(text string, off, n int) int {
	for ; n > 0 && off < len(text); n-- {
		_, w := utf8.DecodeRuneInString(text[off:])
		off += w
	}
	return off
}

// OffsetToPosition derives the cursor for a byte offset by re-scanning text.
// Offsets are clamped into [0, len(text)]; an offset inside a multi-byte
// character counts that character as already passed.
func OffsetToPosition(text string, offset int) Cursor {
	if offset > len(text) {
		offset = len(text)
	}
	var c Cursor
	for i, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			c.Row++
			c.Col = 0
			continue
		}
		c.Col++
	}
	return c
}

// LineLength returns the number of characters on row, excluding the
// terminating newline. Rows that do not exist have length 0.
func LineLength(text string, row int) int {
	if row < 0 {
		row = 0
	}
	line, n := 0, 0
	for _, r := range text {
		if line == row {
			if r == '\n' {
				break
			}
			n++
		} else if r == '\n' {
			line++
		}
	}
	return n
}

// TotalLines returns the number of lines in text. An empty text has one
// empty line.
func TotalLines(text string) int {
	return strings.Count(text, "\n") + 1
}

// End returns the cursor just past the last character of text. For text
// ending in a newline this is column 0 of the empty last row.
func End(text string) Cursor {
	row := TotalLines(text) - 1
	return Cursor{Col: LineLength(text, row), Row: row}
}

// Clamp returns c forced into the valid range for text: the row within
// [0, TotalLines-1] and the column within [0, LineLength(row)].
func Clamp(text string, c Cursor) Cursor {
	c.Row = nonNeg(c.Row)
	c.Col = nonNeg(c.Col)
	if last := TotalLines(text) - 1; c.Row > last {
		c.Row = last
	}
	if n := LineLength(text, c.Row); c.Col > n {
		c.Col = n
	}
	return c
}

// Valid reports whether c lies within the ranges Clamp enforces.
func Valid(text string, c Cursor) bool {
	return Clamp(text, c) == c
}

func nonNeg(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
