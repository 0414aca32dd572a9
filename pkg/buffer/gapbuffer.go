package buffer

import (
	"errors"
	"fmt"
)

// ErrRange is returned for positions outside the buffer.
var ErrRange = errors.New("buffer: position out of range")

const minGap = 128

// GapBuffer stores runes with a movable gap at the edit point, so runs of
// insertions and deletions at the same place do not shift the whole text.
// Positions are rune indices in [0, Len()].
type GapBuffer struct {
	buf      []rune
	gapStart int
	gapEnd   int

	text  string
	valid bool
}

// New returns an empty GapBuffer.
func New() *GapBuffer {
	return &GapBuffer{buf: make([]rune, minGap), gapEnd: minGap}
}

// FromString returns a GapBuffer holding s.
func FromString(s string) *GapBuffer {
	runes := []rune(s)
	b := make([]rune, len(runes)+minGap)
	copy(b, runes)
	return &GapBuffer{buf: b, gapStart: len(runes), gapEnd: len(b), text: s, valid: true}
}

// Len returns the number of runes stored.
func (g *GapBuffer) Len() int {
	return len(g.buf) - (g.gapEnd - g.gapStart)
}

// Insert places s before position pos.
func (g *GapBuffer) Insert(pos int, s []rune) error {
	if pos < 0 || pos > g.Len() {
		return fmt.Errorf("insert at %d of %d: %w", pos, g.Len(), ErrRange)
	}
	if len(s) == 0 {
		return nil
	}
	g.moveGap(pos)
	g.grow(len(s))
	copy(g.buf[g.gapStart:], s)
	g.gapStart += len(s)
	g.valid = false
	return nil
}

// Delete removes the runes in [start, end).
func (g *GapBuffer) Delete(start, end int) error {
	if start < 0 || end < start || end > g.Len() {
		return fmt.Errorf("delete [%d,%d) of %d: %w", start, end, g.Len(), ErrRange)
	}
	if start == end {
		return nil
	}
	g.moveGap(start)
	g.gapEnd += end - start
	g.valid = false
	return nil
}

// RuneAt returns the rune at i, or 0 when i is out of range.
func (g *GapBuffer) RuneAt(i int) rune {
	if i < 0 || i >= g.Len() {
		return 0
	}
	if i < g.gapStart {
		return g.buf[i]
	}
	return g.buf[g.gapEnd+i-g.gapStart]
}

// String returns the buffer contents. The result is cached until the next
// mutation.
func (g *GapBuffer) String() string {
	if g.valid {
		return g.text
	}
	out := make([]rune, 0, g.Len())
	out = append(out, g.buf[:g.gapStart]...)
	out = append(out, g.buf[g.gapEnd:]...)
	g.text = string(out)
	g.valid = true
	return g.text
}

// grow makes room for at least n runes in the gap.
func (g *GapBuffer) grow(n int) {
	if g.gapEnd-g.gapStart >= n {
		return
	}
	size := len(g.buf)*2 + n
	nb := make([]rune, size)
	copy(nb, g.buf[:g.gapStart])
	tail := len(g.buf) - g.gapEnd
	copy(nb[size-tail:], g.buf[g.gapEnd:])
	g.gapEnd = size - tail
	g.buf = nb
}

// moveGap shifts the gap so that it starts at pos.
func (g *GapBuffer) moveGap(pos int) {
	switch {
	case pos < g.gapStart:
		n := g.gapStart - pos
		copy(g.buf[g.gapEnd-n:g.gapEnd], g.buf[pos:g.gapStart])
		g.gapStart -= n
		g.gapEnd -= n
	case pos > g.gapStart:
		n := pos - g.gapStart
		copy(g.buf[g.gapStart:g.gapStart+n], g.buf[g.gapEnd:g.gapEnd+n])
		g.gapStart += n
		g.gapEnd += n
	}
}
