package app

import (
	"fmt"
	"strings"

	"example.com/notepad/pkg/config"
	"example.com/notepad/pkg/session"
	"example.com/notepad/pkg/textaddr"
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

const tabWidth = 4

// renderState captures what one repaint needs, copied out of the session so
// that drawing never holds the session lock.
type renderState struct {
	lines      []string
	name       string
	cursor     textaddr.Cursor
	dirty      bool
	showCursor bool
	topLine    int
	leftCol    int
	hint       string
}

// cellWidth is the number of screen cells r occupies.
func cellWidth(r rune) int {
	if r == '\t' {
		return tabWidth
	}
	if w := runewidth.RuneWidth(r); w > 0 {
		return w
	}
	return 1
}

// displayCol returns the screen column of the col-th character of line.
func displayCol(line string, col int) int {
	x := 0
	for _, r := range line {
		if col == 0 {
			break
		}
		x += cellWidth(r)
		col--
	}
	return x
}

// scroll adjusts the viewport so the cursor cell is on screen.
func (r *Runner) scroll(lines []string, cur textaddr.Cursor, width, height int) {
	rows := height - 1
	if rows < 1 {
		rows = 1
	}
	if cur.Row < r.topLine {
		r.topLine = cur.Row
	} else if cur.Row >= r.topLine+rows {
		r.topLine = cur.Row - rows + 1
	}
	x := 0
	if cur.Row < len(lines) {
		x = displayCol(lines[cur.Row], cur.Col)
	}
	if width < 1 {
		width = 1
	}
	if x < r.leftCol {
		r.leftCol = x
	} else if x >= r.leftCol+width {
		r.leftCol = x - width + 1
	}
}

// renderSnapshot captures the current session state into a renderState.
func (r *Runner) renderSnapshot(snap session.Snapshot) renderState {
	lines := strings.Split(snap.Text, "\n")
	width, height := r.Screen.Size()
	r.scroll(lines, snap.Cursor, width, height)
	return renderState{
		lines:      lines,
		name:       snap.Name,
		cursor:     snap.Cursor,
		dirty:      snap.Dirty,
		showCursor: r.cursorVisible,
		topLine:    r.topLine,
		leftCol:    r.leftCol,
		hint:       r.keyHint(),
	}
}

func (r *Runner) keyHint() string {
	km := r.Config.Keymap
	return fmt.Sprintf("%s: save & exit  %s: exit", km[config.CmdSave], km[config.CmdDiscard])
}

// draw repaints the screen from a fresh session snapshot.
func (r *Runner) draw() {
	if r.Screen == nil || r.Session == nil {
		return
	}
	renderToScreen(r.Screen, r.renderSnapshot(r.Session.Snapshot()), r.Config.Theme)
}

// renderToScreen draws the provided snapshot to the tcell screen.
func renderToScreen(s tcell.Screen, st renderState, theme config.Theme) {
	width, height := s.Size()
	text := theme.Text()
	s.SetStyle(text)
	s.Clear()
	rows := height - 1
	for i := 0; i < rows && st.topLine+i < len(st.lines); i++ {
		x := -st.leftCol
		for _, ch := range st.lines[st.topLine+i] {
			w := cellWidth(ch)
			if x >= 0 && x+w <= width {
				if ch == '\t' {
					for j := 0; j < w; j++ {
						s.SetContent(x+j, i, ' ', nil, text)
					}
				} else {
					s.SetContent(x, i, ch, nil, text)
				}
			}
			x += w
			if x >= width {
				break
			}
		}
	}
	drawStatus(s, st, theme.Status(), width, height)
	if st.showCursor {
		cx := displayCol(st.lines[st.cursor.Row], st.cursor.Col) - st.leftCol
		s.ShowCursor(cx, st.cursor.Row-st.topLine)
	} else {
		s.HideCursor()
	}
	s.Show()
}

func drawStatus(s tcell.Screen, st renderState, style tcell.Style, width, height int) {
	if height < 1 {
		return
	}
	y := height - 1
	for x := 0; x < width; x++ {
		s.SetContent(x, y, ' ', nil, style)
	}
	name := st.name
	if name == "" {
		name = "[No File]"
	}
	if st.dirty {
		name += " [+]"
	}
	left := fmt.Sprintf(" %s  Ln %d, Col %d", name, st.cursor.Row+1, st.cursor.Col+1)
	x := 0
	for _, ch := range left {
		if x >= width {
			return
		}
		s.SetContent(x, y, ch, nil, style)
		x += cellWidth(ch)
	}
	hint := st.hint + " "
	hx := width - runewidth.StringWidth(hint)
	if hx <= x {
		return
	}
	for _, ch := range hint {
		s.SetContent(hx, y, ch, nil, style)
		hx += cellWidth(ch)
	}
}
