// Package session owns the text buffer and cursor of one editing session and
// applies decoded commands to them.
//
// Every command runs under the session lock as a single scan-then-mutate
// step, and the cursor is valid for the text again before the lock is
// released. Readers such as a renderer take a Snapshot instead of touching
// the buffer.
package session

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"example.com/notepad/pkg/buffer"
	"example.com/notepad/pkg/store"
	"example.com/notepad/pkg/textaddr"
)

// Session is a single editing session over one named file.
type Session struct {
	mu    sync.Mutex
	name  string
	store store.Store
	buf   buffer.Storage
	cur   textaddr.Cursor
	dirty bool
	done  bool
}

// Snapshot is a copy of the session state at one instant.
type Snapshot struct {
	Name   string
	Text   string
	Cursor textaddr.Cursor
	Dirty  bool
	Done   bool
}

// New returns a session over content with the cursor at its end. Saves go to
// name through st.
func New(st store.Store, name, content string) *Session {
	return &Session{
		name:  name,
		store: st,
		buf:   buffer.FromString(content),
		cur:   textaddr.End(content),
	}
}

// Open loads name from st and starts a session over its contents. A file
// that does not exist starts an empty session.
func Open(st store.Store, name string) (*Session, error) {
	data, err := st.Load(name)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	return New(st, name, string(data)), nil
}

// Name returns the file the session saves to.
func (s *Session) Name() string { return s.name }

// Cursor returns the current cursor.
func (s *Session) Cursor() textaddr.Cursor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Text returns the current buffer contents.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

// Snapshot copies out the state a renderer needs.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Name:   s.name,
		Text:   s.buf.String(),
		Cursor: s.cur,
		Dirty:  s.dirty,
		Done:   s.done,
	}
}

// Apply runs cmd and reports whether the session has ended. Only OpSave can
// fail; a failed save still ends the session and the error is returned.
// Commands applied after the session ended are ignored.
func (s *Session) Apply(cmd Command) (done bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return true, nil
	}
	switch cmd.Op {
	case OpInsertChar:
		if cmd.Rune == '\n' {
			s.insertNewline()
		} else {
			s.insertChar(cmd.Rune)
		}
	case OpInsertNewline:
		s.insertNewline()
	case OpBackspace:
		s.backspace()
	case OpMoveLeft:
		s.moveLeft()
	case OpMoveRight:
		s.moveRight()
	case OpMoveUp:
		s.moveUp()
	case OpMoveDown:
		s.moveDown()
	case OpSave:
		s.done = true
		return true, s.save()
	case OpDiscard:
		s.done = true
		return true, nil
	}
	return false, nil
}

// index returns the rune index of the cursor in text.
func (s *Session) index(text string) int {
	off := textaddr.PositionToOffset(text, s.cur)
	return utf8.RuneCountInString(text[:off])
}

func (s *Session) insert(r rune) {
	text := s.buf.String()
	if err := s.buf.Insert(s.index(text), []rune{r}); err != nil {
		return
	}
	s.dirty = true
}

func (s *Session) insertChar(r rune) {
	s.insert(r)
	s.cur.Col++
	s.settle()
}

func (s *Session) insertNewline() {
	s.insert('\n')
	s.cur = textaddr.Cursor{Col: 0, Row: s.cur.Row + 1}
	s.settle()
}

func (s *Session) backspace() {
	if s.buf.Len() == 0 || (s.cur.Col == 0 && s.cur.Row == 0) {
		return
	}
	i := s.index(s.buf.String())
	if i == 0 {
		return
	}
	joined := s.buf.RuneAt(i-1) == '\n'
	if err := s.buf.Delete(i-1, i); err != nil {
		return
	}
	s.dirty = true
	if joined {
		// The cursor goes to the end of the merged line.
		s.cur.Row--
		s.cur.Col = textaddr.LineLength(s.buf.String(), s.cur.Row)
	} else {
		s.cur.Col--
	}
	s.settle()
}

func (s *Session) moveLeft() {
	if s.cur.Col > 0 {
		s.cur.Col--
		return
	}
	if s.cur.Row > 0 {
		s.cur.Row--
		s.cur.Col = textaddr.LineLength(s.buf.String(), s.cur.Row)
	}
}

func (s *Session) moveRight() {
	text := s.buf.String()
	if s.cur.Col < textaddr.LineLength(text, s.cur.Row) {
		s.cur.Col++
		return
	}
	if s.cur.Row < textaddr.TotalLines(text)-1 {
		s.cur = textaddr.Cursor{Col: 0, Row: s.cur.Row + 1}
	}
}

func (s *Session) moveUp() {
	if s.cur.Row == 0 {
		return
	}
	s.cur.Row--
	s.cur.Col = min(s.cur.Col, textaddr.LineLength(s.buf.String(), s.cur.Row))
}

func (s *Session) moveDown() {
	text := s.buf.String()
	if s.cur.Row >= textaddr.TotalLines(text)-1 {
		return
	}
	s.cur.Row++
	s.cur.Col = min(s.cur.Col, textaddr.LineLength(text, s.cur.Row))
}

// settle re-validates the cursor against the buffer after a mutation.
func (s *Session) settle() {
	s.cur = textaddr.Clamp(s.buf.String(), s.cur)
}

func (s *Session) save() error {
	if err := s.store.Save(s.name, []byte(s.buf.String())); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.dirty = false
	return nil
}
