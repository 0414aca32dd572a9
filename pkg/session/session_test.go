package session

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"example.com/notepad/pkg/store"
	"example.com/notepad/pkg/textaddr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typeString(t *testing.T, s *Session, text string) {
	t.Helper()
	for _, r := range text {
		cmd := Char(r)
		if r == '\n' {
			cmd = Cmd(OpInsertNewline)
		}
		done, err := s.Apply(cmd)
		require.NoError(t, err)
		require.False(t, done)
	}
}

func apply(t *testing.T, s *Session, ops ...Op) {
	t.Helper()
	for _, op := range ops {
		_, err := s.Apply(Cmd(op))
		require.NoError(t, err)
	}
}

func cur(col, row int) textaddr.Cursor { return textaddr.Cursor{Col: col, Row: row} }

func TestTypeAndSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_output.txt")
	s, err := Open(store.FS{}, path)
	require.NoError(t, err)
	assert.Equal(t, cur(0, 0), s.Cursor())

	typeString(t, s, "Hello, World!")
	done, err := s.Apply(Cmd(OpSave))
	require.NoError(t, err)
	assert.True(t, done)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hello, World!", string(data))
}

func TestBackspaceThenSave(t *testing.T) {
	m := &store.Memory{}
	s := New(m, "f", "")
	typeString(t, s, "Hello!")
	apply(t, s, OpBackspace, OpSave)

	data, _ := m.Load("f")
	assert.Equal(t, "Hello", string(data))
}

func TestMultilineInput(t *testing.T) {
	m := &store.Memory{}
	s := New(m, "f", "")
	typeString(t, s, "Line 1\nLine 2")
	assert.Equal(t, cur(6, 1), s.Cursor())
	apply(t, s, OpSave)

	data, _ := m.Load("f")
	assert.Equal(t, "Line 1\nLine 2", string(data))
}

func TestOpenExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_read_file.txt")
	require.NoError(t, os.WriteFile(path, []byte("Here is some text!"), 0644))

	s, err := Open(store.FS{}, path)
	require.NoError(t, err)
	assert.Equal(t, cur(18, 0), s.Cursor())

	apply(t, s, OpInsertNewline)
	typeString(t, s, "New Line 1")
	apply(t, s, OpSave)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Here is some text!\nNew Line 1", string(data))
}

func TestOpen_TrailingNewlinePutsCursorOnLastRow(t *testing.T) {
	m := &store.Memory{}
	_ = m.Save("f", []byte("abc\n"))
	s, err := Open(m, "f")
	require.NoError(t, err)
	assert.Equal(t, cur(0, 1), s.Cursor())
}

type failingStore struct{ store.Memory }

func (*failingStore) Load(string) ([]byte, error) { return nil, errors.New("permission denied") }

func TestOpen_LoadErrorIsFatal(t *testing.T) {
	s, err := Open(&failingStore{}, "f")
	assert.Error(t, err)
	assert.Nil(t, s)
}

func TestSaveFailureEndsSession(t *testing.T) {
	diskFull := errors.New("disk full")
	m := &store.Memory{SaveErr: diskFull}
	s := New(m, "f", "abc")
	done, err := s.Apply(Cmd(OpSave))
	assert.True(t, done)
	assert.ErrorIs(t, err, diskFull)
	assert.False(t, s.Snapshot().Dirty, "buffer was never modified")

	// Ended sessions ignore further commands.
	done, err = s.Apply(Char('x'))
	assert.True(t, done)
	assert.NoError(t, err)
	assert.Equal(t, "abc", s.Text())
}

func TestDiscardDoesNotWrite(t *testing.T) {
	m := &store.Memory{}
	s := New(m, "f", "")
	typeString(t, s, "draft")
	done, err := s.Apply(Cmd(OpDiscard))
	require.NoError(t, err)
	assert.True(t, done)
	data, _ := m.Load("f")
	assert.Empty(t, data)
}

func TestInsertInMiddle(t *testing.T) {
	s := New(&store.Memory{}, "f", "ac\nxz")
	apply(t, s, OpMoveUp, OpMoveLeft)
	assert.Equal(t, cur(1, 0), s.Cursor())
	typeString(t, s, "b")
	assert.Equal(t, "abc\nxz", s.Text())
	assert.Equal(t, cur(2, 0), s.Cursor())

	apply(t, s, OpMoveDown)
	assert.Equal(t, cur(2, 1), s.Cursor())
	apply(t, s, OpMoveLeft)
	typeString(t, s, "y")
	assert.Equal(t, "abc\nxyz", s.Text())
}

func TestNewlineSplitsLine(t *testing.T) {
	s := New(&store.Memory{}, "f", "abcd")
	apply(t, s, OpMoveLeft, OpMoveLeft, OpInsertNewline)
	assert.Equal(t, "ab\ncd", s.Text())
	assert.Equal(t, cur(0, 1), s.Cursor())
}

func TestBackspace(t *testing.T) {
	t.Run("at origin is a no-op", func(t *testing.T) {
		s := New(&store.Memory{}, "f", "abc")
		apply(t, s, OpMoveUp, OpMoveLeft, OpMoveLeft, OpMoveLeft)
		require.Equal(t, cur(0, 0), s.Cursor())
		apply(t, s, OpBackspace)
		assert.Equal(t, "abc", s.Text())
		assert.Equal(t, cur(0, 0), s.Cursor())
		assert.False(t, s.Snapshot().Dirty)
	})
	t.Run("empty buffer is a no-op", func(t *testing.T) {
		s := New(&store.Memory{}, "f", "")
		apply(t, s, OpBackspace)
		assert.Equal(t, "", s.Text())
		assert.Equal(t, cur(0, 0), s.Cursor())
	})
	t.Run("joins lines and moves to end of merged line", func(t *testing.T) {
		s := New(&store.Memory{}, "f", "abc\ndef")
		apply(t, s, OpMoveLeft, OpMoveLeft, OpMoveLeft)
		require.Equal(t, cur(0, 1), s.Cursor())
		apply(t, s, OpBackspace)
		assert.Equal(t, "abcdef", s.Text())
		assert.Equal(t, cur(6, 0), s.Cursor())
	})
	t.Run("join from column zero of a two line file", func(t *testing.T) {
		s := New(&store.Memory{}, "f", "ab\ncd")
		apply(t, s, OpMoveLeft, OpMoveLeft)
		require.Equal(t, cur(0, 1), s.Cursor())
		apply(t, s, OpBackspace)
		assert.Equal(t, "abcd", s.Text())
		assert.Equal(t, cur(4, 0), s.Cursor())
		assert.True(t, s.Snapshot().Dirty)
		apply(t, s, OpMoveRight)
		assert.Equal(t, cur(4, 0), s.Cursor())
	})
	t.Run("removes one code point", func(t *testing.T) {
		s := New(&store.Memory{}, "f", "naïve日本")
		apply(t, s, OpBackspace)
		assert.Equal(t, "naïve日", s.Text())
		apply(t, s, OpMoveLeft, OpMoveLeft, OpMoveLeft, OpBackspace)
		assert.Equal(t, "nave日", s.Text())
		assert.Equal(t, cur(2, 0), s.Cursor())
	})
	t.Run("in the middle of a line", func(t *testing.T) {
		s := New(&store.Memory{}, "f", "one\ntwo")
		apply(t, s, OpMoveUp, OpMoveLeft, OpBackspace)
		assert.Equal(t, "oe\ntwo", s.Text())
		assert.Equal(t, cur(1, 0), s.Cursor())
	})
}

func TestMoveLeftRight(t *testing.T) {
	s := New(&store.Memory{}, "f", "ab\ncd")
	require.Equal(t, cur(2, 1), s.Cursor())

	apply(t, s, OpMoveRight)
	assert.Equal(t, cur(2, 1), s.Cursor(), "right at end of text stays")

	apply(t, s, OpMoveLeft, OpMoveLeft)
	assert.Equal(t, cur(0, 1), s.Cursor())
	apply(t, s, OpMoveLeft)
	assert.Equal(t, cur(2, 0), s.Cursor(), "left at line start wraps to previous line end")

	apply(t, s, OpMoveRight)
	assert.Equal(t, cur(0, 1), s.Cursor(), "right at line end wraps to next line start")

	apply(t, s, OpMoveUp, OpMoveLeft)
	assert.Equal(t, cur(0, 0), s.Cursor())
	apply(t, s, OpMoveLeft)
	assert.Equal(t, cur(0, 0), s.Cursor(), "left at origin stays")
}

func TestMoveRightUsesCurrentLineLength(t *testing.T) {
	// The whole buffer is longer than row 0; the wrap still happens at the
	// end of row 0.
	s := New(&store.Memory{}, "f", "a\nlonger line")
	apply(t, s, OpMoveUp)
	require.Equal(t, cur(1, 0), s.Cursor())
	apply(t, s, OpMoveRight)
	assert.Equal(t, cur(0, 1), s.Cursor())
}

func TestMoveUpDownClampColumn(t *testing.T) {
	s := New(&store.Memory{}, "f", "long line\nab\n\nlonger line")
	require.Equal(t, cur(11, 3), s.Cursor())

	apply(t, s, OpMoveUp)
	assert.Equal(t, cur(0, 2), s.Cursor())
	apply(t, s, OpMoveUp)
	assert.Equal(t, cur(0, 1), s.Cursor())

	s = New(&store.Memory{}, "f", "long line\nab")
	apply(t, s, OpMoveUp)
	assert.Equal(t, cur(2, 0), s.Cursor())
	apply(t, s, OpMoveUp)
	assert.Equal(t, cur(2, 0), s.Cursor(), "up on the first row stays")

	apply(t, s, OpMoveRight, OpMoveRight, OpMoveRight, OpMoveRight, OpMoveDown)
	assert.Equal(t, cur(2, 1), s.Cursor())
	apply(t, s, OpMoveDown)
	assert.Equal(t, cur(2, 1), s.Cursor(), "down on the last row stays")
}

func TestCursorStaysValid(t *testing.T) {
	s := New(&store.Memory{}, "f", "x\n\nyz\n")
	ops := []Command{
		Cmd(OpMoveUp), Cmd(OpMoveUp), Char('q'), Cmd(OpBackspace), Cmd(OpBackspace),
		Cmd(OpMoveDown), Cmd(OpMoveRight), Cmd(OpMoveRight), Cmd(OpInsertNewline),
		Cmd(OpMoveLeft), Cmd(OpBackspace), Cmd(OpMoveDown), Cmd(OpMoveDown),
		Char('é'), Cmd(OpMoveUp), Cmd(OpBackspace), Cmd(OpBackspace), Cmd(OpBackspace),
		Cmd(OpBackspace), Cmd(OpBackspace), Cmd(OpBackspace), Cmd(OpBackspace), Cmd(OpBackspace),
	}
	for i, cmd := range ops {
		_, err := s.Apply(cmd)
		require.NoError(t, err)
		snap := s.Snapshot()
		require.True(t, textaddr.Valid(snap.Text, snap.Cursor), "step %d (%s): cursor %+v invalid for %q", i, cmd.Op, snap.Cursor, snap.Text)
	}
}

func TestShiftedCharsInsertLikePlain(t *testing.T) {
	s := New(&store.Memory{}, "f", "")
	typeString(t, s, "Ab")
	apply(t, s, OpMoveLeft)
	typeString(t, s, "C")
	assert.Equal(t, "ACb", s.Text())
}

func TestDirtyTracking(t *testing.T) {
	m := &store.Memory{}
	s := New(m, "f", "abc")
	assert.False(t, s.Snapshot().Dirty)
	apply(t, s, OpMoveLeft)
	assert.False(t, s.Snapshot().Dirty, "navigation does not dirty the buffer")
	typeString(t, s, "x")
	assert.True(t, s.Snapshot().Dirty)
	apply(t, s, OpSave)
	snap := s.Snapshot()
	assert.False(t, snap.Dirty)
	assert.True(t, snap.Done)
}

func TestConcurrentSnapshots(t *testing.T) {
	s := New(&store.Memory{}, "f", "")
	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				snap := s.Snapshot()
				if !textaddr.Valid(snap.Text, snap.Cursor) {
					t.Errorf("observed invalid cursor %+v for %q", snap.Cursor, snap.Text)
					return
				}
			}
		}
	}()
	for i := 0; i < 200; i++ {
		_, _ = s.Apply(Char('a'))
		if i%7 == 0 {
			_, _ = s.Apply(Cmd(OpInsertNewline))
		}
		if i%5 == 0 {
			_, _ = s.Apply(Cmd(OpBackspace))
		}
		if i%3 == 0 {
			_, _ = s.Apply(Cmd(OpMoveUp))
		}
	}
	close(stop)
	wg.Wait()
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "backspace", OpBackspace.String())
	assert.Equal(t, "op(42)", Op(42).String())
	assert.True(t, Char('x').Mutates())
	assert.False(t, Cmd(OpMoveUp).Mutates())
}
