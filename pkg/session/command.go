package session

import "fmt"

// Op identifies an edit or navigation command.
type Op int

const (
	OpInsertChar Op = iota
	OpInsertNewline
	OpBackspace
	OpMoveLeft
	OpMoveRight
	OpMoveUp
	OpMoveDown
	OpSave
	OpDiscard
)

var opNames = [...]string{
	OpInsertChar:    "insert.char",
	OpInsertNewline: "insert.newline",
	OpBackspace:     "backspace",
	OpMoveLeft:      "move.left",
	OpMoveRight:     "move.right",
	OpMoveUp:        "move.up",
	OpMoveDown:      "move.down",
	OpSave:          "save",
	OpDiscard:       "discard",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// Command is a single decoded user intent. Rune is used by OpInsertChar only.
type Command struct {
	Op   Op
	Rune rune
}

// Char returns the command inserting r at the cursor.
func Char(r rune) Command { return Command{Op: OpInsertChar, Rune: r} }

// Cmd returns a command without a payload.
func Cmd(op Op) Command { return Command{Op: op} }

// Mutates reports whether the command changes the buffer.
func (c Command) Mutates() bool {
	switch c.Op {
	case OpInsertChar, OpInsertNewline, OpBackspace:
		return true
	}
	return false
}
