package app

import (
	"unicode/utf8"

	"example.com/notepad/pkg/config"
	"example.com/notepad/pkg/session"
	"github.com/gdamore/tcell/v2"
)

// decodeKey maps a key event to a session command. The second result is
// false for keys the editor ignores.
func (r *Runner) decodeKey(ev *tcell.EventKey) (session.Command, bool) {
	keymap := config.DefaultKeymap()
	if r.Config != nil && r.Config.Keymap != nil {
		keymap = r.Config.Keymap
	}
	// Bound commands win over the fixed editing keys.
	if kb, ok := keymap[config.CmdSave]; ok && kb.Matches(ev) {
		return session.Cmd(session.OpSave), true
	}
	if kb, ok := keymap[config.CmdDiscard]; ok && kb.Matches(ev) {
		return session.Cmd(session.OpDiscard), true
	}
	switch ev.Key() {
	case tcell.KeyRune:
		// Shift only changes the rune; other modifiers make a chord.
		if ev.Modifiers()&^tcell.ModShift != 0 {
			return session.Command{}, false
		}
		return session.Char(ev.Rune()), true
	case tcell.KeyEnter:
		return session.Cmd(session.OpInsertNewline), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return session.Cmd(session.OpBackspace), true
	case tcell.KeyTab:
		return session.Char('\t'), true
	case tcell.KeyLeft:
		return session.Cmd(session.OpMoveLeft), true
	case tcell.KeyRight:
		return session.Cmd(session.OpMoveRight), true
	case tcell.KeyUp:
		return session.Cmd(session.OpMoveUp), true
	case tcell.KeyDown:
		return session.Cmd(session.OpMoveDown), true
	}
	return session.Command{}, false
}

// handleKeyEvent applies the command for ev. It returns true once the
// session has ended.
func (r *Runner) handleKeyEvent(ev *tcell.EventKey) (bool, error) {
	r.Logger.Event("key", map[string]any{
		"key":       int(ev.Key()),
		"rune":      string(ev.Rune()),
		"modifiers": int(ev.Modifiers()),
	})
	cmd, ok := r.decodeKey(ev)
	if !ok {
		return false, nil
	}
	done, err := r.Session.Apply(cmd)
	cur := r.Session.Cursor()
	fields := map[string]any{"name": cmd.Op.String(), "row": cur.Row, "col": cur.Col}
	if cmd.Mutates() {
		fields["buffer_len"] = utf8.RuneCountInString(r.Session.Text())
	}
	r.Logger.Event("action", fields)
	if cmd.Op == session.OpSave {
		if err != nil {
			r.Logger.Event("save.error", map[string]any{"file": r.Session.Name(), "error": err.Error()})
		} else {
			r.Logger.Event("save.success", map[string]any{"file": r.Session.Name()})
		}
	}
	if done {
		return true, err
	}
	// Typing keeps the cursor visible until the next blink.
	r.cursorVisible = true
	r.draw()
	return false, nil
}
