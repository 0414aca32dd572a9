package app

import (
	"context"
	"time"

	"example.com/notepad/pkg/config"
	"example.com/notepad/pkg/logs"
	"example.com/notepad/pkg/session"
	"example.com/notepad/pkg/store"
	"github.com/gdamore/tcell/v2"
)

// Runner owns the terminal lifecycle and the event loop driving one
// editing session.
type Runner struct {
	Screen  tcell.Screen
	Session *session.Session
	Config  *config.Config
	Logger  *logs.Logger

	// view state, touched only by the loop goroutine
	topLine       int
	leftCol       int
	cursorVisible bool
}

// New creates a Runner over sess. A nil cfg uses the defaults.
func New(sess *session.Session, cfg *config.Config) *Runner {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Runner{Session: sess, Config: cfg, cursorVisible: true}
}

// OpenFile starts a session over path, logging the attempt and its outcome.
func OpenFile(st store.Store, path string, l *logs.Logger) (*session.Session, error) {
	l.Event("open.attempt", map[string]any{"file": path})
	sess, err := session.Open(st, path)
	if err != nil {
		l.Event("open.error", map[string]any{"file": path, "error": err.Error()})
		return nil, err
	}
	snap := sess.Snapshot()
	l.Event("open.success", map[string]any{"file": path, "bytes": len(snap.Text), "row": snap.Cursor.Row, "col": snap.Cursor.Col})
	return sess, nil
}

// InitScreen initializes a tcell screen if one is not already set.
func (r *Runner) InitScreen() error {
	if r.Screen != nil {
		return nil
	}
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.SetStyle(r.Config.Theme.Text())
	s.Clear()
	r.Screen = s
	return nil
}

// Fini finalizes the screen if initialized.
func (r *Runner) Fini() {
	if r.Screen != nil {
		r.Screen.Fini()
		r.Screen = nil
	}
}

// Run starts the event loop. It returns nil once the session ends through
// save or discard, the save error if saving fails, or ctx.Err() when the
// context is cancelled first.
func (r *Runner) Run(ctx context.Context) error {
	if r.Config == nil {
		r.Config = config.Default()
	}
	if r.Screen == nil {
		if err := r.InitScreen(); err != nil {
			return err
		}
		defer r.Fini()
	}
	name := r.Session.Name()
	r.Logger.Event("run.start", map[string]any{"file": name})
	defer r.Logger.Event("run.end", map[string]any{"file": name})

	events := make(chan tcell.Event)
	quit := make(chan struct{})
	defer close(quit)
	go r.Screen.ChannelEvents(events, quit)

	// Blink ticks only flip the local visibility flag; they never reach the
	// session.
	var blink <-chan time.Time
	if r.Config.Blink > 0 {
		t := time.NewTicker(r.Config.Blink)
		defer t.Stop()
		blink = t.C
	}

	r.cursorVisible = true
	r.draw()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-blink:
			r.cursorVisible = !r.cursorVisible
			r.draw()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				done, err := r.handleKeyEvent(ev)
				if err != nil || done {
					return err
				}
			case *tcell.EventResize:
				r.Screen.Sync()
				r.draw()
			}
		}
	}
}
