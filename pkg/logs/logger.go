package logs

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Logger writes one JSON object per line: a timestamp, the event name and the
// event fields. A nil or disabled Logger discards everything.
type Logger struct {
	mu      sync.Mutex
	w       *bufio.Writer
	c       io.Closer
	enabled bool
	now     func() time.Time
}

// New returns a Logger writing to w. If w is an io.Closer it is closed by
// Close.
func New(w io.Writer) *Logger {
	l := &Logger{w: bufio.NewWriter(w), enabled: true, now: time.Now}
	if c, ok := w.(io.Closer); ok {
		l.c = c
	}
	return l
}

// NewFromEnv returns a logger if NOTEPAD_LOG is set to a truthy value or if
// NOTEPAD_LOG_FILE is provided. Otherwise it returns a disabled logger.
// When enabled and no file is specified, it writes to ./notepad.log.
func NewFromEnv() *Logger {
	lf := os.Getenv("NOTEPAD_LOG_FILE")
	enabled := lf != ""
	if v := os.Getenv("NOTEPAD_LOG"); v != "" && v != "0" && v != "false" {
		enabled = true
	}
	if !enabled {
		return &Logger{}
	}
	if lf == "" {
		lf = filepath.Join(".", "notepad.log")
	}
	f, err := os.OpenFile(lf, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		// An unwritable log file must not stop the editor.
		return &Logger{}
	}
	return New(f)
}

// Enabled reports whether events are written.
func (l *Logger) Enabled() bool {
	return l != nil && l.enabled
}

// Close flushes and closes the underlying writer.
func (l *Logger) Close() {
	if !l.Enabled() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_ = l.w.Flush()
	if l.c != nil {
		_ = l.c.Close()
	}
	l.enabled = false
}

// Event writes a JSON line with the event name and fields.
// Common fields: key, rune, modifiers, action, row, col, buffer_len, file.
func (l *Logger) Event(event string, fields map[string]any) {
	if !l.Enabled() {
		return
	}
	rec := make(map[string]any, len(fields)+2)
	for k, v := range fields {
		rec[k] = v
	}
	rec["event"] = event
	l.mu.Lock()
	defer l.mu.Unlock()
	rec["time"] = l.now().Format(time.RFC3339Nano)
	_ = json.NewEncoder(l.w).Encode(rec)
	_ = l.w.Flush()
}
