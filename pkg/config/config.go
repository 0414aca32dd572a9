package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Command names bound in the keymap.
const (
	CmdSave    = "save"
	CmdDiscard = "discard"
)

// DefaultBlink is the cursor blink half-period.
const DefaultBlink = 500 * time.Millisecond

// Keybinding represents a single key combination.
type Keybinding struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// Config holds user configuration values.
type Config struct {
	Keymap map[string]Keybinding
	// Blink is the interval between cursor visibility toggles. Zero disables
	// blinking.
	Blink time.Duration
	Theme Theme
}

// Default returns a Config with default key mappings.
func Default() *Config {
	return &Config{Keymap: DefaultKeymap(), Blink: DefaultBlink, Theme: DefaultTheme()}
}

// DefaultKeymap provides builtin command bindings: Ctrl+C saves and exits,
// Esc exits without saving.
func DefaultKeymap() map[string]Keybinding {
	return map[string]Keybinding{
		CmdSave:    mustParse("Ctrl+C"),
		CmdDiscard: mustParse("Esc"),
	}
}

// Load loads configuration from the provided path. If the file does not
// exist, defaults are returned.
//
// The format is a small YAML subset:
//
//	blink: 500ms
//	theme: dark
//	keymap:
//	  save: Ctrl+S
//	  discard: Esc
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	inKeymap := false
	for _, raw := range strings.Split(string(data), "\n") {
		indented := strings.HasPrefix(raw, " ") || strings.HasPrefix(raw, "\t")
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "keymap:" {
			inKeymap = true
			continue
		}
		if !indented {
			inKeymap = false
		}
		key, val, ok := strings.Cut(line, ":")
		if !ok {
			return nil, errors.New("invalid config line: " + line)
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		if inKeymap {
			kb, err := ParseKeybinding(val)
			if err != nil {
				return nil, err
			}
			cfg.Keymap[key] = kb
			continue
		}
		switch key {
		case "blink":
			d, err := time.ParseDuration(val)
			if err != nil || d < 0 {
				return nil, fmt.Errorf("invalid blink interval %q", val)
			}
			cfg.Blink = d
		case "theme":
			th, ok := BuiltinThemes[strings.ToLower(val)]
			if !ok {
				return nil, fmt.Errorf("unknown theme %q", val)
			}
			cfg.Theme = th
		default:
			return nil, errors.New("unknown config key: " + key)
		}
	}
	return cfg, nil
}

// DefaultPath returns ~/.notepad/config.yaml, or "" when the home directory
// is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".notepad", "config.yaml")
}

// LoadDefault attempts to read ~/.notepad/config.yaml.
func LoadDefault() (*Config, error) {
	path := DefaultPath()
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// namedKeys lists the non-letter keys a binding may use, in display form.
var namedKeys = []struct {
	name string
	key  tcell.Key
}{
	{"Esc", tcell.KeyEsc},
	{"Tab", tcell.KeyTab},
	{"Delete", tcell.KeyDelete},
	{"Insert", tcell.KeyInsert},
	{"Home", tcell.KeyHome},
	{"End", tcell.KeyEnd},
	{"PageUp", tcell.KeyPgUp},
	{"PageDown", tcell.KeyPgDn},
	{"F1", tcell.KeyF1},
	{"F2", tcell.KeyF2},
	{"F3", tcell.KeyF3},
	{"F4", tcell.KeyF4},
	{"F5", tcell.KeyF5},
	{"F6", tcell.KeyF6},
	{"F7", tcell.KeyF7},
	{"F8", tcell.KeyF8},
	{"F9", tcell.KeyF9},
	{"F10", tcell.KeyF10},
	{"F11", tcell.KeyF11},
	{"F12", tcell.KeyF12},
}

// ParseKeybinding converts a textual key description like "Ctrl+S" or "Esc"
// into a Keybinding. Supported forms are Ctrl+<letter> and the named keys
// Esc, Tab, Delete, Insert, Home, End, PageUp, PageDown and F1..F12.
func ParseKeybinding(s string) (Keybinding, error) {
	name := strings.TrimSpace(s)
	if strings.EqualFold(name, "escape") {
		name = "Esc"
	}
	for _, nk := range namedKeys {
		if strings.EqualFold(nk.name, name) {
			return Keybinding{Key: nk.key}, nil
		}
	}
	parts := strings.Split(s, "+")
	if len(parts) != 2 {
		return Keybinding{}, errors.New("invalid keybinding: " + s)
	}
	if !strings.EqualFold(parts[0], "ctrl") {
		return Keybinding{}, errors.New("invalid modifier in keybinding: " + s)
	}
	r := []rune(strings.ToLower(parts[1]))
	if len(r) != 1 || r[0] < 'a' || r[0] > 'z' {
		return Keybinding{}, errors.New("invalid key in keybinding: " + s)
	}
	return Keybinding{Key: tcell.KeyRune, Rune: r[0], Mod: tcell.ModCtrl}, nil
}

func mustParse(s string) Keybinding {
	kb, err := ParseKeybinding(s)
	if err != nil {
		panic(err)
	}
	return kb
}

// Matches returns true if the binding matches the provided event.
func (k Keybinding) Matches(ev *tcell.EventKey) bool {
	if k.Key != tcell.KeyRune {
		return ev.Key() == k.Key
	}
	if k.Key == ev.Key() && k.Rune == ev.Rune() && k.Mod == ev.Modifiers() {
		return true
	}
	// Terminals report Ctrl+<letter> as the control key code.
	if k.Mod == tcell.ModCtrl && k.Rune >= 'a' && k.Rune <= 'z' {
		return ev.Key() == tcell.KeyCtrlA+tcell.Key(k.Rune-'a')
	}
	return false
}

// String renders the binding the way ParseKeybinding reads it.
func (k Keybinding) String() string {
	if k.Key == tcell.KeyRune && k.Mod == tcell.ModCtrl {
		return "Ctrl+" + strings.ToUpper(string(k.Rune))
	}
	for _, nk := range namedKeys {
		if nk.key == k.Key {
			return nk.name
		}
	}
	return "?"
}
