// Command notepad is a minimal full-screen terminal text editor.
//
// Usage:
//
//	notepad [-config path] [file]
//
// Typing inserts text, Enter splits the line, Backspace deletes, arrow keys
// move the cursor. Ctrl+C saves and exits, Esc exits without saving. Without a
// file argument the buffer is saved to untitled.txt.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"example.com/notepad/internal/app"
	"example.com/notepad/pkg/config"
	"example.com/notepad/pkg/logs"
	"example.com/notepad/pkg/store"
	"golang.org/x/term"
)

const defaultFile = "untitled.txt"

type options struct {
	file       string
	configPath string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	fs := flag.NewFlagSet("notepad", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var opts options
	fs.StringVar(&opts.configPath, "config", "", "path to config.yaml (default ~/.notepad/config.yaml)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	switch fs.NArg() {
	case 0:
		opts.file = defaultFile
	case 1:
		opts.file = fs.Arg(0)
	default:
		return options{}, errors.New("usage: notepad [-config path] [file]")
	}
	return opts, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		cfg, err := config.LoadDefault()
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		return cfg, nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal")
	}

	logger := logs.NewFromEnv()
	defer logger.Close()

	sess, err := app.OpenFile(store.FS{}, opts.file, logger)
	if err != nil {
		return err
	}
	r := app.New(sess, cfg)
	r.Logger = logger
	if err := r.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "notepad: %v\n", err)
		os.Exit(1)
	}
}
