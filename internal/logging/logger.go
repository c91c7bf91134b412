package logging

import (
	"io"
	"log/slog"
	"os"

	"golang.org/x/term"
)

// New creates the diagnostic logger. Text output is used when w is a
// terminal and JSON otherwise, so CI log collectors can parse it. Verbose
// lowers the level to Debug; otherwise only warnings are shown.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	options := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if isTerminal(w) {
		handler = slog.NewTextHandler(w, options)
	} else {
		handler = slog.NewJSONHandler(w, options)
	}
	return slog.New(handler)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
