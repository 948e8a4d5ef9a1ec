package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format names a log output encoding.
type Format string

const (
	// FormatText is the colorized single-line terminal encoding.
	FormatText Format = "text"
	// FormatJSON is one JSON object per record.
	FormatJSON Format = "json"
)

// Config describes a logger to build.
type Config struct {
	// Level is the minimum level written.
	Level slog.Level
	// Format selects text or JSON output. Unknown values mean text.
	Format Format
	// Output receives records; nil means os.Stderr.
	Output io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level}
	if cfg.Format == FormatJSON {
		return slog.New(slog.NewJSONHandler(out, opts))
	}
	return slog.New(NewHandler(out, opts))
}

// Default is the logger used before flags are parsed: Info-level text on
// stderr.
func Default() *slog.Logger {
	return New(Config{Level: slog.LevelInfo})
}

// NewDiscard returns a logger that drops everything, for quiet mode and
// tests that do not inspect log output.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ForTest returns a Debug-level logger routed through t.Log, so records
// show up only on failure or under -v.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return New(Config{
		Level:  slog.LevelDebug,
		Output: tlogWriter{t},
	})
}

// tlogWriter routes handler output to the test log.
type tlogWriter struct {
	t *testing.T
}

func (w tlogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
