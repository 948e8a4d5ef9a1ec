package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/openhands/skillctl/internal/redact"
)

// Handler renders records as single-line colorized text for terminals.
// Color is dropped automatically off-TTY (see SupportsColor). Attribute
// values matching the redaction rules are masked before they are written.
type Handler struct {
	opts     slog.HandlerOptions
	out      io.Writer
	mu       *sync.Mutex
	attrs    []slog.Attr
	groups   []string
	useColor bool
}

// NewHandler builds a text handler writing to out. A nil opts means the
// default Info level.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{
		out:      out,
		mu:       &sync.Mutex{},
		useColor: SupportsColor(out),
	}
	if opts != nil {
		h.opts = *opts
	}
	return h
}

var (
	timeColor  = color.New(color.FgHiBlack)
	debugColor = color.New(color.FgMagenta)
	infoColor  = color.New(color.FgGreen)
	warnColor  = color.New(color.FgYellow)
	errorColor = color.New(color.FgRed, color.Bold)
	keyColor   = color.New(color.FgCyan)
)

func levelColor(level slog.Level) *color.Color {
	switch {
	case level >= slog.LevelError:
		return errorColor
	case level >= slog.LevelWarn:
		return warnColor
	case level >= slog.LevelInfo:
		return infoColor
	default:
		return debugColor
	}
}

// Enabled reports whether records at level would be written.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

// Handle writes one record as "TIME LEVEL message key=value ...".
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !r.Time.IsZero() {
		fmt.Fprintf(h.out, "%s ", h.paint(timeColor, r.Time.Format(time.Kitchen)))
	}
	fmt.Fprintf(h.out, "%-5s %s", h.paint(levelColor(r.Level), r.Level.String()), r.Message)

	for _, a := range h.attrs {
		h.writeAttr(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.writeAttr(a)
		return true
	})

	fmt.Fprintln(h.out)
	return nil
}

func (h *Handler) paint(c *color.Color, s string) string {
	if !h.useColor {
		return s
	}
	return c.Sprint(s)
}

func (h *Handler) writeAttr(a slog.Attr) {
	value := a.Value.Any()
	switch {
	case redact.ShouldMask(a.Key):
		value = redact.MaskValue(fmt.Sprint(value))
	default:
		if s, ok := value.(string); ok && redact.ContainsTokenPrefix(s) {
			value = redact.MaskValue(s)
		}
	}
	fmt.Fprintf(h.out, " %s=%v", h.paint(keyColor, a.Key), value)
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &clone
}

// WithGroup returns a handler carrying the group name. Groups currently
// only qualify attribute keys added after the call.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}
