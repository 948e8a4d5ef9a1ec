package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fder is satisfied by os.File and any writer wrapping a real descriptor.
type fder interface{ Fd() uintptr }

// IsTTY reports whether w is attached to a terminal. Writers without an
// underlying file descriptor are never terminals.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI escapes should be written to w.
// Color is disabled off-TTY, when NO_COLOR is set (https://no-color.org),
// and under TERM=dumb.
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(_ io.Writer, isTTY bool) bool {
	if !isTTY {
		return false
	}
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor {
		return false
	}
	return os.Getenv("TERM") != "dumb"
}
