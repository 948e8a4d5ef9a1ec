package logging

import "log/slog"

// LevelTrace is more detailed than Debug. It is enabled at -vvv and above.
const LevelTrace = slog.LevelDebug - 4

// LevelFromVerbosity maps a -v flag count to a log level.
//
//	0  -> Warn (default: only problems)
//	1  -> Info
//	2  -> Debug
//	3+ -> Trace
//
// Negative counts are treated as zero.
func LevelFromVerbosity(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	case verbosity == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}
