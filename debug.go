package mqtt5

import (
	"log/slog"

	"github.com/axmq/mqtt5/internal/wirelog"
)

// SetDebugLogger attaches a diagnostic sink that traces decode-time
// rejections (disallowed properties, out-of-domain reason codes) as they
// happen. Passing nil detaches it; detached is the default, and no codec
// path built on this package logs anything unless a caller opts in.
func SetDebugLogger(l *slog.Logger) {
	wirelog.SetHandler(l)
}

// NewColoredDebugLogger is a convenience constructor for SetDebugLogger,
// producing the same colored terminal output this package's predecessor
// used for its own diagnostics.
func NewColoredDebugLogger(minLevel slog.Level) *slog.Logger {
	return wirelog.NewColoredLogger(minLevel, nil)
}
