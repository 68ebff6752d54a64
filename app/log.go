// SPDX-License-Identifier: Unlicense OR MIT

package app

import (
	"io"
	"log/slog"
	"os"
)

var (
	logOutput io.Writer = os.Stderr
	// logToDebugger is set when logOutput is the debugger output, which
	// timestamps every line.
	logToDebugger bool
)

// NewLogHandler returns a text handler writing records at or above
// level to the platform's log output: standard error, or the debugger
// output on Windows programs without a console.
func NewLogHandler(level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if logToDebugger {
		opts.ReplaceAttr = func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{}
			}
			return a
		}
	}
	return slog.NewTextHandler(logOutput, opts)
}
