package safe

import (
	"log/slog"
	"runtime/debug"
)

// Run executes fn, recovering and logging any panic with its stack so a
// background goroutine cannot take the process down.
func Run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic recovered",
				slog.Any("recover", r),
				slog.String("component", "safe.Run"),
				slog.String("stack", string(debug.Stack())),
			)
		}
	}()

	fn()
}
