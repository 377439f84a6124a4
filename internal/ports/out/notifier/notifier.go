package notifier

import "context"

type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a user-facing message (a toast in the web app, a line in the CLI).
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Notifier surfaces notices to the user. Implementations must be safe for
// concurrent use and must not block on slow sinks.
type Notifier interface {
	Notify(ctx context.Context, n Notice)
}

// Nop discards every notice.
type Nop struct{}

func (Nop) Notify(context.Context, Notice) {}
