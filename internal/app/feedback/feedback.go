// Package feedback turns feature-store outcomes into user notices.
package feedback

import (
	"context"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

// Error notifies the refined message of err. Cancelled calls are silent.
func Error(ctx context.Context, n notifier.Notifier, title string, err error) {
	if n == nil || err == nil || httpclient.IsAbort(err) {
		return
	}
	n.Notify(ctx, notifier.Notice{
		Level:   notifier.LevelError,
		Title:   title,
		Message: httpclient.UserMessage(err),
	})
}

func Success(ctx context.Context, n notifier.Notifier, title, message string) {
	if n == nil {
		return
	}
	n.Notify(ctx, notifier.Notice{Level: notifier.LevelSuccess, Title: title, Message: message})
}

// OrNop substitutes a no-op notifier for nil.
func OrNop(n notifier.Notifier) notifier.Notifier {
	if n == nil {
		return notifier.Nop{}
	}
	return n
}
