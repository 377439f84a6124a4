// Package notify delivers user notices through the process logger.
package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

// LogNotifier writes each notice as one structured log entry.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger.Named("notice")}
}

func (n *LogNotifier) Notify(ctx context.Context, notice notifier.Notice) {
	_ = ctx
	fields := []zap.Field{zap.String("level", string(notice.Level))}
	if notice.Title != "" {
		fields = append(fields, zap.String("title", notice.Title))
	}
	switch notice.Level {
	case notifier.LevelError:
		n.logger.Error(notice.Message, fields...)
	default:
		n.logger.Info(notice.Message, fields...)
	}
}
