package notify

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

func TestLogNotifier_Levels(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	n := NewLogNotifier(zap.New(core))

	n.Notify(context.Background(), notifier.Notice{Level: notifier.LevelError, Title: "Wallet", Message: "wallet is not verified yet"})
	n.Notify(context.Background(), notifier.Notice{Level: notifier.LevelSuccess, Message: "Deposit started"})

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "wallet is not verified yet", entries[0].Message)
	assert.Equal(t, "Wallet", entries[0].ContextMap()["title"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, "success", entries[1].ContextMap()["level"])
	assert.Equal(t, "notice", entries[1].LoggerName)
}

func TestNewLogNotifier_NilLogger(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		NewLogNotifier(nil).Notify(context.Background(), notifier.Notice{Message: "x"})
	})
}
