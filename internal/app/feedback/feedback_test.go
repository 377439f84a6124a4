package feedback

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	memnotifier "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/notifier"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

func TestError(t *testing.T) {
	t.Parallel()

	rec := memnotifier.NewRecorder()
	ctx := context.Background()

	Error(ctx, rec, "Wallet", nil)
	Error(ctx, rec, "Wallet", &httpclient.TransportError{Err: context.Canceled})
	assert.Empty(t, rec.Notices())

	Error(ctx, rec, "Wallet", errors.New("boom"))
	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notifier.Notice{Level: notifier.LevelError, Title: "Wallet", Message: "boom"}, last)

	assert.NotPanics(t, func() { Error(ctx, nil, "x", errors.New("y")) })
}

func TestSuccessAndOrNop(t *testing.T) {
	t.Parallel()

	rec := memnotifier.NewRecorder()
	Success(context.Background(), rec, "Wallet", "Deposit started")
	last, _ := rec.Last()
	assert.Equal(t, notifier.LevelSuccess, last.Level)

	assert.Equal(t, notifier.Nop{}, OrNop(nil))
	assert.Same(t, rec, OrNop(rec))
}
