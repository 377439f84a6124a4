package notifications

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/httpapitest"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	memnotifier "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/notifier"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

func newStore(t *testing.T) (*Store, *memnotifier.Recorder, *httpapitest.Env) {
	t.Helper()
	env := httpapitest.Start(t, httpapitest.Options{})
	rec := memnotifier.NewRecorder()
	c := env.Client(t, "notification", httpapitest.AsSubject(httpapitest.InvestorSubject))
	return NewStore(c, rec), rec, env
}

func TestStore_FetchListAndUnreadCount(t *testing.T) {
	t.Parallel()

	s, rec, _ := newStore(t)
	page, err := s.FetchList(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, httpclient.Pagination{CurrentPage: 1, TotalPages: 2, TotalItems: 3, ItemsPerPage: 2}, page.Pagination)
	assert.Equal(t, 2, s.UnreadCount())

	snap := s.List.Snapshot()
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.Err)
	assert.Empty(t, rec.Notices())
}

func TestStore_ReadPatchesCachedList(t *testing.T) {
	t.Parallel()

	s, _, env := newStore(t)
	ctx := context.Background()
	page, err := s.FetchList(ctx, 1, 10)
	require.NoError(t, err)

	n, err := s.Read(ctx, page.Items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "read", n.Status)
	require.NotNil(t, n.ReadAt)
	assert.True(t, n.ReadAt.Equal(env.Clock.Now()))
	assert.Equal(t, 1, s.UnreadCount())

	updated, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 0, s.UnreadCount())
}

func TestStore_FetchSchema(t *testing.T) {
	t.Parallel()

	s, _, _ := newStore(t)
	schema, err := s.FetchSchema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Notification", schema["title"])
}

func TestStore_ErrorNotifiesRefinedMessage(t *testing.T) {
	t.Parallel()

	s, rec, _ := newStore(t)
	_, err := s.FetchList(context.Background(), 0, 10)
	require.Error(t, err)

	apiErr, ok := httpclient.Resolve(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "page: must be at least 1", apiErr.Message)
	assert.Equal(t, "Could not load notifications", apiErr.OriginalMessage)

	last, ok := rec.Last()
	require.True(t, ok)
	assert.Equal(t, notifier.LevelError, last.Level)
	assert.Equal(t, "page: must be at least 1", last.Message)
	assert.Same(t, err, s.List.Err())

	s.ResetAll()
	assert.NoError(t, s.List.Err())
}

func TestStore_CancelledCallIsSilent(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(srv.Close)
	c, err := httpclient.New(httpclient.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	rec := memnotifier.NewRecorder()
	s := NewStore(c, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.FetchList(ctx, 1, 10)
	require.Error(t, err)
	assert.True(t, httpclient.IsAbort(err))
	assert.Empty(t, rec.Notices())
	assert.False(t, s.List.Loading())
}
