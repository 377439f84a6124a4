package identity

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/httpapitest"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	memnotifier "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/notifier"
)

func newStore(t *testing.T) (*Store, *memnotifier.Recorder, *httpapitest.Env) {
	t.Helper()
	env := httpapitest.Start(t, httpapitest.Options{})
	jar, err := httpclient.NewCookieJar()
	require.NoError(t, err)
	c := env.Client(t, "identity", func(cfg *httpclient.Config) { cfg.Jar = jar })
	rec := memnotifier.NewRecorder()
	return NewStore(c, rec), rec, env
}

func TestStore_LoginLifecycle(t *testing.T) {
	t.Parallel()

	s, rec, _ := newStore(t)
	ctx := context.Background()

	_, err := s.WhoAmI(ctx)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, rec.Notices())

	flow, err := s.CreateLoginFlow(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, flow.ID)
	assert.Len(t, flow.UI.Nodes, 3)

	again, err := s.GetLoginFlow(ctx, flow.ID)
	require.NoError(t, err)
	assert.Equal(t, flow.ID, again.ID)

	sess, err := s.SubmitLogin(ctx, flow.ID, httpapitest.InvestorEmail, httpapitest.InvestorPassword)
	require.NoError(t, err)
	assert.True(t, sess.Active)
	assert.Equal(t, httpapitest.InvestorSubject, sess.Identity.ID)
	cached, ok := s.Session.Data()
	require.True(t, ok)
	assert.Equal(t, sess.ID, cached.ID)

	who, err := s.WhoAmI(ctx)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, who.ID)
	assert.Equal(t, httpapitest.InvestorProfile, who.Identity.Traits.ProfileID)

	require.NoError(t, s.Logout(ctx))
	_, ok = s.Session.Data()
	assert.False(t, ok)

	_, err = s.WhoAmI(ctx)
	assert.True(t, IsUnauthorized(err))
	assert.Empty(t, rec.Notices())
}

func TestStore_SubmitLogin_Errors(t *testing.T) {
	t.Parallel()

	s, rec, _ := newStore(t)
	ctx := context.Background()
	flow, err := s.CreateLoginFlow(ctx)
	require.NoError(t, err)

	_, err = s.SubmitLogin(ctx, flow.ID, httpapitest.InvestorEmail, "wrong")
	apiErr, ok := httpclient.Resolve(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "The provided credentials are invalid")
	assert.Equal(t, "Login failed", apiErr.OriginalMessage)
	last, _ := rec.Last()
	assert.Equal(t, apiErr.Message, last.Message)

	_, err = s.SubmitLogin(ctx, flow.ID, httpapitest.InvestorEmail, "")
	apiErr, ok = httpclient.Resolve(err)
	require.True(t, ok)
	assert.Equal(t, "Property password is missing.", apiErr.Message)

	_, ok = s.Session.Data()
	assert.False(t, ok)
	assert.Same(t, err, s.Login.Err())
}

func TestStore_GetLoginFlow_Expired(t *testing.T) {
	t.Parallel()

	s, rec, env := newStore(t)
	ctx := context.Background()
	flow, err := s.CreateLoginFlow(ctx)
	require.NoError(t, err)

	env.Clock.Advance(flow.ExpiresAt.Sub(flow.IssuedAt))
	_, err = s.GetLoginFlow(ctx, flow.ID)
	apiErr, ok := httpclient.Resolve(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusGone, apiErr.StatusCode)
	assert.Equal(t, "The self-service flow expired, please start a new one.", apiErr.Message)
	assert.Len(t, rec.Notices(), 1)

	// The previous flow is kept while the failed reload is reported.
	kept, ok := s.Flow.Data()
	require.True(t, ok)
	assert.Equal(t, flow.ID, kept.ID)
}

func TestStore_ResetAll(t *testing.T) {
	t.Parallel()

	s, _, _ := newStore(t)
	_, err := s.CreateLoginFlow(context.Background())
	require.NoError(t, err)

	s.ResetAll()
	_, ok := s.Flow.Data()
	assert.False(t, ok)
}
