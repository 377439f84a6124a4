package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/httpapitest"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/config"
)

func TestSet_SharedSessionAcrossServices(t *testing.T) {
	t.Parallel()

	env := httpapitest.Start(t, httpapitest.Options{})
	reg := prometheus.NewRegistry()
	set, err := New(config.ClientConfig{
		Origin:   env.URL,
		Timeout:  5 * time.Second,
		Dedup:    "request",
		LogLevel: "info",
	}, Options{Registerer: reg})
	require.NoError(t, err)

	ctx := context.Background()
	resp, err := set.Identity.Get(ctx, "/self-service/login/browser", httpclient.RequestConfig{})
	require.NoError(t, err)
	flow, err := httpclient.As[wire.LoginFlow](resp)
	require.NoError(t, err)

	_, err = set.Identity.Post(ctx, "/self-service/login", wire.LoginRequest{
		Method:     "password",
		Identifier: httpapitest.InvestorEmail,
		Password:   httpapitest.InvestorPassword,
	}, httpclient.RequestConfig{Params: httpclient.Params{"flow": flow.ID}})
	require.NoError(t, err)

	// The session cookie set by identity authenticates the wallet service.
	resp, err = set.Wallet.Get(ctx, "/profiles/"+httpapitest.InvestorProfile+"/wallet", httpclient.RequestConfig{})
	require.NoError(t, err)
	w, err := httpclient.As[wire.Wallet](resp)
	require.NoError(t, err)
	assert.Equal(t, httpapitest.InvestorWallet, w.ID)

	n, err := testutil.GatherAndCount(reg, "invest_apiclient_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestSet_Client(t *testing.T) {
	t.Parallel()

	set, err := New(config.ClientConfig{Origin: "http://localhost:1", Timeout: time.Second, Dedup: "off"}, Options{})
	require.NoError(t, err)
	for _, svc := range config.Services {
		c, err := set.Client(svc)
		require.NoError(t, err, svc)
		assert.NotNil(t, c)
	}
	_, err = set.Client("billing")
	assert.Error(t, err)
}
