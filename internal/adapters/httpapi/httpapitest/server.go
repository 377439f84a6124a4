// Package httpapitest boots a seeded dev backend on an httptest server.
package httpapitest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	memaccreditationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/accreditationrepo"
	memclock "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/clock"
	memidempotency "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/idempotency"
	meminvestmentrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/investmentrepo"
	memnotificationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/notificationrepo"
	memwalletrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/walletrepo"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/seed"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/idempotency"
)

// Subjects and credentials from the default seed fixture.
const (
	InvestorSubject  = "7c1b0c4e-1d1f-4d53-9d7e-0a5b7f0b6a01"
	InvestorEmail    = "investor@example.com"
	InvestorPassword = "investor"
	InvestorProfile  = "101"
	InvestorWallet   = "5001"

	PendingSubject = "7c1b0c4e-1d1f-4d53-9d7e-0a5b7f0b6a02"
)

type Env struct {
	URL     string
	Service *portal.Service
	Clock   *memclock.ManualClock
}

// Options swaps storage adapters; nil fields use the in-memory ones.
type Options struct {
	Deps portal.Deps
	Idem idempotency.Store
}

// Start serves a seeded backend until the test ends. Requests authenticate by
// session cookie or X-Debug-Subject.
func Start(t testing.TB, opts Options) *Env {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	deps := opts.Deps
	if deps.Notifications == nil {
		deps.Notifications = memnotificationrepo.NewRepo()
	}
	if deps.Wallets == nil {
		deps.Wallets = memwalletrepo.NewRepo()
	}
	if deps.Investments == nil {
		deps.Investments = meminvestmentrepo.NewRepo()
	}
	if deps.Accreditations == nil {
		deps.Accreditations = memaccreditationrepo.NewRepo()
	}
	deps.Clock = clk
	idem := opts.Idem
	if idem == nil {
		idem = memidempotency.NewStore()
	}

	svc := portal.NewService(deps)
	f, err := seed.Load("")
	if err != nil {
		t.Fatalf("seed.Load: %v", err)
	}
	if err := seed.Apply(context.Background(), svc, f); err != nil {
		t.Fatalf("seed.Apply: %v", err)
	}

	api := httpapi.NewServer(svc, idem, clk, nil)
	h := httpapi.NewRouterWithOptions(api, httpapi.RouterOptions{
		AuthMiddleware: httpapi.NewSessionAuthMiddleware(svc, true, ""),
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return &Env{URL: srv.URL, Service: svc, Clock: clk}
}

// Client returns an API client for one service prefix (e.g. "wallet").
// Mutators run on cfg before construction.
func (e *Env) Client(t testing.TB, service string, mutators ...func(*httpclient.Config)) *httpclient.Client {
	t.Helper()
	cfg := httpclient.Config{
		Service: service,
		BaseURL: e.URL + "/" + service,
	}
	for _, m := range mutators {
		m(&cfg)
	}
	c, err := httpclient.New(cfg)
	if err != nil {
		t.Fatalf("httpclient.New: %v", err)
	}
	return c
}

// AsSubject makes every request of the client authenticate as subject.
func AsSubject(subject string) func(*httpclient.Config) {
	return func(cfg *httpclient.Config) {
		next := cfg.HTTPClient
		if next == nil {
			next = &http.Client{Jar: cfg.Jar, Timeout: cfg.Timeout}
		}
		cfg.HTTPClient = subjectDoer{subject: subject, next: next}
	}
}

type subjectDoer struct {
	subject string
	next    httpclient.Doer
}

func (d subjectDoer) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Debug-Subject", d.subject)
	return d.next.Do(req)
}
