package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	memaccreditationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/accreditationrepo"
	memclock "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/clock"
	memidempotency "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/idempotency"
	meminvestmentrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/investmentrepo"
	memnotificationrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/notificationrepo"
	memwalletrepo "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/memory/walletrepo"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
	"github.com/webdevelop-pro/invest-common-sub001/internal/platform/seed"
)

const (
	investor = "7c1b0c4e-1d1f-4d53-9d7e-0a5b7f0b6a01"
	pending  = "7c1b0c4e-1d1f-4d53-9d7e-0a5b7f0b6a02"
)

type testAPI struct {
	handler http.Handler
	svc     *portal.Service
	clk     *memclock.ManualClock
	idem    *memidempotency.Store
}

func newTestAPI(t *testing.T, opts RouterOptions) *testAPI {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc := portal.NewService(portal.Deps{
		Notifications:  memnotificationrepo.NewRepo(),
		Wallets:        memwalletrepo.NewRepo(),
		Investments:    meminvestmentrepo.NewRepo(),
		Accreditations: memaccreditationrepo.NewRepo(),
		Clock:          clk,
	})
	f, err := seed.Load("")
	if err != nil {
		t.Fatalf("seed.Load: %v", err)
	}
	if err := seed.Apply(context.Background(), svc, f); err != nil {
		t.Fatalf("seed.Apply: %v", err)
	}

	idem := memidempotency.NewStore()
	api := NewServer(svc, idem, clk, nil)
	if opts.AuthMiddleware == nil {
		opts.AuthMiddleware = NewSessionAuthMiddleware(svc, true, "")
	}
	return &testAPI{
		handler: NewRouterWithOptions(api, opts),
		svc:     svc,
		clk:     clk,
		idem:    idem,
	}
}

type request struct {
	method  string
	path    string
	subject string
	body    any
	header  http.Header
	cookies []*http.Cookie
}

func (a *testAPI) do(t *testing.T, req request) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	switch b := req.body.(type) {
	case nil:
	case []byte:
		r = bytes.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	hr := httptest.NewRequest(req.method, req.path, r)
	if req.body != nil && req.header.Get("Content-Type") == "" {
		hr.Header.Set("Content-Type", "application/json")
	}
	for k, vs := range req.header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	if req.subject != "" {
		hr.Header.Set("X-Debug-Subject", req.subject)
	}
	for _, c := range req.cookies {
		hr.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, hr)
	return rr
}

type errorEnvelope struct {
	Message     string   `json:"message"`
	FieldErrors []string `json:"__error__"`
	Error       struct {
		Code      string         `json:"code"`
		Message   string         `json:"message"`
		Details   map[string]any `json:"details"`
		RequestID string         `json:"requestId"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, rr.Body.String())
	}
	return out
}

func requireStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status=%d want=%d body=%s", rr.Code, want, rr.Body.String())
	}
}

func requireErrorCode(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantCode string) errorEnvelope {
	t.Helper()
	requireStatus(t, rr, wantStatus)
	got := decode[errorEnvelope](t, rr)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, rr.Body.String())
	}
	if got.Message == "" || got.Error.RequestID == "" {
		t.Fatalf("envelope missing message or requestId: %s", rr.Body.String())
	}
	return got
}
