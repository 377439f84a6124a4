package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAuth_MissingSubject_401(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RouterOptions{})
	rr := api.do(t, request{method: http.MethodGet, path: "/notification/notifications/unread-count"})
	requireErrorCode(t, rr, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestAuth_DebugSubject(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RouterOptions{})
	rr := api.do(t, request{method: http.MethodGet, path: "/notification/notifications/unread-count", subject: investor})
	requireStatus(t, rr, http.StatusOK)
}

func TestAuth_SessionOnlyRejectsDebugHeader(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RouterOptions{})
	strict := NewRouterWithOptions(NewServer(api.svc, api.idem, api.clk, nil), RouterOptions{})
	req := httptest.NewRequest(http.MethodGet, "/notification/notifications/unread-count", nil)
	req.Header.Set("X-Debug-Subject", investor)
	rr := httptest.NewRecorder()
	strict.ServeHTTP(rr, req)
	requireErrorCode(t, rr, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestAuth_SessionCookie(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RouterOptions{})
	cookie := login(t, api, "investor@example.com", "investor")

	rr := api.do(t, request{method: http.MethodGet, path: "/wallet/profiles/101/wallet", cookies: []*http.Cookie{cookie}})
	requireStatus(t, rr, http.StatusOK)

	// An unknown cookie falls through to the debug header path.
	rr = api.do(t, request{
		method:  http.MethodGet,
		path:    "/wallet/profiles/101/wallet",
		cookies: []*http.Cookie{{Name: SessionCookieName, Value: "bogus"}},
	})
	requireErrorCode(t, rr, http.StatusUnauthorized, "UNAUTHORIZED")
}

func TestDevAuthMiddleware_DefaultSubject(t *testing.T) {
	t.Parallel()

	var got string
	h := NewDevAuthMiddleware("dev|default")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub, _ := SubjectFromContext(r.Context())
		got = string(sub)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if got != "dev|default" {
		t.Fatalf("subject=%q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Debug-Subject", "  dev|alice ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "dev|alice" {
		t.Fatalf("subject=%q", got)
	}
}

func TestRouter_HealthzAndRequestID(t *testing.T) {
	t.Parallel()

	api := newTestAPI(t, RouterOptions{})
	rr := api.do(t, request{method: http.MethodGet, path: "/healthz"})
	requireStatus(t, rr, http.StatusOK)
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID on response")
	}

	rr = api.do(t, request{
		method: http.MethodGet,
		path:   "/healthz",
		header: http.Header{"X-Request-Id": {"req-123"}},
	})
	if got := rr.Header().Get("X-Request-ID"); got != "req-123" {
		t.Fatalf("X-Request-ID=%q, want echo of inbound id", got)
	}
}
