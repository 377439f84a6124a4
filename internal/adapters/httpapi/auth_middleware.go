package httpapi

import (
	"net/http"
	"strings"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

// SessionCookieName is the cookie set by a successful login.
const SessionCookieName = "dev_session"

// SessionResolver maps a session cookie value to its subject.
type SessionResolver interface {
	SubjectForSession(token string) (domain.SubjectID, bool)
}

// NewSessionAuthMiddleware authenticates requests by the session cookie.
//
// When allowDebugSubject is set, requests without a valid session may name a
// subject via X-Debug-Subject, falling back to defaultSubject. That path is for
// local workflows only.
func NewSessionAuthMiddleware(sessions SessionResolver, allowDebugSubject bool, defaultSubject string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sessions != nil {
				if c, err := r.Cookie(SessionCookieName); err == nil && c.Value != "" {
					if sub, ok := sessions.SubjectForSession(c.Value); ok {
						next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), sub)))
						return
					}
				}
			}
			if !allowDebugSubject {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing or expired session", nil)
				return
			}

			sub := strings.TrimSpace(r.Header.Get("X-Debug-Subject"))
			if sub == "" {
				sub = strings.TrimSpace(defaultSubject)
			}
			if sub == "" {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing subject (log in or set X-Debug-Subject)", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSubject(r.Context(), domain.SubjectID(sub))))
		})
	}
}

// NewDevAuthMiddleware accepts only X-Debug-Subject (or defaultSubject).
func NewDevAuthMiddleware(defaultSubject string) func(http.Handler) http.Handler {
	return NewSessionAuthMiddleware(nil, true, defaultSubject)
}
