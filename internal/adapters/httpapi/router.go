package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	// AuthMiddleware guards every service route except /identity.
	AuthMiddleware func(http.Handler) http.Handler
	RateLimiter    *RateLimiter
	Metrics        *HTTPMetrics
	// MetricsHandler is served at /metrics when set.
	MetricsHandler http.Handler
}

// NewRouter constructs the dev backend router with session auth and no
// rate limiting or metrics.
func NewRouter(s *Server) http.Handler {
	return NewRouterWithOptions(s, RouterOptions{})
}

func NewRouterWithOptions(s *Server, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(echoRequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if opts.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	}

	auth := opts.AuthMiddleware
	if auth == nil {
		auth = NewSessionAuthMiddleware(s.Portal, false, "")
	}
	limit := func(next http.Handler) http.Handler { return next }
	if opts.RateLimiter != nil {
		limit = opts.RateLimiter.Handler
	}

	r.Route("/identity", func(r chi.Router) {
		r.Use(limit)
		r.Get("/self-service/login/browser", s.CreateLoginFlow)
		r.Get("/self-service/login/flows", s.GetLoginFlow)
		r.Post("/self-service/login", s.SubmitLogin)
		r.Get("/sessions/whoami", s.WhoAmI)
		r.Post("/self-service/logout", s.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth)
		r.Use(limit)

		r.Route("/notification/notifications", func(r chi.Router) {
			r.Get("/", s.ListNotifications)
			r.Options("/", s.NotificationsSchema)
			r.Get("/unread-count", s.UnreadCount)
			r.Post("/mark-all-read", s.MarkAllNotificationsRead)
			r.Patch("/{notificationId}", s.MarkNotificationRead)
		})

		r.Get("/wallet/profiles/{profileId}/wallet", s.GetWallet)
		r.Get("/wallet/wallets/{walletId}/transactions", s.ListTransactions)
		r.Post("/wallet/wallets/{walletId}/fund", s.AddFunds)

		r.Route("/investment/investments", func(r chi.Router) {
			r.Get("/", s.ListInvestments)
			r.Options("/", s.InvestmentsSchema)
			r.Get("/{investmentId}", s.GetInvestment)
			r.Get("/{investmentId}/documents/{documentId}", s.GetInvestmentDocument)
		})

		r.Get("/accreditation/profiles/{profileId}", s.GetAccreditation)
		r.Post("/accreditation/profiles/{profileId}/documents", s.UploadAccreditation)
	})

	return r
}

// echoRequestID returns the request id assigned by middleware.RequestID.
func echoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rid := middleware.GetReqID(r.Context()); rid != "" {
			w.Header().Set("X-Request-ID", rid)
		}
		next.ServeHTTP(w, r)
	})
}
