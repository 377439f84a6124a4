package portal

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

const (
	loginFlowTTL = 10 * time.Minute
	sessionTTL   = 24 * time.Hour
)

// LoginFlow is a self-service login attempt.
type LoginFlow struct {
	ID        string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session is an authenticated browser session. ID doubles as the cookie value.
type Session struct {
	ID              string
	Active          bool
	AuthenticatedAt time.Time
	ExpiresAt       time.Time
	Identity        domain.Account
}

// AddAccount registers a login. Emails are unique after normalization.
func (s *Service) AddAccount(a domain.Account) error {
	email := domain.NormalizeEmail(a.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return validationError("invalid account email", map[string]any{"email": "must be a valid email address"})
	}
	if a.Subject == "" {
		a.Subject = domain.SubjectID(s.newID())
	}
	a.Email = email

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[email]; ok {
		return &Error{Status: http.StatusConflict, Code: "ACCOUNT_EXISTS", Message: "an account with this email already exists"}
	}
	s.accounts[email] = a
	s.bySubject[a.Subject] = a
	return nil
}

// Account returns the account bound to subject.
func (s *Service) Account(subject domain.SubjectID) (domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.bySubject[subject]
	return a, ok
}

func (s *Service) CreateLoginFlow(ctx context.Context) LoginFlow {
	_ = ctx
	now := s.clk.Now()
	f := LoginFlow{ID: s.newID(), IssuedAt: now, ExpiresAt: now.Add(loginFlowTTL)}
	s.mu.Lock()
	s.flows[f.ID] = f
	s.mu.Unlock()
	return f
}

func (s *Service) GetLoginFlow(ctx context.Context, id string) (LoginFlow, error) {
	_ = ctx
	s.mu.RLock()
	f, ok := s.flows[id]
	s.mu.RUnlock()
	if !ok {
		return LoginFlow{}, notFound("login flow")
	}
	if !s.clk.Now().Before(f.ExpiresAt) {
		return f, &Error{
			Status:  http.StatusGone,
			Code:    CodeFlowExpired,
			Message: "The self-service flow expired, please start a new one.",
		}
	}
	return f, nil
}

// SubmitLogin checks the password for identifier and opens a session.
func (s *Service) SubmitLogin(ctx context.Context, flowID, identifier, password string) (Session, error) {
	if _, err := s.GetLoginFlow(ctx, flowID); err != nil {
		return Session{}, err
	}
	details := map[string]any{}
	if strings.TrimSpace(identifier) == "" {
		details["identifier"] = "Property identifier is missing."
	}
	if password == "" {
		details["password"] = "Property password is missing."
	}
	if len(details) > 0 {
		return Session{}, validationError("login form is incomplete", details)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[domain.NormalizeEmail(identifier)]
	if !ok || a.Password != password {
		return Session{}, &Error{
			Status:  http.StatusBadRequest,
			Code:    CodeInvalidCredentials,
			Message: "The provided credentials are invalid, check for spelling mistakes in your password or username, email address, or phone number.",
		}
	}
	now := s.clk.Now()
	sess := Session{
		ID:              s.newID(),
		Active:          true,
		AuthenticatedAt: now,
		ExpiresAt:       now.Add(sessionTTL),
		Identity:        a,
	}
	s.sessions[sess.ID] = sess
	delete(s.flows, flowID)
	return sess, nil
}

func (s *Service) WhoAmI(ctx context.Context, token string) (Session, error) {
	_ = ctx
	s.mu.RLock()
	sess, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok || !s.clk.Now().Before(sess.ExpiresAt) {
		return Session{}, &Error{
			Status:  http.StatusUnauthorized,
			Code:    CodeUnauthorized,
			Message: "No valid session credentials found in the request.",
		}
	}
	return sess, nil
}

// SubjectForSession resolves a session cookie to its subject.
func (s *Service) SubjectForSession(token string) (domain.SubjectID, bool) {
	sess, err := s.WhoAmI(context.Background(), token)
	if err != nil {
		return "", false
	}
	return sess.Identity.Subject, true
}

func (s *Service) Logout(ctx context.Context, token string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[token]; !ok {
		return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: "No active session to log out of."}
	}
	delete(s.sessions, token)
	return nil
}
