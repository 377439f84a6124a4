// Package identity is the client-side store for browser login sessions.
package identity

import (
	"context"
	"errors"
	"net/http"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/actionstate"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/feedback"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

type API interface {
	Get(ctx context.Context, path string, rc httpclient.RequestConfig) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any, rc httpclient.RequestConfig) (*httpclient.Response, error)
}

type Store struct {
	api      API
	notifier notifier.Notifier
	states   actionstate.Group

	Session *actionstate.State[wire.Session]
	Flow    *actionstate.State[wire.LoginFlow]
	Login   *actionstate.State[wire.Session]
	SignOut *actionstate.State[struct{}]
}

// NewStore expects api to carry a cookie jar; the session lives in a cookie.
func NewStore(api API, n notifier.Notifier) *Store {
	s := &Store{api: api, notifier: feedback.OrNop(n)}
	s.Session = actionstate.Track[wire.Session](&s.states)
	s.Flow = actionstate.Track[wire.LoginFlow](&s.states)
	s.Login = actionstate.Track[wire.Session](&s.states)
	s.SignOut = actionstate.Track[struct{}](&s.states)
	return s
}

func (s *Store) ResetAll() { s.states.ResetAll() }

// IsUnauthorized reports whether err is the identity service saying there is
// no session.
func IsUnauthorized(err error) bool {
	var he *httpclient.HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusUnauthorized
}

// WhoAmI loads the current session. A missing session is an expected answer
// and produces no notice.
func (s *Store) WhoAmI(ctx context.Context) (wire.Session, error) {
	out, err := actionstate.Run(ctx, s.Session, func(ctx context.Context) (wire.Session, error) {
		resp, err := s.api.Get(ctx, "/sessions/whoami", httpclient.RequestConfig{})
		if err != nil {
			return wire.Session{}, err
		}
		return httpclient.As[wire.Session](resp)
	})
	if !IsUnauthorized(err) {
		feedback.Error(ctx, s.notifier, "Session", err)
	}
	return out, err
}

func (s *Store) CreateLoginFlow(ctx context.Context) (wire.LoginFlow, error) {
	out, err := actionstate.Run(ctx, s.Flow, func(ctx context.Context) (wire.LoginFlow, error) {
		resp, err := s.api.Get(ctx, "/self-service/login/browser", httpclient.RequestConfig{
			ErrorMessage: "Could not start login",
		})
		if err != nil {
			return wire.LoginFlow{}, err
		}
		return httpclient.As[wire.LoginFlow](resp)
	})
	feedback.Error(ctx, s.notifier, "Login", err)
	return out, err
}

func (s *Store) GetLoginFlow(ctx context.Context, id string) (wire.LoginFlow, error) {
	out, err := actionstate.Run(ctx, s.Flow, func(ctx context.Context) (wire.LoginFlow, error) {
		resp, err := s.api.Get(ctx, "/self-service/login/flows", httpclient.RequestConfig{
			Params:       httpclient.Params{"id": id},
			ErrorMessage: "Could not load login",
		})
		if err != nil {
			return wire.LoginFlow{}, err
		}
		return httpclient.As[wire.LoginFlow](resp)
	})
	feedback.Error(ctx, s.notifier, "Login", err)
	return out, err
}

// SubmitLogin posts the password method for flowID. On success the session
// state is filled as well.
func (s *Store) SubmitLogin(ctx context.Context, flowID, identifier, password string) (wire.Session, error) {
	out, err := actionstate.Run(ctx, s.Login, func(ctx context.Context) (wire.Session, error) {
		resp, err := s.api.Post(ctx, "/self-service/login", wire.LoginRequest{
			Method:     "password",
			Identifier: identifier,
			Password:   password,
		}, httpclient.RequestConfig{
			Params:       httpclient.Params{"flow": flowID},
			ErrorMessage: "Login failed",
		})
		if err != nil {
			return wire.Session{}, err
		}
		lr, err := httpclient.As[wire.LoginResponse](resp)
		return lr.Session, err
	})
	if err != nil {
		feedback.Error(ctx, s.notifier, "Login", err)
		return out, err
	}
	s.Session.Set(out)
	return out, nil
}

// Logout ends the session and clears every state of the store.
func (s *Store) Logout(ctx context.Context) error {
	_, err := actionstate.Run(ctx, s.SignOut, func(ctx context.Context) (struct{}, error) {
		_, err := s.api.Post(ctx, "/self-service/logout", nil, httpclient.RequestConfig{})
		return struct{}{}, err
	})
	if err != nil {
		feedback.Error(ctx, s.notifier, "Logout", err)
		return err
	}
	s.ResetAll()
	return nil
}
