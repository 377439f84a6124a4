// Package notifications is the client-side store for the notification service.
package notifications

import (
	"context"
	"net/url"
	"time"

	"github.com/oapi-codegen/nullable"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/actionstate"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/feedback"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

const basePath = "/notifications"

// API is the subset of httpclient.Client the store uses.
type API interface {
	GetPaginated(ctx context.Context, path string, page, limit int, rc httpclient.RequestConfig) (*httpclient.PaginatedResponse, error)
	Options(ctx context.Context, path string, rc httpclient.RequestConfig) (*httpclient.Response, error)
	Patch(ctx context.Context, path string, body any, rc httpclient.RequestConfig) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any, rc httpclient.RequestConfig) (*httpclient.Response, error)
}

type Page struct {
	Items      []wire.Notification
	Pagination httpclient.Pagination
}

type Store struct {
	api      API
	notifier notifier.Notifier
	states   actionstate.Group

	List        *actionstate.State[Page]
	Schema      *actionstate.State[map[string]any]
	MarkRead    *actionstate.State[wire.Notification]
	MarkAllRead *actionstate.State[int]
}

func NewStore(api API, n notifier.Notifier) *Store {
	s := &Store{api: api, notifier: feedback.OrNop(n)}
	s.List = actionstate.Track[Page](&s.states)
	s.Schema = actionstate.Track[map[string]any](&s.states)
	s.MarkRead = actionstate.Track[wire.Notification](&s.states)
	s.MarkAllRead = actionstate.Track[int](&s.states)
	return s
}

// ResetAll restores every action state, e.g. on logout.
func (s *Store) ResetAll() { s.states.ResetAll() }

func (s *Store) FetchList(ctx context.Context, page, limit int) (Page, error) {
	out, err := actionstate.Run(ctx, s.List, func(ctx context.Context) (Page, error) {
		resp, err := s.api.GetPaginated(ctx, basePath, page, limit, httpclient.RequestConfig{
			ErrorMessage: "Could not load notifications",
		})
		if err != nil {
			return Page{}, err
		}
		items, err := httpclient.As[[]wire.Notification](resp.Response)
		if err != nil {
			return Page{}, err
		}
		return Page{Items: items, Pagination: resp.Pagination}, nil
	})
	feedback.Error(ctx, s.notifier, "Notifications", err)
	return out, err
}

// FetchSchema loads the resource schema served on OPTIONS ?schema=1.
func (s *Store) FetchSchema(ctx context.Context) (map[string]any, error) {
	out, err := actionstate.Run(ctx, s.Schema, func(ctx context.Context) (map[string]any, error) {
		resp, err := s.api.Options(ctx, basePath, httpclient.RequestConfig{})
		if err != nil {
			return nil, err
		}
		return httpclient.As[map[string]any](resp)
	})
	feedback.Error(ctx, s.notifier, "Notifications", err)
	return out, err
}

type markReadBody struct {
	Status string                       `json:"status"`
	ReadAt nullable.Nullable[time.Time] `json:"read_at"`
}

// Read marks one notification read as of now on the server and patches the
// cached list in place.
func (s *Store) Read(ctx context.Context, id string) (wire.Notification, error) {
	out, err := actionstate.Run(ctx, s.MarkRead, func(ctx context.Context) (wire.Notification, error) {
		body := markReadBody{Status: "read", ReadAt: nullable.NewNullNullable[time.Time]()}
		resp, err := s.api.Patch(ctx, basePath+"/"+url.PathEscape(id), body, httpclient.RequestConfig{})
		if err != nil {
			return wire.Notification{}, err
		}
		return httpclient.As[wire.Notification](resp)
	})
	if err != nil {
		feedback.Error(ctx, s.notifier, "Notifications", err)
		return out, err
	}
	s.List.Update(func(p Page) Page {
		items := append([]wire.Notification(nil), p.Items...)
		for i := range items {
			if items[i].ID == out.ID {
				items[i] = out
			}
		}
		p.Items = items
		return p
	})
	return out, nil
}

func (s *Store) ReadAll(ctx context.Context) (int, error) {
	out, err := actionstate.Run(ctx, s.MarkAllRead, func(ctx context.Context) (int, error) {
		resp, err := s.api.Post(ctx, basePath+"/mark-all-read", nil, httpclient.RequestConfig{})
		if err != nil {
			return 0, err
		}
		r, err := httpclient.As[wire.MarkAllReadResponse](resp)
		return r.Updated, err
	})
	if err != nil {
		feedback.Error(ctx, s.notifier, "Notifications", err)
		return out, err
	}
	now := time.Now().UTC()
	s.List.Update(func(p Page) Page {
		items := append([]wire.Notification(nil), p.Items...)
		for i := range items {
			if items[i].Status != "read" {
				items[i].Status = "read"
				items[i].ReadAt = &now
			}
		}
		p.Items = items
		return p
	})
	return out, nil
}

// UnreadCount counts unread items in the last loaded page.
func (s *Store) UnreadCount() int {
	p, ok := s.List.Data()
	if !ok {
		return 0
	}
	n := 0
	for _, item := range p.Items {
		if item.Status != "read" {
			n++
		}
	}
	return n
}
