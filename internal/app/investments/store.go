// Package investments is the client-side store for the investment service.
package investments

import (
	"context"
	"mime"
	"net/url"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpclient"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/actionstate"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/feedback"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notifier"
)

type API interface {
	Get(ctx context.Context, path string, rc httpclient.RequestConfig) (*httpclient.Response, error)
	GetPaginated(ctx context.Context, path string, page, limit int, rc httpclient.RequestConfig) (*httpclient.PaginatedResponse, error)
}

type Page struct {
	Items      []wire.Investment
	Pagination httpclient.Pagination
}

// Document is a downloaded investment document.
type Document struct {
	Name        string
	ContentType string
	Bytes       []byte
}

type Store struct {
	api      API
	notifier notifier.Notifier
	states   actionstate.Group

	List     *actionstate.State[Page]
	Current  *actionstate.State[wire.Investment]
	Download *actionstate.State[Document]
}

func NewStore(api API, n notifier.Notifier) *Store {
	s := &Store{api: api, notifier: feedback.OrNop(n)}
	s.List = actionstate.Track[Page](&s.states)
	s.Current = actionstate.Track[wire.Investment](&s.states)
	s.Download = actionstate.Track[Document](&s.states)
	return s
}

func (s *Store) ResetAll() { s.states.ResetAll() }

func (s *Store) FetchList(ctx context.Context, page, limit int) (Page, error) {
	out, err := actionstate.Run(ctx, s.List, func(ctx context.Context) (Page, error) {
		resp, err := s.api.GetPaginated(ctx, "/investments", page, limit, httpclient.RequestConfig{
			ErrorMessage: "Could not load investments",
		})
		if err != nil {
			return Page{}, err
		}
		items, err := httpclient.As[[]wire.Investment](resp.Response)
		if err != nil {
			return Page{}, err
		}
		return Page{Items: items, Pagination: resp.Pagination}, nil
	})
	feedback.Error(ctx, s.notifier, "Investments", err)
	return out, err
}

func (s *Store) Fetch(ctx context.Context, id string) (wire.Investment, error) {
	out, err := actionstate.Run(ctx, s.Current, func(ctx context.Context) (wire.Investment, error) {
		resp, err := s.api.Get(ctx, "/investments/"+url.PathEscape(id), httpclient.RequestConfig{})
		if err != nil {
			return wire.Investment{}, err
		}
		return httpclient.As[wire.Investment](resp)
	})
	feedback.Error(ctx, s.notifier, "Investments", err)
	return out, err
}

// DownloadDocument fetches the raw bytes of one document. The name comes
// from Content-Disposition when the server sends one, else docID.
func (s *Store) DownloadDocument(ctx context.Context, id, docID string) (Document, error) {
	out, err := actionstate.Run(ctx, s.Download, func(ctx context.Context) (Document, error) {
		resp, err := s.api.Get(ctx, "/investments/"+url.PathEscape(id)+"/documents/"+url.PathEscape(docID), httpclient.RequestConfig{
			Type:         httpclient.TypeBlob,
			ErrorMessage: "Could not download document",
		})
		if err != nil {
			return Document{}, err
		}
		blob, _ := resp.Data.(httpclient.Blob)
		doc := Document{Name: docID, ContentType: blob.ContentType, Bytes: blob.Bytes}
		if _, params, err := mime.ParseMediaType(resp.Headers.Get("Content-Disposition")); err == nil && params["filename"] != "" {
			doc.Name = params["filename"]
		}
		return doc, nil
	})
	feedback.Error(ctx, s.notifier, "Documents", err)
	return out, err
}
