// Package accreditation is the client-side store for accreditation reviews.
package accreditation

import (
	"context"
	"fmt"
	"net/url"

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

// File is one document to upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Store struct {
	api      API
	notifier notifier.Notifier
	states   actionstate.Group

	Status *actionstate.State[wire.Accreditation]
	Upload *actionstate.State[wire.Accreditation]
}

func NewStore(api API, n notifier.Notifier) *Store {
	s := &Store{api: api, notifier: feedback.OrNop(n)}
	s.Status = actionstate.Track[wire.Accreditation](&s.states)
	s.Upload = actionstate.Track[wire.Accreditation](&s.states)
	return s
}

func (s *Store) ResetAll() { s.states.ResetAll() }

func profilePath(profileID string) string {
	return "/profiles/" + url.PathEscape(profileID)
}

func (s *Store) FetchStatus(ctx context.Context, profileID string) (wire.Accreditation, error) {
	out, err := actionstate.Run(ctx, s.Status, func(ctx context.Context) (wire.Accreditation, error) {
		resp, err := s.api.Get(ctx, profilePath(profileID), httpclient.RequestConfig{
			ErrorMessage: "Could not load accreditation",
		})
		if err != nil {
			return wire.Accreditation{}, err
		}
		return httpclient.As[wire.Accreditation](resp)
	})
	feedback.Error(ctx, s.notifier, "Accreditation", err)
	return out, err
}

// UploadDocuments submits files for review as multipart/form-data. The
// resulting review replaces the cached status.
func (s *Store) UploadDocuments(ctx context.Context, profileID, note string, files []File) (wire.Accreditation, error) {
	form := httpclient.NewFormData().Set("note", note)
	for _, f := range files {
		form.AddFile("files", f.Name, f.ContentType, f.Data)
	}

	out, err := actionstate.Run(ctx, s.Upload, func(ctx context.Context) (wire.Accreditation, error) {
		resp, err := s.api.Post(ctx, profilePath(profileID)+"/documents", form, httpclient.RequestConfig{
			ErrorMessage: "Could not upload documents",
		})
		if err != nil {
			return wire.Accreditation{}, err
		}
		return httpclient.As[wire.Accreditation](resp)
	})
	if err != nil {
		feedback.Error(ctx, s.notifier, "Accreditation", err)
		return out, err
	}
	s.Status.Set(out)
	feedback.Success(ctx, s.notifier, "Accreditation", fmt.Sprintf("%d document(s) sent for review", len(files)))
	return out, nil
}
