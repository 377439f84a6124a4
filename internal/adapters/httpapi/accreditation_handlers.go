package httpapi

import (
	"errors"
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

const maxUploadMemory = 32 << 20

func (s *Server) GetAccreditation(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	profileID, err := pathParam(r, "profileId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.Portal.AccreditationStatus(r.Context(), sub, domain.ProfileID(profileID))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accreditationToWire(a))
}

// UploadAccreditation accepts multipart/form-data with a "note" field and one
// or more "files" parts.
func (s *Server) UploadAccreditation(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	profileID, err := pathParam(r, "profileId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.fail(w, r, &portal.Error{Status: status, Code: portal.CodeValidation, Message: "invalid multipart body: " + err.Error()})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	var files []domain.AccreditationFile
	for _, fh := range r.MultipartForm.File["files"] {
		var f openapi_types.File
		f.InitFromMultipart(fh)
		files = append(files, domain.AccreditationFile{
			Name:        f.Filename(),
			ContentType: fh.Header.Get("Content-Type"),
			Size:        f.FileSize(),
		})
	}

	a, err := s.Portal.UploadAccreditation(r.Context(), sub, domain.ProfileID(profileID), r.FormValue("note"), files)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, accreditationToWire(a))
}

func accreditationToWire(a domain.Accreditation) wire.Accreditation {
	files := make([]wire.AccreditationFile, 0, len(a.Files))
	for _, f := range a.Files {
		files = append(files, wire.AccreditationFile{Name: f.Name, ContentType: f.ContentType, Size: f.Size})
	}
	out := wire.Accreditation{
		ProfileID: string(a.ProfileID),
		Status:    string(a.Status),
		Note:      a.Note,
		Files:     files,
	}
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
