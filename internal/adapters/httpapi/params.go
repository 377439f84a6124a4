package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
)

func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", &portal.Error{
			Status:  http.StatusBadRequest,
			Code:    portal.CodeValidation,
			Message: fmt.Sprintf("invalid path parameter %s", name),
			Details: map[string]any{name: err.Error()},
		}
	}
	return v, nil
}

type pageQuery struct {
	Page  *int
	Limit *int
}

// pageParams binds the optional page/limit query pair, defaulting to page 1
// of 10.
func pageParams(r *http.Request) (page, limit int, err error) {
	var q pageQuery
	values := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "page", values, &q.Page); err != nil {
		return 0, 0, queryError("page", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", values, &q.Limit); err != nil {
		return 0, 0, queryError("limit", err)
	}
	page, limit = defaultPage, defaultLimit
	if q.Page != nil {
		page = *q.Page
	}
	if q.Limit != nil {
		limit = *q.Limit
	}
	return page, limit, nil
}

func queryError(name string, err error) *portal.Error {
	return &portal.Error{
		Status:  http.StatusBadRequest,
		Code:    portal.CodeValidation,
		Message: fmt.Sprintf("invalid query parameter %s", name),
		Details: map[string]any{name: err.Error()},
	}
}

func setTotalCount(w http.ResponseWriter, total int) {
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
}
