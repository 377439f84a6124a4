package httpclient

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

func (c *Client) Get(ctx context.Context, path string, rc RequestConfig) (*Response, error) {
	rc.Body, rc.Form = nil, nil
	return c.Request(ctx, http.MethodGet, path, rc)
}

func (c *Client) Delete(ctx context.Context, path string, rc RequestConfig) (*Response, error) {
	rc.Body, rc.Form = nil, nil
	return c.Request(ctx, http.MethodDelete, path, rc)
}

// Options asks the server for the resource schema; schema=1 is merged into
// the caller's params.
func (c *Client) Options(ctx context.Context, path string, rc RequestConfig) (*Response, error) {
	rc.Body, rc.Form = nil, nil
	params := rc.Params.clone()
	params["schema"] = 1
	rc.Params = params
	return c.Request(ctx, http.MethodOptions, path, rc)
}

func (c *Client) Post(ctx context.Context, path string, body any, rc RequestConfig) (*Response, error) {
	return c.Request(ctx, http.MethodPost, path, withBody(rc, body))
}

func (c *Client) Put(ctx context.Context, path string, body any, rc RequestConfig) (*Response, error) {
	return c.Request(ctx, http.MethodPut, path, withBody(rc, body))
}

func (c *Client) Patch(ctx context.Context, path string, body any, rc RequestConfig) (*Response, error) {
	return c.Request(ctx, http.MethodPatch, path, withBody(rc, body))
}

// withBody routes a *FormData body to the multipart slot; everything else
// is sent as JSON.
func withBody(rc RequestConfig, body any) RequestConfig {
	switch b := body.(type) {
	case nil:
	case *FormData:
		if b != nil {
			rc.Form, rc.Body = b, nil
		}
	case FormData:
		rc.Form, rc.Body = &b, nil
	default:
		rc.Body, rc.Form = body, nil
	}
	return rc
}

// Pagination is derived from the x-total-count header.
type Pagination struct {
	CurrentPage  int `json:"currentPage"`
	TotalPages   int `json:"totalPages"`
	TotalItems   int `json:"totalItems"`
	ItemsPerPage int `json:"itemsPerPage"`
}

type PaginatedResponse struct {
	*Response
	Pagination Pagination
}

// GetPaginated performs a GET with page and limit params.
func (c *Client) GetPaginated(ctx context.Context, path string, page, limit int, rc RequestConfig) (*PaginatedResponse, error) {
	params := rc.Params.clone()
	params["page"] = page
	params["limit"] = limit
	rc.Params = params

	resp, err := c.Get(ctx, path, rc)
	if err != nil {
		return nil, err
	}
	return &PaginatedResponse{
		Response:   resp,
		Pagination: paginate(resp.Headers.Get(HeaderTotalCount), page, limit),
	}, nil
}

func paginate(totalHeader string, page, limit int) Pagination {
	total, err := strconv.Atoi(strings.TrimSpace(totalHeader))
	if err != nil || total < 0 {
		total = 0
	}
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
	}
}
