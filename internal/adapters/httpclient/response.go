package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ResponseType selects how a successful response body is decoded.
type ResponseType string

const (
	// TypeAuto infers the decoding mode from the response content-type.
	TypeAuto ResponseType = ""
	TypeJSON ResponseType = "json"
	TypeBlob ResponseType = "blob"
	TypeText ResponseType = "text"
)

func (t ResponseType) valid() bool {
	switch t {
	case TypeAuto, TypeJSON, TypeBlob, TypeText:
		return true
	default:
		return false
	}
}

// Blob is a binary payload, e.g. a PDF document download.
type Blob struct {
	ContentType string
	Bytes       []byte
}

// Response is the decoded result of a successful call.
//
// Data holds a generic JSON value for TypeJSON, a Blob for TypeBlob and a
// string for TypeText. Responses of deduplicated calls are shared between
// callers and must be treated as read-only.
type Response struct {
	Data    any
	Status  int
	Headers http.Header
	Type    ResponseType
	// Shared is true when this caller joined a call started by another one.
	// Side effects tied to the call belong to the caller that started it.
	Shared bool

	raw []byte
}

// Raw returns the undecoded response body.
func (r *Response) Raw() []byte {
	if r == nil {
		return nil
	}
	return r.raw
}

// As decodes the JSON body of r into a T.
func As[T any](r *Response) (T, error) {
	var out T
	if r == nil {
		return out, errors.New("httpclient: nil response")
	}
	if r.Type != TypeJSON {
		return out, &DecodeError{Type: r.Type, Status: r.Status, Err: errors.New("response was not decoded as json")}
	}
	if len(bytes.TrimSpace(r.raw)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.raw, &out); err != nil {
		return out, &DecodeError{Type: r.Type, Status: r.Status, Err: err}
	}
	return out, nil
}

// resolveType picks the decoding mode: explicit hint first, then the
// content-type header, falling back to text.
func resolveType(hint ResponseType, contentType string) ResponseType {
	if hint != TypeAuto {
		return hint
	}
	if strings.Contains(strings.ToLower(contentType), "application/json") {
		return TypeJSON
	}
	return TypeText
}

func decodeBody(t ResponseType, contentType string, body []byte) (any, error) {
	switch t {
	case TypeJSON:
		// 204-style empty bodies decode to nil rather than failing.
		if len(bytes.TrimSpace(body)) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case TypeBlob:
		return Blob{ContentType: contentType, Bytes: body}, nil
	default:
		return string(body), nil
	}
}
