package httpclient

import (
	"encoding"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

var (
	// ErrInvalidRequest is wrapped by every request validation failure.
	ErrInvalidRequest = errors.New("httpclient: invalid request")
)

// Params are query parameters. Values may be strings, numbers, booleans,
// pointers to those, or nullable.Nullable values; nil, nil pointers and
// null/unspecified nullables are omitted from the query string.
type Params map[string]any

func (p Params) clone() Params {
	out := make(Params, len(p)+2)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// RequestConfig describes one call beyond its method and path.
type RequestConfig struct {
	// BaseURL overrides the client's base URL for this call.
	BaseURL string
	Params  Params

	// Body is JSON-encoded. Form is sent as multipart/form-data.
	// At most one of them may be set.
	Body any
	Form *FormData

	// Type forces the response decoding mode.
	Type ResponseType

	// Headers, when non-nil, replace the default header set entirely,
	// including the client's User-Agent and Referer.
	Headers http.Header
	// ExtraHeaders are merged over whichever header set is in effect.
	ExtraHeaders http.Header

	// ErrorMessage is the default message carried by an HTTPError.
	ErrorMessage string
}

// Validate checks the config before any network activity.
func (rc RequestConfig) Validate() error {
	if rc.Body != nil && rc.Form != nil {
		return fmt.Errorf("%w: body and form are mutually exclusive", ErrInvalidRequest)
	}
	if !rc.Type.valid() {
		return fmt.Errorf("%w: unknown response type %q", ErrInvalidRequest, rc.Type)
	}
	if rc.BaseURL != "" {
		if err := validateBaseURL(rc.BaseURL); err != nil {
			return fmt.Errorf("%w: base url override: %v", ErrInvalidRequest, err)
		}
	}
	return nil
}

func validateBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%q is not an absolute http(s) url", raw)
	}
	return nil
}

func isAbsoluteURL(path string) bool {
	p := strings.ToLower(path)
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// resolveURL builds the target URL. Absolute paths are used verbatim.
func resolveURL(base, override, path string, params Params) (string, error) {
	target := path
	if !isAbsoluteURL(path) {
		b := base
		if override != "" {
			b = override
		}
		target = joinURL(b, path)
	}
	q, err := encodeQuery(params)
	if err != nil {
		return "", err
	}
	if q == "" {
		return target, nil
	}
	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}
	return target + sep + q, nil
}

func joinURL(base, path string) string {
	base = strings.TrimSuffix(base, "/")
	if path == "" {
		return base
	}
	if !strings.HasPrefix(path, "/") && !strings.HasPrefix(path, "?") {
		path = "/" + path
	}
	return base + path
}

// encodeQuery renders params as a form-style query string with keys sorted.
func encodeQuery(params Params) (string, error) {
	if len(params) == 0 {
		return "", nil
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, ok := queryValue(params[k])
		if !ok {
			continue
		}
		frag, err := runtime.StyleParamWithLocation("form", true, url.QueryEscape(k), runtime.ParamLocationQuery, v)
		if err != nil {
			return "", fmt.Errorf("%w: query param %q: %v", ErrInvalidRequest, k, err)
		}
		parts = append(parts, frag)
	}
	return strings.Join(parts, "&"), nil
}

// nullish matches nullable.Nullable[T] without naming T.
type nullish interface {
	IsSpecified() bool
	IsNull() bool
}

var timeType = reflect.TypeOf(time.Time{})

// queryValue unwraps v into something the param styler understands and
// reports false for values that must be omitted.
func queryValue(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	if n, ok := v.(nullish); ok {
		if !n.IsSpecified() || n.IsNull() {
			return nil, false
		}
		// nullable.Nullable is map[bool]T with the value under true.
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Map {
			return nil, false
		}
		inner := rv.MapIndex(reflect.ValueOf(true))
		if !inner.IsValid() {
			return nil, false
		}
		return queryValue(inner.Interface())
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, false
		}
		return queryValue(rv.Elem().Interface())
	}
	if _, ok := v.(encoding.TextMarshaler); ok || rv.Type() == timeType {
		return v, true
	}
	if s, ok := v.(fmt.Stringer); ok && rv.Kind() == reflect.Struct {
		return s.String(), true
	}
	return v, true
}
