package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// HTTPContext describes the request a failure belongs to.
type HTTPContext struct {
	Method    string
	URL       string
	Path      string
	UserAgent string
	Referrer  string
	Protocol  string
}

// TransportError is a failure of the network call itself: DNS, refused
// connections, resets and aborts.
type TransportError struct {
	Context HTTPContext
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Context.Method, e.Context.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsAbort reports whether the call was cancelled through its context.
func (e *TransportError) IsAbort() bool {
	return errors.Is(e.Err, context.Canceled) || errors.Is(e.Err, context.DeadlineExceeded)
}

// DecodeError means a 2xx body could not be decoded in the resolved mode.
type DecodeError struct {
	Context HTTPContext
	Type    ResponseType
	Status  int
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Context.URL == "" {
		return fmt.Sprintf("decode %s body: %v", e.Type, e.Err)
	}
	return fmt.Sprintf("%s %s: decode %s body: %v", e.Context.Method, e.Context.URL, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// HTTPError is the raw form of a non-2xx response. It is built synchronously
// and never fails; Resolve produces the enriched APIError.
type HTTPError struct {
	// Message is the caller-supplied default message.
	Message    string
	Timestamp  time.Time
	StatusCode int
	Status     string
	Header     http.Header
	// Body is a buffered copy of the response body.
	Body    []byte
	Context HTTPContext
}

func newHTTPError(message string, ts time.Time, resp *http.Response, body []byte, hc HTTPContext) *HTTPError {
	e := &HTTPError{
		Message:   message,
		Timestamp: ts,
		Body:      append([]byte(nil), body...),
		Context:   hc,
	}
	if resp != nil {
		e.StatusCode = resp.StatusCode
		e.Status = resp.Status
		e.Header = resp.Header.Clone()
	}
	return e
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Context.Method, e.Context.URL, e.StatusCode, e.Message)
}

func (e *HTTPError) IsClientError() bool { return e.StatusCode >= 400 && e.StatusCode < 500 }
func (e *HTTPError) IsServerError() bool { return e.StatusCode >= 500 }

// Resolve parses the buffered body and returns the immutable enriched error.
// An unparsable body yields a nil ResponseJSON and the original message.
func (e *HTTPError) Resolve() *APIError {
	out := &APIError{
		Message:         e.Message,
		OriginalMessage: e.Message,
		Timestamp:       e.Timestamp,
		StatusCode:      e.StatusCode,
		Context:         e.Context,
		raw:             e,
	}
	if len(e.Body) == 0 || !gjson.ValidBytes(e.Body) {
		return out
	}
	var v any
	if err := json.Unmarshal(e.Body, &v); err != nil {
		return out
	}
	out.ResponseJSON = v
	out.Message = refineMessage(gjson.ParseBytes(e.Body), e.Message)
	return out
}

// APIError is a resolved HTTP failure with a user-presentable message.
type APIError struct {
	Message         string
	OriginalMessage string
	Timestamp       time.Time
	StatusCode      int
	Context         HTTPContext
	// ResponseJSON is the decoded error body, nil when it was not JSON.
	ResponseJSON any

	raw *HTTPError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Context.Method, e.Context.URL, e.StatusCode, e.Message)
}

// Unwrap exposes the raw HTTPError so errors.As works on either form.
func (e *APIError) Unwrap() error {
	if e.raw == nil {
		return nil
	}
	return e.raw
}

func (e *APIError) IsClientError() bool { return e.StatusCode >= 400 && e.StatusCode < 500 }
func (e *APIError) IsServerError() bool { return e.StatusCode >= 500 }

// refineMessage walks the known error body shapes; first match wins.
func refineMessage(body gjson.Result, fallback string) string {
	if !body.IsObject() {
		return fallback
	}
	if msg := stringish(body.Get("__error__")); msg != "" {
		return msg
	}
	if msg := stringish(body.Get("message")); msg != "" {
		return msg
	}
	if msg := body.Get(`ui.messages.#(type=="error").text`).String(); msg != "" {
		return msg
	}
	var nodeMsg string
	body.Get("ui.nodes").ForEach(func(_, node gjson.Result) bool {
		nodeMsg = node.Get(`messages.#(type=="error").text`).String()
		return nodeMsg == ""
	})
	if nodeMsg != "" {
		return nodeMsg
	}
	return fallback
}

// stringish accepts a string field, an object carrying a message, or a list
// whose first element is either.
func stringish(r gjson.Result) string {
	switch {
	case r.Type == gjson.String:
		return r.String()
	case r.IsObject():
		return r.Get("message").String()
	case r.IsArray():
		return stringish(r.Get("0"))
	default:
		return ""
	}
}

func defaultErrorMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return fmt.Sprintf("request failed: %d %s", status, text)
	}
	return fmt.Sprintf("request failed: %d", status)
}

// Resolve returns the enriched form of err when it carries an HTTP failure.
func Resolve(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Resolve(), true
	}
	return nil, false
}

// IsAbort reports whether err is a call ended by its context.
func IsAbort(err error) bool {
	var te *TransportError
	return errors.As(err, &te) && te.IsAbort()
}

// UserMessage derives a human-readable message for toasts and CLI output.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := Resolve(err); ok {
		return apiErr.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		if te.IsAbort() {
			return "request was cancelled"
		}
		return "network error: the service could not be reached"
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return "unexpected response from the service"
	}
	return err.Error()
}
