package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawError(status int, body string) *HTTPError {
	resp := &http.Response{
		StatusCode: status,
		Status:     fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
	return newHTTPError("default message", time.Unix(0, 0), resp, []byte(body), HTTPContext{Method: "GET", URL: "https://api.test/x", Path: "/x"})
}

func TestHTTPError_Resolve_MessagePrecedence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{name: "message", body: `{"message":"X"}`, want: "X"},
		{name: "__error__ wins over message", body: `{"__error__":"Y","message":"X"}`, want: "Y"},
		{name: "__error__ object", body: `{"__error__":{"message":"Y2"},"message":"X"}`, want: "Y2"},
		{name: "__error__ list", body: `{"__error__":["first","second"]}`, want: "first"},
		{name: "empty __error__ list", body: `{"__error__":[],"message":"X"}`, want: "X"},
		{name: "ui.messages error", body: `{"ui":{"messages":[{"type":"info","text":"hi"},{"type":"error","text":"Z"}]}}`, want: "Z"},
		{name: "message wins over ui", body: `{"message":"X","ui":{"messages":[{"type":"error","text":"Z"}]}}`, want: "X"},
		{name: "ui.nodes error", body: `{"ui":{"nodes":[{"messages":[]},{"messages":[{"type":"info","text":"i"},{"type":"error","text":"N"}]}]}}`, want: "N"},
		{name: "ui.messages before ui.nodes", body: `{"ui":{"messages":[{"type":"error","text":"Z"}],"nodes":[{"messages":[{"type":"error","text":"N"}]}]}}`, want: "Z"},
		{name: "no known field", body: `{"code":42}`, want: "default message"},
		{name: "array body", body: `[1,2]`, want: "default message"},
		{name: "empty message falls through", body: `{"message":""}`, want: "default message"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			apiErr := rawError(http.StatusBadRequest, tc.body).Resolve()
			assert.Equal(t, tc.want, apiErr.Message)
			assert.Equal(t, "default message", apiErr.OriginalMessage)
			assert.NotNil(t, apiErr.ResponseJSON)
		})
	}
}

func TestHTTPError_Resolve_InvalidJSON(t *testing.T) {
	t.Parallel()

	for _, body := range []string{"", "not json", `{"message":`} {
		apiErr := rawError(http.StatusInternalServerError, body).Resolve()
		assert.Nil(t, apiErr.ResponseJSON, body)
		assert.Equal(t, "default message", apiErr.Message, body)
		assert.True(t, apiErr.IsServerError())
	}
}

func TestHTTPError_SynchronousFieldsAndImmutability(t *testing.T) {
	t.Parallel()

	he := rawError(http.StatusNotFound, `{"message":"no such wallet"}`)
	assert.Equal(t, "default message", he.Message)
	assert.Equal(t, http.StatusNotFound, he.StatusCode)
	assert.Equal(t, time.Unix(0, 0), he.Timestamp)
	assert.Equal(t, "application/json", he.Header.Get("Content-Type"))

	first := he.Resolve()
	second := he.Resolve()
	assert.Equal(t, "no such wallet", first.Message)
	assert.Equal(t, first.Message, second.Message)
	assert.NotSame(t, first, second)
	assert.Equal(t, "default message", he.Message)
}

func TestHTTPError_Classification(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status       int
		client, serv bool
	}{
		{399, false, false},
		{400, true, false},
		{499, true, false},
		{500, false, true},
		{503, false, true},
	}
	for _, tc := range cases {
		he := rawError(tc.status, "")
		assert.Equal(t, tc.client, he.IsClientError(), tc.status)
		assert.Equal(t, tc.serv, he.IsServerError(), tc.status)
		apiErr := he.Resolve()
		assert.Equal(t, tc.client, apiErr.IsClientError(), tc.status)
		assert.Equal(t, tc.serv, apiErr.IsServerError(), tc.status)
	}
}

func TestResolveAndUnwrap(t *testing.T) {
	t.Parallel()

	he := rawError(http.StatusConflict, `{"message":"already exists"}`)
	wrapped := fmt.Errorf("wallet store: %w", he)

	apiErr, ok := Resolve(wrapped)
	require.True(t, ok)
	assert.Equal(t, "already exists", apiErr.Message)

	var back *HTTPError
	require.True(t, errors.As(apiErr, &back))
	assert.Same(t, he, back)

	again, ok := Resolve(apiErr)
	require.True(t, ok)
	assert.Same(t, apiErr, again)

	_, ok = Resolve(errors.New("plain"))
	assert.False(t, ok)

	assert.Nil(t, (&APIError{}).Unwrap())
}

func TestUserMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "Z", UserMessage(rawError(400, `{"ui":{"messages":[{"type":"error","text":"Z"}]}}`)))
	assert.Equal(t, "request was cancelled", UserMessage(&TransportError{Err: context.Canceled}))
	assert.Equal(t, "request was cancelled", UserMessage(&TransportError{Err: context.DeadlineExceeded}))
	assert.Equal(t, "unexpected response from the service", UserMessage(&DecodeError{Type: TypeJSON}))
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
}

func TestIsAbort(t *testing.T) {
	t.Parallel()

	assert.True(t, IsAbort(fmt.Errorf("list: %w", &TransportError{Err: context.Canceled})))
	assert.False(t, IsAbort(&TransportError{Err: errors.New("connection refused")}))
	assert.False(t, IsAbort(rawError(500, "")))
	assert.False(t, IsAbort(nil))
}
