package httpclient

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/oapi-codegen/nullable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		base     string
		override string
		path     string
		params   Params
		want     string
	}{
		{name: "relative", base: "https://api.test/wallet", path: "/wallets/1", want: "https://api.test/wallet/wallets/1"},
		{name: "relative without slash", base: "https://api.test/wallet/", path: "wallets", want: "https://api.test/wallet/wallets"},
		{name: "override", base: "https://api.test", override: "https://other.test/v2", path: "/x", want: "https://other.test/v2/x"},
		{name: "absolute ignores base and override", base: "https://api.test", override: "https://other.test", path: "https://cdn.test/doc.pdf", want: "https://cdn.test/doc.pdf"},
		{name: "absolute case-insensitive", base: "https://api.test", path: "HTTP://cdn.test/a", want: "HTTP://cdn.test/a"},
		{name: "params appended", base: "https://api.test", path: "/n", params: Params{"page": 2, "limit": 10}, want: "https://api.test/n?limit=10&page=2"},
		{name: "params merged with existing query", base: "https://api.test", path: "/n?x=1", params: Params{"y": "a b"}, want: "https://api.test/n?x=1&y=a+b"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := resolveURL(tc.base, tc.override, tc.path, tc.params)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestEncodeQuery_SkipsNullish(t *testing.T) {
	t.Parallel()

	var nilInt *int
	n := 7
	q, err := encodeQuery(Params{
		"a":           nil,
		"b":           nilInt,
		"c":           true,
		"d":           false,
		"e":           42,
		"f":           3.5,
		"g":           &n,
		"h":           "x&y",
		"null":        nullable.NewNullNullable[string](),
		"unspecified": nullable.Nullable[string]{},
		"set":         nullable.NewNullableWithValue("on"),
	})
	require.NoError(t, err)

	vals, err := url.ParseQuery(q)
	require.NoError(t, err)
	for _, k := range []string{"a", "b", "null", "unspecified"} {
		_, ok := vals[k]
		assert.Falsef(t, ok, "key %q should be omitted", k)
	}
	assert.Equal(t, "true", vals.Get("c"))
	assert.Equal(t, "false", vals.Get("d"))
	assert.Equal(t, "42", vals.Get("e"))
	assert.Equal(t, "3.5", vals.Get("f"))
	assert.Equal(t, "7", vals.Get("g"))
	assert.Equal(t, "x&y", vals.Get("h"))
	assert.Equal(t, "on", vals.Get("set"))
}

func TestEncodeQuery_Time(t *testing.T) {
	t.Parallel()

	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	q, err := encodeQuery(Params{"since": ts})
	require.NoError(t, err)
	vals, err := url.ParseQuery(q)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00Z", vals.Get("since"))
}

func TestRequestConfig_Validate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		rc      RequestConfig
		wantErr bool
	}{
		{name: "zero", rc: RequestConfig{}},
		{name: "json body", rc: RequestConfig{Body: map[string]int{"a": 1}}},
		{name: "form", rc: RequestConfig{Form: NewFormData().Set("a", "b")}},
		{name: "body and form", rc: RequestConfig{Body: 1, Form: NewFormData()}, wantErr: true},
		{name: "unknown type", rc: RequestConfig{Type: "xml"}, wantErr: true},
		{name: "relative base override", rc: RequestConfig{BaseURL: "/api"}, wantErr: true},
		{name: "absolute base override", rc: RequestConfig{BaseURL: "https://api.test"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.rc.Validate()
			if tc.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidRequest))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResolveType(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TypeJSON, resolveType(TypeAuto, "application/json; charset=utf-8"))
	assert.Equal(t, TypeJSON, resolveType(TypeAuto, "Application/JSON"))
	assert.Equal(t, TypeText, resolveType(TypeAuto, "text/html"))
	assert.Equal(t, TypeText, resolveType(TypeAuto, ""))
	assert.Equal(t, TypeBlob, resolveType(TypeBlob, "application/json"))
	assert.Equal(t, TypeText, resolveType(TypeText, "application/json"))
}

func TestDedupKey(t *testing.T) {
	t.Parallel()

	a := dedupKey(DedupByRequest, "POST", "/t", "https://x/t", []byte(`{"a":1}`))
	b := dedupKey(DedupByRequest, "POST", "/t", "https://x/t", []byte(`{"a":2}`))
	assert.NotEqual(t, a, b)

	q1 := dedupKey(DedupByRequest, "GET", "/t", "https://x/t?page=1", nil)
	q2 := dedupKey(DedupByRequest, "GET", "/t", "https://x/t?page=2", nil)
	assert.NotEqual(t, q1, q2)

	assert.Equal(t, "POST-/t", dedupKey(DedupByPath, "POST", "/t", "https://x/t?z=1", []byte("body")))
	assert.Equal(t, "", dedupKey(DedupOff, "GET", "/t", "https://x/t", nil))
}

func TestDedupKey_CallerHeaders(t *testing.T) {
	t.Parallel()

	body := []byte(`{"amount":10}`)
	k1 := dedupKey(DedupByRequest, "POST", "/fund", "https://x/fund", body, nil, http.Header{"Idempotency-Key": {"k1"}})
	k2 := dedupKey(DedupByRequest, "POST", "/fund", "https://x/fund", body, nil, http.Header{"Idempotency-Key": {"k2"}})
	assert.NotEqual(t, k1, k2)

	same := dedupKey(DedupByRequest, "POST", "/fund", "https://x/fund", body, nil, http.Header{"idempotency-key": {"k1"}})
	assert.Equal(t, k1, same)

	bare := dedupKey(DedupByRequest, "POST", "/fund", "https://x/fund", body)
	assert.Equal(t, bare, dedupKey(DedupByRequest, "POST", "/fund", "https://x/fund", body, nil, http.Header{}))
	assert.NotEqual(t, bare, k1)

	explicit := dedupKey(DedupByRequest, "GET", "/t", "https://x/t", nil, http.Header{"Accept": {"text/csv"}}, nil)
	extra := dedupKey(DedupByRequest, "GET", "/t", "https://x/t", nil, nil, http.Header{"Accept": {"text/csv"}})
	assert.NotEqual(t, explicit, extra)
}

func TestParseDedupMode(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]DedupMode{"": DedupByRequest, "request": DedupByRequest, "path": DedupByPath, "off": DedupOff} {
		got, ok := ParseDedupMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseDedupMode("sometimes")
	assert.False(t, ok)
}
