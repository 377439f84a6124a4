package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	platformclock "github.com/webdevelop-pro/invest-common-sub001/internal/platform/clock"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/clock"
)

const (
	HeaderRequestID   = "X-Request-ID"
	HeaderTotalCount  = "X-Total-Count"
	defaultMaxBody    = 32 << 20
	contentTypeJSON   = "application/json"
	headerContentType = "Content-Type"
)

var (
	ErrNoBaseURL    = errors.New("httpclient: no base url or origin configured")
	ErrBodyTooLarge = errors.New("httpclient: response body exceeds limit")
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures one service client.
type Config struct {
	// Service names the backend domain, e.g. "wallet". Used in logs and metrics.
	Service string
	// BaseURL is prepended to relative paths. When empty, Origin is used.
	BaseURL string
	Origin  string

	// HTTPClient defaults to an *http.Client using Jar and Timeout.
	HTTPClient Doer
	Jar        http.CookieJar
	Timeout    time.Duration

	UserAgent string
	Referrer  string

	Dedup        DedupMode
	MaxBodyBytes int64

	Clock        clock.Clock
	NewRequestID func() string
	Logger       *zap.Logger
	Metrics      *Metrics
}

// Client executes requests against one backend service. It is safe for
// concurrent use.
type Client struct {
	service   string
	baseURL   string
	doer      Doer
	userAgent string
	referrer  string
	dedup     DedupMode
	maxBody   int64
	clk       clock.Clock
	newID     func() string
	log       *zap.Logger
	metrics   *Metrics

	inflight inflight
}

func New(cfg Config) (*Client, error) {
	base := cfg.BaseURL
	if base == "" {
		base = cfg.Origin
	}
	if base == "" {
		return nil, ErrNoBaseURL
	}
	if err := validateBaseURL(base); err != nil {
		return nil, fmt.Errorf("httpclient: base url: %w", err)
	}

	c := &Client{
		service:   cfg.Service,
		baseURL:   strings.TrimSuffix(base, "/"),
		doer:      cfg.HTTPClient,
		userAgent: cfg.UserAgent,
		referrer:  cfg.Referrer,
		dedup:     cfg.Dedup,
		maxBody:   cfg.MaxBodyBytes,
		clk:       cfg.Clock,
		newID:     cfg.NewRequestID,
		log:       cfg.Logger,
		metrics:   cfg.Metrics,
	}
	if c.service == "" {
		c.service = "default"
	}
	if c.doer == nil {
		c.doer = &http.Client{Jar: cfg.Jar, Timeout: cfg.Timeout}
	}
	if c.maxBody <= 0 {
		c.maxBody = defaultMaxBody
	}
	if c.clk == nil {
		c.clk = platformclock.NewSystemClock()
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.With(zap.String("service", c.service))
	return c, nil
}

// NewCookieJar returns a jar suitable for sharing between service clients so
// session cookies travel with every call.
func NewCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

func (c *Client) BaseURL() string { return c.baseURL }
func (c *Client) Service() string { return c.service }

// Request performs one call. Concurrent calls with the same dedup key share
// a single transport call and its result.
func (c *Client) Request(ctx context.Context, method, path string, rc RequestConfig) (*Response, error) {
	if err := rc.Validate(); err != nil {
		return nil, err
	}
	method = strings.ToUpper(method)
	target, err := resolveURL(c.baseURL, rc.BaseURL, path, rc.Params)
	if err != nil {
		return nil, err
	}
	body, formType, err := encodeBody(rc)
	if err != nil {
		return nil, err
	}

	key := dedupKey(c.dedup, method, path, target, body, rc.Headers, rc.ExtraHeaders)
	if key == "" {
		return c.execute(ctx, method, target, rc, body, formType)
	}

	resp, shared, err := c.inflight.do(ctx, key, func(callCtx context.Context) (*Response, error) {
		return c.execute(callCtx, method, target, rc, body, formType)
	})
	if shared {
		c.metrics.sharedHit(c.service)
		if resp != nil {
			joined := *resp
			joined.Shared = true
			resp = &joined
		}
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) && !isTyped(err) {
			return nil, &TransportError{Context: c.httpContext(method, target), Err: err}
		}
		return nil, err
	}
	return resp, nil
}

func isTyped(err error) bool {
	var (
		te *TransportError
		he *HTTPError
		de *DecodeError
	)
	return errors.As(err, &te) || errors.As(err, &he) || errors.As(err, &de)
}

func encodeBody(rc RequestConfig) ([]byte, string, error) {
	switch {
	case rc.Form != nil:
		b, ct, err := rc.Form.Encode()
		if err != nil {
			return nil, "", fmt.Errorf("%w: encode form: %v", ErrInvalidRequest, err)
		}
		return b, ct, nil
	case rc.Body != nil:
		b, err := json.Marshal(rc.Body)
		if err != nil {
			return nil, "", fmt.Errorf("%w: encode body: %v", ErrInvalidRequest, err)
		}
		return b, "", nil
	default:
		return nil, "", nil
	}
}

func (c *Client) httpContext(method, target string) HTTPContext {
	hc := HTTPContext{
		Method:    method,
		URL:       target,
		UserAgent: c.userAgent,
		Referrer:  c.referrer,
	}
	if u, err := url.Parse(target); err == nil {
		hc.Path = u.Path
		hc.Protocol = u.Scheme + ":"
	}
	return hc
}

func (c *Client) execute(ctx context.Context, method, target string, rc RequestConfig, body []byte, formType string) (*Response, error) {
	hc := c.httpContext(method, target)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	req.Header = c.headers(rc, formType)
	reqID := req.Header.Get(HeaderRequestID)

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.metrics.observe(c.service, method, 0, time.Since(start))
		c.log.Debug("request failed",
			zap.String("request_id", reqID),
			zap.String("method", method),
			zap.String("url", target),
			zap.Error(err),
		)
		return nil, &TransportError{Context: hc, Err: err}
	}
	defer resp.Body.Close()

	raw, err := readBody(resp.Body, c.maxBody)
	elapsed := time.Since(start)
	c.metrics.observe(c.service, method, resp.StatusCode, elapsed)
	if err != nil {
		return nil, &TransportError{Context: hc, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := rc.ErrorMessage
		if msg == "" {
			msg = defaultErrorMessage(resp.StatusCode)
		}
		c.log.Warn("request returned error status",
			zap.String("request_id", reqID),
			zap.String("method", method),
			zap.String("url", target),
			zap.Int("status", resp.StatusCode),
			zap.Duration("duration", elapsed),
		)
		return nil, newHTTPError(msg, c.clk.Now(), resp, raw, hc)
	}

	ct := resp.Header.Get(headerContentType)
	typ := resolveType(rc.Type, ct)
	data, err := decodeBody(typ, ct, raw)
	if err != nil {
		return nil, &DecodeError{Context: hc, Type: typ, Status: resp.StatusCode, Err: err}
	}

	c.log.Debug("request completed",
		zap.String("request_id", reqID),
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", elapsed),
	)
	return &Response{
		Data:    data,
		Status:  resp.StatusCode,
		Headers: resp.Header,
		Type:    typ,
		raw:     raw,
	}, nil
}

// headers builds the outgoing header set. Explicit headers are used as-is,
// without the client's User-Agent or Referer; a multipart body still gets
// its boundary content type.
func (c *Client) headers(rc RequestConfig, formType string) http.Header {
	var h http.Header
	if rc.Headers != nil {
		h = rc.Headers.Clone()
	} else {
		h = make(http.Header)
		h.Set("Accept", contentTypeJSON)
		h.Set(HeaderRequestID, c.newID())
		if formType == "" {
			h.Set(headerContentType, contentTypeJSON)
		}
	}
	if formType != "" && h.Get(headerContentType) == "" {
		h.Set(headerContentType, formType)
	}
	for k, vs := range rc.ExtraHeaders {
		h.Del(k)
		for _, v := range vs {
			h.Add(k, v)
		}
	}
	if rc.Headers != nil {
		return h
	}
	if c.userAgent != "" && h.Get("User-Agent") == "" {
		h.Set("User-Agent", c.userAgent)
	}
	if c.referrer != "" && h.Get("Referer") == "" {
		h.Set("Referer", c.referrer)
	}
	return h
}

func readBody(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrBodyTooLarge
	}
	return b, nil
}
