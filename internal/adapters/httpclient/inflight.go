package httpclient

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DedupMode selects how concurrent identical calls are recognised.
type DedupMode int

const (
	// DedupByRequest keys on method, full URL (query included) and body hash.
	DedupByRequest DedupMode = iota
	// DedupByPath keys on method and the path argument only. Concurrent calls
	// to one path with different bodies or params share a single result.
	DedupByPath
	// DedupOff sends every call.
	DedupOff
)

func (m DedupMode) String() string {
	switch m {
	case DedupByRequest:
		return "request"
	case DedupByPath:
		return "path"
	case DedupOff:
		return "off"
	default:
		return "unknown"
	}
}

// ParseDedupMode maps a config string to a DedupMode.
func ParseDedupMode(s string) (DedupMode, bool) {
	switch s {
	case "", "request":
		return DedupByRequest, true
	case "path":
		return DedupByPath, true
	case "off":
		return DedupOff, true
	default:
		return DedupByRequest, false
	}
}

// dedupKey returns "" when the call must not be deduplicated. In request
// mode caller-supplied headers take part in the key, so calls carrying
// different idempotency keys never collapse.
func dedupKey(mode DedupMode, method, path, target string, body []byte, headers ...http.Header) string {
	switch mode {
	case DedupByPath:
		return method + "-" + path
	case DedupByRequest:
		key := method + "-" + target
		if len(body) > 0 {
			sum := sha256.Sum256(body)
			key += "#" + hex.EncodeToString(sum[:])
		}
		if h := headerDigest(headers...); h != "" {
			key += "@" + h
		}
		return key
	default:
		return ""
	}
}

func headerDigest(sets ...http.Header) string {
	var lines []string
	for i, h := range sets {
		for k, vs := range h {
			lines = append(lines, fmt.Sprintf("%d:%s=%s", i, http.CanonicalHeaderKey(k), strings.Join(vs, ",")))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	sort.Strings(lines)
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

// inflight collapses concurrent calls sharing a key into one execution.
// Entries live only while someone waits; nothing is cached afterwards.
type inflight struct {
	g singleflight.Group

	mu      sync.Mutex
	flights map[string]*flight
}

// flight is the cancellation scope of the shared call for one key. It is
// cancelled once the last waiting caller leaves.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

func (f *inflight) join(ctx context.Context, key string) *flight {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.flights == nil {
		f.flights = make(map[string]*flight)
	}
	fl, ok := f.flights[key]
	if !ok {
		callCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		fl = &flight{ctx: callCtx, cancel: cancel}
		f.flights[key] = fl
	}
	fl.waiters++
	return fl
}

func (f *inflight) leave(key string, fl *flight) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl.waiters--
	if fl.waiters > 0 {
		return
	}
	fl.cancel()
	if f.flights[key] == fl {
		delete(f.flights, key)
		// A call still unwinding from cancellation must not be joined.
		f.g.Forget(key)
	}
}

// do runs fn once per key among concurrent callers. shared is true for
// callers that joined a call started by someone else. A caller whose ctx
// ends stops waiting; the call keeps running while anyone else waits and
// is cancelled when nobody does.
func (f *inflight) do(ctx context.Context, key string, fn func(ctx context.Context) (*Response, error)) (resp *Response, shared bool, err error) {
	fl := f.join(ctx, key)
	defer f.leave(key, fl)

	leader := false
	ch := f.g.DoChan(key, func() (any, error) {
		leader = true
		return fn(fl.ctx)
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, !leader, res.Err
		}
		r, _ := res.Val.(*Response)
		return r, !leader, nil
	case <-ctx.Done():
		return nil, false, ctx.Err()
	}
}
