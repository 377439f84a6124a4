package httpapi

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/idempotency"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

func hashBody(v any) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// idempotent runs handle at most once per (Idempotency-Key, subject, path).
// The key is reserved before handle runs. A retry with the same canonical
// body replays the stored response; a retry with a different body, or one
// arriving while the first is still running, is rejected with 409. Without
// a key, handle runs unconditionally. Only 2xx outcomes are stored; any
// other outcome releases the key.
func (s *Server) idempotent(w http.ResponseWriter, r *http.Request, subject domain.SubjectID, canonical any, handle func() (int, any, error)) {
	key := strings.TrimSpace(r.Header.Get(headerIdempotencyKey))
	if key == "" || s.Idem == nil {
		status, resp, err := handle()
		if err != nil {
			s.fail(w, r, err)
			return
		}
		writeJSON(w, status, resp)
		return
	}

	bodyHash, err := hashBody(canonical)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	fp := idempotency.Fingerprint{
		Key:     idempotency.Key(key),
		Subject: subject,
		Route:   r.Method + " " + r.URL.Path,
	}
	rec, reserved, err := s.Idem.Reserve(r.Context(), fp, idempotency.Record{
		BodyHash:    bodyHash,
		ContentType: "application/json",
		CreatedAt:   s.clk.Now(),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !reserved {
		switch {
		case rec.BodyHash != bodyHash:
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_REUSE", "idempotency key reuse with different payload", nil)
		case rec.Pending():
			writeError(w, r, http.StatusConflict, "IDEMPOTENCY_KEY_IN_PROGRESS", "a request with this idempotency key is still in progress", nil)
		default:
			w.Header().Set("Content-Type", rec.ContentType)
			w.Header().Set(headerReplayed, "true")
			w.WriteHeader(rec.StatusCode)
			_, _ = w.Write(rec.Body)
		}
		return
	}

	status, resp, err := handle()
	if err != nil {
		s.release(r, fp)
		s.fail(w, r, err)
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		s.release(r, fp)
		s.fail(w, r, err)
		return
	}
	b = append(b, '\n')
	if status >= 200 && status < 300 {
		err := s.Idem.Put(r.Context(), fp, idempotency.Record{
			BodyHash:    bodyHash,
			StatusCode:  status,
			ContentType: "application/json",
			Body:        b,
			CreatedAt:   s.clk.Now(),
		})
		if err != nil {
			s.logger.Warn("store idempotency record", zap.String("route", fp.Route), zap.Error(err))
		}
	} else {
		s.release(r, fp)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

// release frees a reservation whose request did not succeed so the client
// can retry with the same key.
func (s *Server) release(r *http.Request, fp idempotency.Fingerprint) {
	if err := s.Idem.Release(context.WithoutCancel(r.Context()), fp); err != nil {
		s.logger.Warn("release idempotency record", zap.String("route", fp.Route), zap.Error(err))
	}
}
