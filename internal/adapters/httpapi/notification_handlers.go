package httpapi

import (
	"net/http"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/adapters/httpapi/wire"
	"github.com/webdevelop-pro/invest-common-sub001/internal/app/portal"
	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

func (s *Server) ListNotifications(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	page, limit, err := pageParams(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	items, total, err := s.Portal.ListNotifications(r.Context(), sub, page, limit)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]wire.Notification, 0, len(items))
	for _, n := range items {
		out = append(out, notificationToWire(n))
	}
	setTotalCount(w, total)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	id, err := pathParam(r, "notificationId")
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var body wire.MarkNotificationRequest
	if err := decodeJSON(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}
	if body.Status != "" && body.Status != string(domain.NotificationStatusRead) {
		s.fail(w, r, &portal.Error{
			Status:  http.StatusBadRequest,
			Code:    portal.CodeValidation,
			Message: "notifications can only be marked read",
			Details: map[string]any{"status": "must be \"read\""},
		})
		return
	}

	var at *time.Time
	if body.ReadAt.IsSpecified() && !body.ReadAt.IsNull() {
		if v, err := body.ReadAt.Get(); err == nil {
			at = &v
		}
	}
	n, err := s.Portal.MarkNotificationRead(r.Context(), sub, domain.NotificationID(id), at)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, notificationToWire(n))
}

func (s *Server) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	n, err := s.Portal.MarkAllNotificationsRead(r.Context(), sub)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.MarkAllReadResponse{Updated: n})
}

func (s *Server) UnreadCount(w http.ResponseWriter, r *http.Request) {
	sub, _ := SubjectFromContext(r.Context())
	n, err := s.Portal.UnreadCount(r.Context(), sub)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, wire.UnreadCountResponse{Count: n})
}

func notificationToWire(n domain.Notification) wire.Notification {
	return wire.Notification{
		ID:        string(n.ID),
		Type:      string(n.Type),
		Status:    string(n.Status),
		Content:   n.Content,
		Data:      n.Data,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}
