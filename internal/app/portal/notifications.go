package portal

import (
	"context"
	"errors"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notificationrepo"
)

const maxPageSize = 100

// checkPage validates 1-based page/limit query values.
func checkPage(page, limit int) *Error {
	details := map[string]any{}
	if page < 1 {
		details["page"] = "must be at least 1"
	}
	if limit < 1 || limit > maxPageSize {
		details["limit"] = "must be between 1 and 100"
	}
	if len(details) > 0 {
		return validationError("invalid pagination", details)
	}
	return nil
}

func (s *Service) ListNotifications(ctx context.Context, subject domain.SubjectID, page, limit int) ([]domain.Notification, int, error) {
	if err := checkPage(page, limit); err != nil {
		return nil, 0, err
	}
	return s.notifications.List(ctx, subject, notificationrepo.Page{Offset: (page - 1) * limit, Limit: limit})
}

// MarkNotificationRead marks one notification read at the given time, or now
// when at is nil.
func (s *Service) MarkNotificationRead(ctx context.Context, subject domain.SubjectID, id domain.NotificationID, at *time.Time) (domain.Notification, error) {
	when := s.clk.Now()
	if at != nil {
		when = *at
	}
	n, err := s.notifications.MarkRead(ctx, subject, id, when)
	if errors.Is(err, notificationrepo.ErrNotFound) {
		return domain.Notification{}, notFound("notification")
	}
	return n, err
}

func (s *Service) MarkAllNotificationsRead(ctx context.Context, subject domain.SubjectID) (int, error) {
	return s.notifications.MarkAllRead(ctx, subject, s.clk.Now())
}

func (s *Service) UnreadCount(ctx context.Context, subject domain.SubjectID) (int, error) {
	return s.notifications.CountUnread(ctx, subject)
}

// Publish delivers a new unread notification to subject.
func (s *Service) Publish(ctx context.Context, subject domain.SubjectID, typ domain.NotificationType, content string, data map[string]any) (domain.Notification, error) {
	return s.PublishNotification(ctx, domain.Notification{
		Subject: subject,
		Type:    typ,
		Content: content,
		Data:    data,
	})
}

// PublishNotification stores n, filling in ID, status and creation time when
// unset.
func (s *Service) PublishNotification(ctx context.Context, n domain.Notification) (domain.Notification, error) {
	if n.ID == "" {
		n.ID = domain.NotificationID(s.newID())
	}
	if n.Status == "" {
		n.Status = domain.NotificationStatusUnread
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.clk.Now()
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return domain.Notification{}, err
	}
	return n, nil
}
