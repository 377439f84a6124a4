package notificationrepo

import (
	"context"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

// Page is a window over a subject's notifications, newest first.
type Page struct {
	Offset int
	Limit  int
}

// Repository stores notifications per subject.
//
// List returns notifications ordered by CreatedAt descending (ties broken by ID)
// together with the subject's total count, which backs x-total-count.
type Repository interface {
	Create(ctx context.Context, n domain.Notification) error
	Get(ctx context.Context, subject domain.SubjectID, id domain.NotificationID) (domain.Notification, error)
	List(ctx context.Context, subject domain.SubjectID, page Page) ([]domain.Notification, int, error)

	MarkRead(ctx context.Context, subject domain.SubjectID, id domain.NotificationID, at time.Time) (domain.Notification, error)
	// MarkAllRead returns the number of notifications that changed state.
	MarkAllRead(ctx context.Context, subject domain.SubjectID, at time.Time) (int, error)
	CountUnread(ctx context.Context, subject domain.SubjectID) (int, error)
}
