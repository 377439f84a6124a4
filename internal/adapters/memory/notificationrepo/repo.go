package notificationrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notificationrepo"
)

// Repo is an in-memory implementation of notificationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu sync.RWMutex

	byID      map[domain.NotificationID]domain.Notification
	bySubject map[domain.SubjectID][]domain.NotificationID
}

func NewRepo() *Repo {
	return &Repo{
		byID:      make(map[domain.NotificationID]domain.Notification),
		bySubject: make(map[domain.SubjectID][]domain.NotificationID),
	}
}

func (r *Repo) Create(ctx context.Context, n domain.Notification) error {
	_ = ctx
	if n.ID == "" {
		return notificationrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[n.ID]; ok {
		return notificationrepo.ErrAlreadyExists
	}
	r.byID[n.ID] = cloneNotification(n)
	r.bySubject[n.Subject] = append(r.bySubject[n.Subject], n.ID)
	return nil
}

func (r *Repo) Get(ctx context.Context, subject domain.SubjectID, id domain.NotificationID) (domain.Notification, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.byID[id]
	if !ok || n.Subject != subject {
		return domain.Notification{}, notificationrepo.ErrNotFound
	}
	return cloneNotification(n), nil
}

func (r *Repo) List(ctx context.Context, subject domain.SubjectID, page notificationrepo.Page) ([]domain.Notification, int, error) {
	_ = ctx
	r.mu.RLock()
	all := make([]domain.Notification, 0, len(r.bySubject[subject]))
	for _, id := range r.bySubject[subject] {
		all = append(all, cloneNotification(r.byID[id]))
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return window(all, page.Offset, page.Limit), len(all), nil
}

func (r *Repo) MarkRead(ctx context.Context, subject domain.SubjectID, id domain.NotificationID, at time.Time) (domain.Notification, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.byID[id]
	if !ok || n.Subject != subject {
		return domain.Notification{}, notificationrepo.ErrNotFound
	}
	if n.IsUnread() {
		t := at.UTC()
		n.Status = domain.NotificationStatusRead
		n.ReadAt = &t
		r.byID[id] = n
	}
	return cloneNotification(n), nil
}

func (r *Repo) MarkAllRead(ctx context.Context, subject domain.SubjectID, at time.Time) (int, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	changed := 0
	for _, id := range r.bySubject[subject] {
		n := r.byID[id]
		if !n.IsUnread() {
			continue
		}
		t := at.UTC()
		n.Status = domain.NotificationStatusRead
		n.ReadAt = &t
		r.byID[id] = n
		changed++
	}
	return changed, nil
}

func (r *Repo) CountUnread(ctx context.Context, subject domain.SubjectID) (int, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, id := range r.bySubject[subject] {
		if r.byID[id].IsUnread() {
			count++
		}
	}
	return count, nil
}

func window[T any](all []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []T{}
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}

func cloneNotification(n domain.Notification) domain.Notification {
	out := n
	if n.Data != nil {
		out.Data = make(map[string]any, len(n.Data))
		for k, v := range n.Data {
			out.Data[k] = v
		}
	}
	if n.ReadAt != nil {
		t := *n.ReadAt
		out.ReadAt = &t
	}
	return out
}
