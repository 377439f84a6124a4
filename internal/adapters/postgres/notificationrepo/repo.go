package notificationrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/webdevelop-pro/invest-common-sub001/internal/adapters/postgres"
	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
	"github.com/webdevelop-pro/invest-common-sub001/internal/ports/out/notificationrepo"
)

// Repo is a Postgres implementation of notificationrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectColumns = `id, subject, type, status, content, data, created_at, read_at`

func (r *Repo) Create(ctx context.Context, n domain.Notification) error {
	if r.pool == nil {
		return postgres.ErrNilPool
	}
	id, err := uuid.Parse(string(n.ID))
	if err != nil {
		return fmt.Errorf("invalid notification id: %w", err)
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (id, subject, type, status, content, data, created_at, read_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		id,
		string(n.Subject),
		string(n.Type),
		string(n.Status),
		n.Content,
		n.Data,
		n.CreatedAt.UTC(),
		utcPtr(n.ReadAt),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return notificationrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, subject domain.SubjectID, id domain.NotificationID) (domain.Notification, error) {
	if r.pool == nil {
		return domain.Notification{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Notification{}, notificationrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM notifications WHERE id = $1 AND subject = $2`, uid, string(subject))
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Notification{}, notificationrepo.ErrNotFound
	}
	return n, err
}

func (r *Repo) List(ctx context.Context, subject domain.SubjectID, page notificationrepo.Page) ([]domain.Notification, int, error) {
	if r.pool == nil {
		return nil, 0, postgres.ErrNilPool
	}
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM notifications WHERE subject = $1`, string(subject)).Scan(&total); err != nil {
		return nil, 0, err
	}

	// LIMIT NULL means no limit.
	var limit *int
	if page.Limit > 0 {
		limit = &page.Limit
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+selectColumns+`
		FROM notifications
		WHERE subject = $1
		ORDER BY created_at DESC, id ASC
		LIMIT $2 OFFSET $3
	`, string(subject), limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := make([]domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, n)
	}
	return out, total, rows.Err()
}

func (r *Repo) MarkRead(ctx context.Context, subject domain.SubjectID, id domain.NotificationID, at time.Time) (domain.Notification, error) {
	if r.pool == nil {
		return domain.Notification{}, postgres.ErrNilPool
	}
	uid, err := uuid.Parse(string(id))
	if err != nil {
		return domain.Notification{}, notificationrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `
		UPDATE notifications
		SET status = $3, read_at = COALESCE(read_at, $4)
		WHERE id = $1 AND subject = $2
		RETURNING `+selectColumns,
		uid, string(subject), string(domain.NotificationStatusRead), at.UTC(),
	)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Notification{}, notificationrepo.ErrNotFound
	}
	return n, err
}

func (r *Repo) MarkAllRead(ctx context.Context, subject domain.SubjectID, at time.Time) (int, error) {
	if r.pool == nil {
		return 0, postgres.ErrNilPool
	}
	tag, err := r.pool.Exec(ctx, `
		UPDATE notifications
		SET status = $2, read_at = $3
		WHERE subject = $1 AND status = $4
	`, string(subject), string(domain.NotificationStatusRead), at.UTC(), string(domain.NotificationStatusUnread))
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *Repo) CountUnread(ctx context.Context, subject domain.SubjectID) (int, error) {
	if r.pool == nil {
		return 0, postgres.ErrNilPool
	}
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT count(*) FROM notifications WHERE subject = $1 AND status = $2
	`, string(subject), string(domain.NotificationStatusUnread)).Scan(&n)
	return n, err
}

func scanNotification(row pgx.Row) (domain.Notification, error) {
	var (
		n                    domain.Notification
		id                   uuid.UUID
		subject, typ, status string
		readAt               *time.Time
	)
	if err := row.Scan(&id, &subject, &typ, &status, &n.Content, &n.Data, &n.CreatedAt, &readAt); err != nil {
		return domain.Notification{}, err
	}
	n.ID = domain.NotificationID(id.String())
	n.Subject = domain.SubjectID(subject)
	n.Type = domain.NotificationType(typ)
	n.Status = domain.NotificationStatus(status)
	n.CreatedAt = n.CreatedAt.UTC()
	n.ReadAt = utcPtr(readAt)
	return n, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
