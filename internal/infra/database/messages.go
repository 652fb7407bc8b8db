package database

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

var messageColumns = []string{"id", "recipient_id", "name", "email", "subject", "message", "is_read", "created_at"}

func (r *Repo) CreateMessage(ctx context.Context, m domain.ContactMessage) (domain.ContactMessage, error) {
	const op = "CreateMessage"
	m.ID = uuid.New()
	m.Read = false
	m.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)

	q := r.qb().Insert("contact_messages").Columns(messageColumns...).Values(
		m.ID, m.RecipientID, m.Name, m.Email, m.Subject, m.Message, m.Read, r.ts(m.CreatedAt),
	)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.ContactMessage{}, fmt.Errorf("%s: build: %w", op, err)
	}
	r.logSQL(op, sqlStr, args)

	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		r.logger.Warn("exec error", zap.String("op", op), zap.Error(err))
		return domain.ContactMessage{}, fmt.Errorf("%s: %w", op, err)
	}
	r.logger.Info("message stored", zap.Stringer("id", m.ID), zap.Stringer("recipient", m.RecipientID))
	return m, nil
}

// ListMessages: входящие получателя, новые сверху.
func (r *Repo) ListMessages(ctx context.Context, recipient domain.UserID, unreadOnly bool) ([]domain.ContactMessage, error) {
	const op = "ListMessages"
	sb := r.qb().Select(messageColumns...).From("contact_messages").
		Where(sq.Eq{"recipient_id": recipient})
	if unreadOnly {
		sb = sb.Where(sq.Eq{"is_read": false})
	}
	sb = sb.OrderBy("created_at DESC").Limit(maxListLimit)

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}
	r.logSQL(op, sqlStr, args)

	rows, err := r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]domain.ContactMessage, 0, 16)
	for rows.Next() {
		var (
			m       domain.ContactMessage
			created sqlTime
		)
		if err := rows.Scan(&m.ID, &m.RecipientID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.Read, &created); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		m.CreatedAt = created.Time
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	return out, nil
}

func (r *Repo) MarkRead(ctx context.Context, id domain.RecordID, recipient domain.UserID) error {
	q := r.qb().Update("contact_messages").Set("is_read", true).
		Where(sq.Eq{"id": id, "recipient_id": recipient})
	return r.execOne(ctx, "MarkRead", q)
}

func (r *Repo) DeleteMessage(ctx context.Context, id domain.RecordID, recipient domain.UserID) error {
	q := r.qb().Delete("contact_messages").Where(sq.Eq{"id": id, "recipient_id": recipient})
	return r.execOne(ctx, "DeleteMessage", q)
}

func (r *Repo) CountMessages(ctx context.Context, recipient domain.UserID) (int, int, error) {
	const op = "CountMessages"
	q := r.qb().
		Select("COUNT(*)", "COALESCE(SUM(CASE WHEN is_read THEN 0 ELSE 1 END), 0)").
		From("contact_messages").
		Where(sq.Eq{"recipient_id": recipient})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: build: %w", op, err)
	}
	r.logSQL(op, sqlStr, args)

	var total, unread int64
	if err := r.db.QueryRow(ctx, sqlStr, args...).Scan(&total, &unread); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(total), int(unread), nil
}

// execOne: запрос, который должен затронуть ровно одну строку получателя.
func (r *Repo) execOne(ctx context.Context, op string, q sq.Sqlizer) error {
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: build: %w", op, err)
	}
	r.logSQL(op, sqlStr, args)

	n, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
