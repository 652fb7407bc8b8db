package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

const (
	defaultListLimit = 100
	maxListLimit     = 500
)

var baseColumns = []string{"id", "owner_id", "slug", "category", "status", "sort_order", "created_at", "updated_at"}

type recordPtr[T any] interface {
	*T
	domain.Record
}

// table описывает собственные колонки модели поверх baseColumns.
type table[T any] struct {
	name    string
	columns []string
	values  func(*T) []any
	dest    func(*T) []any
}

// ContentRepo: реализация domain.ContentRepo[T] для одной таблицы.
type ContentRepo[T any, PT recordPtr[T]] struct {
	r *Repo
	t table[T]
}

func newContentRepo[T any, PT recordPtr[T]](r *Repo, t table[T]) *ContentRepo[T, PT] {
	return &ContentRepo[T, PT]{r: r, t: t}
}

func (c *ContentRepo[T, PT]) columns() []string {
	cols := make([]string, 0, len(baseColumns)+len(c.t.columns))
	cols = append(cols, baseColumns...)
	return append(cols, c.t.columns...)
}

func (c *ContentRepo[T, PT]) Insert(ctx context.Context, rec *T) error {
	op := c.t.name + ".Insert"
	m := PT(rec).GetMeta()
	vals := append([]any{
		m.ID, m.OwnerID, nullString(m.Slug), m.Category, string(m.Status), m.SortOrder,
		c.r.ts(m.CreatedAt), c.r.ts(m.UpdatedAt),
	}, c.t.values(rec)...)

	q := c.r.qb().Insert(c.t.name).Columns(c.columns()...).Values(vals...)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: build: %w", op, err)
	}
	c.r.logSQL(op, sqlStr, args)

	start := time.Now()
	if _, err := c.r.db.Exec(ctx, sqlStr, args...); err != nil {
		c.r.logger.Warn("exec error", zap.String("op", op), zap.Duration("took", time.Since(start)), zap.Error(err))
		return c.writeErr(op, m.Slug, err)
	}
	c.r.logger.Debug("insert ok", zap.String("op", op), zap.Duration("took", time.Since(start)), zap.Stringer("id", m.ID))
	return nil
}

func (c *ContentRepo[T, PT]) Update(ctx context.Context, rec *T) error {
	op := c.t.name + ".Update"
	m := PT(rec).GetMeta()

	set := map[string]any{
		"slug":       nullString(m.Slug),
		"category":   m.Category,
		"status":     string(m.Status),
		"sort_order": m.SortOrder,
		"updated_at": c.r.ts(m.UpdatedAt),
	}
	for i, v := range c.t.values(rec) {
		set[c.t.columns[i]] = v
	}

	q := c.r.qb().Update(c.t.name).SetMap(set).
		Where(sq.Eq{"id": m.ID, "owner_id": m.OwnerID})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: build: %w", op, err)
	}
	c.r.logSQL(op, sqlStr, args)

	start := time.Now()
	n, err := c.r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		c.r.logger.Warn("exec error", zap.String("op", op), zap.Duration("took", time.Since(start)), zap.Error(err))
		return c.writeErr(op, m.Slug, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	c.r.logger.Debug("update ok", zap.String("op", op), zap.Duration("took", time.Since(start)), zap.Stringer("id", m.ID))
	return nil
}

func (c *ContentRepo[T, PT]) Delete(ctx context.Context, id domain.RecordID, owner domain.UserID) error {
	op := c.t.name + ".Delete"
	q := c.r.qb().Delete(c.t.name).Where(sq.Eq{"id": id, "owner_id": owner})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("%s: build: %w", op, err)
	}
	c.r.logSQL(op, sqlStr, args)

	start := time.Now()
	n, err := c.r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		c.r.logger.Warn("exec error", zap.String("op", op), zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		// чужая или несуществующая запись выглядят одинаково
		return domain.ErrNotFound
	}
	c.r.logger.Debug("delete ok", zap.String("op", op), zap.Duration("took", time.Since(start)))
	return nil
}

func (c *ContentRepo[T, PT]) ByID(ctx context.Context, id domain.RecordID) (T, error) {
	return c.one(ctx, c.t.name+".ByID", sq.Eq{"id": id})
}

func (c *ContentRepo[T, PT]) BySlug(ctx context.Context, slug string) (T, error) {
	return c.one(ctx, c.t.name+".BySlug", sq.Eq{"slug": slug})
}

func (c *ContentRepo[T, PT]) one(ctx context.Context, op string, where sq.Sqlizer) (T, error) {
	var zero T
	q := c.r.qb().Select(c.columns()...).From(c.t.name).Where(where).Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return zero, fmt.Errorf("%s: build: %w", op, err)
	}
	c.r.logSQL(op, sqlStr, args)

	rec, err := c.scan(c.r.db.QueryRow(ctx, sqlStr, args...))
	if err != nil {
		if isNoRows(err) {
			return zero, domain.ErrNotFound
		}
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

func (c *ContentRepo[T, PT]) List(ctx context.Context, f domain.ListFilter) ([]T, error) {
	op := c.t.name + ".List"
	sb := c.r.qb().Select(c.columns()...).From(c.t.name)

	if f.Viewer == nil {
		sb = sb.Where(sq.Eq{"status": string(domain.StatusPublished)})
	} else {
		sb = sb.Where(sq.Or{
			sq.Eq{"status": string(domain.StatusPublished)},
			sq.Eq{"owner_id": *f.Viewer},
		})
	}
	if f.Status != "" {
		sb = sb.Where(sq.Eq{"status": string(f.Status)})
	}
	if f.Category != "" {
		sb = sb.Where(sq.Eq{"category": f.Category})
	}
	if f.OwnerID != nil {
		sb = sb.Where(sq.Eq{"owner_id": *f.OwnerID})
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	sb = sb.OrderBy("sort_order ASC", "created_at ASC").Limit(uint64(limit))

	sqlStr, args, err := sb.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: build: %w", op, err)
	}
	c.r.logSQL(op, sqlStr, args)

	start := time.Now()
	rows, err := c.r.db.Query(ctx, sqlStr, args...)
	if err != nil {
		c.r.logger.Warn("query error", zap.String("op", op), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]T, 0, 16)
	for rows.Next() {
		rec, err := c.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}
	c.r.logger.Debug("list ok", zap.String("op", op), zap.Duration("took", time.Since(start)), zap.Int("count", len(out)))
	return out, nil
}

func (c *ContentRepo[T, PT]) SlugExists(ctx context.Context, slug string, except domain.RecordID) (bool, error) {
	op := c.t.name + ".SlugExists"
	q := c.r.qb().Select("1").From(c.t.name).
		Where(sq.Eq{"slug": slug}).
		Where(sq.NotEq{"id": except}).
		Limit(1)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: build: %w", op, err)
	}
	c.r.logSQL(op, sqlStr, args)

	var one int
	if err := c.r.db.QueryRow(ctx, sqlStr, args...).Scan(&one); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

func (c *ContentRepo[T, PT]) CountByOwner(ctx context.Context, owner domain.UserID) (domain.ResourceCounts, error) {
	op := c.t.name + ".CountByOwner"
	q := c.r.qb().
		Select("COUNT(*)", "COALESCE(SUM(CASE WHEN status = 'published' THEN 1 ELSE 0 END), 0)").
		From(c.t.name).
		Where(sq.Eq{"owner_id": owner})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.ResourceCounts{}, fmt.Errorf("%s: build: %w", op, err)
	}
	c.r.logSQL(op, sqlStr, args)

	var total, published int64
	if err := c.r.db.QueryRow(ctx, sqlStr, args...).Scan(&total, &published); err != nil {
		return domain.ResourceCounts{}, fmt.Errorf("%s: %w", op, err)
	}
	return domain.ResourceCounts{Total: int(total), Published: int(published)}, nil
}

func (c *ContentRepo[T, PT]) scan(row rowScanner) (T, error) {
	var (
		rec              T
		slug             sql.NullString
		created, updated sqlTime
	)
	m := PT(&rec).GetMeta()
	dest := append([]any{
		&m.ID, &m.OwnerID, &slug, &m.Category, &m.Status, &m.SortOrder, &created, &updated,
	}, c.t.dest(&rec)...)
	if err := row.Scan(dest...); err != nil {
		var zero T
		return zero, err
	}
	m.Slug = slug.String
	m.CreatedAt, m.UpdatedAt = created.Time, updated.Time
	return rec, nil
}

func (c *ContentRepo[T, PT]) writeErr(op, slug string, err error) error {
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: slug %q: %w", op, slug, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}
