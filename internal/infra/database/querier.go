package database

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
)

// querier: общее подмножество pgxpool.Pool и *sql.DB, которым пользуются репозитории.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
	QueryRow(ctx context.Context, sql string, args ...any) rowScanner
	Query(ctx context.Context, sql string, args ...any) (rowsIter, error)
	Ping(ctx context.Context) error
	Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

type rowsIter interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// ---- pgx ----

type pgxQuerier struct{ pool *pgxpool.Pool }

func (q pgxQuerier) Exec(ctx context.Context, sqlStr string, args ...any) (int64, error) {
	tag, err := q.pool.Exec(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (q pgxQuerier) QueryRow(ctx context.Context, sqlStr string, args ...any) rowScanner {
	return q.pool.QueryRow(ctx, sqlStr, args...)
}

func (q pgxQuerier) Query(ctx context.Context, sqlStr string, args ...any) (rowsIter, error) {
	rows, err := q.pool.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (q pgxQuerier) Ping(ctx context.Context) error { return q.pool.Ping(ctx) }
func (q pgxQuerier) Close()                         { q.pool.Close() }

// ---- database/sql (SQLite) ----

type sqlQuerier struct{ db *sql.DB }

func (q sqlQuerier) Exec(ctx context.Context, sqlStr string, args ...any) (int64, error) {
	res, err := q.db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q sqlQuerier) QueryRow(ctx context.Context, sqlStr string, args ...any) rowScanner {
	return q.db.QueryRowContext(ctx, sqlStr, args...)
}

func (q sqlQuerier) Query(ctx context.Context, sqlStr string, args ...any) (rowsIter, error) {
	rows, err := q.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows}, nil
}

func (q sqlQuerier) Ping(ctx context.Context) error { return q.db.PingContext(ctx) }
func (q sqlQuerier) Close()                         { _ = q.db.Close() }

type sqlRows struct{ *sql.Rows }

func (r sqlRows) Close() { _ = r.Rows.Close() }
