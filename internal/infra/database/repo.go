package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ---- Репозиторий поверх Postgres (pgxpool) или SQLite (database/sql) + golang-migrate ----

type Dialect int

const (
	Postgres Dialect = iota
	SQLite
)

func (d Dialect) String() string {
	if d == SQLite {
		return "sqlite"
	}
	return "postgres"
}

// фиксированная ширина, чтобы ORDER BY по TEXT совпадал с хронологией
const sqliteTimeLayout = "2006-01-02 15:04:05.000000"

type Repo struct {
	logger  *zap.Logger
	db      querier
	dialect Dialect
}

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var EmbeddedMigrations embed.FS

func NewPostgres(ctx context.Context, logger *zap.Logger, dsn string) (*Repo, error) {
	// Миграции через pgx/stdlib: отдельный *sql.DB, не пул
	if err := runMigrations(logger, Postgres, "pgx", dsn); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	logger.Info("initializing pgxpool")
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	logger.Info("pgxpool initialized")

	return &Repo{logger: logger, db: pgxQuerier{pool: pool}, dialect: Postgres}, nil
}

// SQLiteDSN: путь к файлу с нужными pragma.
func SQLiteDSN(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func NewSQLite(ctx context.Context, logger *zap.Logger, path string) (*Repo, error) {
	dsn := SQLiteDSN(path)
	if err := runMigrations(logger, SQLite, "sqlite", dsn); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// один писатель: SQLite не любит параллельные записи
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	logger.Info("sqlite opened", zap.String("path", path))

	return &Repo{logger: logger, db: sqlQuerier{db: db}, dialect: SQLite}, nil
}

func (r *Repo) Dialect() Dialect { return r.dialect }

func (r *Repo) Close() {
	r.logger.Info("closing database")
	r.db.Close()
	r.logger.Info("database closed")
}

func (r *Repo) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		r.logger.Warn("ping failed", zap.Error(err))
		return err
	}
	return nil
}

// ---- Миграции через golang-migrate ----

func runMigrations(logger *zap.Logger, d Dialect, driverName, dsn string) error {
	sqldb, err := sql.Open(driverName, dsn)
	if err != nil {
		return fmt.Errorf("sql.Open %s: %w", driverName, err)
	}
	defer sqldb.Close()

	var driver database.Driver
	switch d {
	case SQLite:
		driver, err = migratesqlite.WithInstance(sqldb, &migratesqlite.Config{})
	default:
		driver, err = migratepg.WithInstance(sqldb, &migratepg.Config{})
	}
	if err != nil {
		return fmt.Errorf("%s driver: %w", d, err)
	}

	src, err := iofs.New(EmbeddedMigrations, "migrations/"+d.String())
	if err != nil {
		return fmt.Errorf("iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, d.String(), driver)
	if err != nil {
		return fmt.Errorf("migrate.New: %w", err)
	}
	defer m.Close()

	logger.Info("applying migrations", zap.Stringer("dialect", d))
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Info("no new migrations to apply")
			return nil
		}
		return fmt.Errorf("apply migrations: %w", err)
	}
	logger.Info("migrations applied successfully")
	return nil
}

// ---- Хелперы ----

func (r *Repo) qb() sq.StatementBuilderType {
	if r.dialect == SQLite {
		return sq.StatementBuilder.PlaceholderFormat(sq.Question)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

func (r *Repo) logSQL(op, sqlStr string, args []any) {
	r.logger.Debug("sql", zap.String("op", op), zap.String("query", sqlStr), zap.Int("args", len(args)))
}

// ts: значение времени для параметра запроса
func (r *Repo) ts(t time.Time) any {
	if r.dialect == SQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t
}

// sqlTime принимает time.Time (pgx) или строку (SQLite).
type sqlTime struct{ Time time.Time }

func (t *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		t.Time = time.Time{}
		return nil
	case time.Time:
		t.Time = v.UTC()
		return nil
	case []byte:
		return t.parse(string(v))
	case string:
		return t.parse(v)
	default:
		return fmt.Errorf("unsupported time source %T", src)
	}
}

func (t *sqlTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v.UTC()
			return nil
		}
	}
	return fmt.Errorf("bad time %q", s)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		code := sqlErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			(code&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqlErr.Error(), "UNIQUE"))
	}
	return false
}
