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

var userColumns = []string{
	"id", "name", "email", "pass_hash", "headline", "bio", "location", "website",
	"avatar_url", "socials", "onboarding_completed", "created_at", "updated_at",
}

func (r *Repo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	const op = "CreateUser"
	now := time.Now().UTC().Truncate(time.Microsecond)
	u.ID = uuid.New()
	u.CreatedAt, u.UpdatedAt = now, now
	if u.Socials == nil {
		u.Socials = domain.StringMap{}
	}

	q := r.qb().Insert("users").Columns(userColumns...).Values(
		u.ID, u.Name, u.Email, u.PassHash, u.Headline, u.Bio, u.Location, u.Website,
		u.AvatarURL, u.Socials, u.OnboardingCompleted, r.ts(u.CreatedAt), r.ts(u.UpdatedAt),
	)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: build: %w", op, err)
	}
	r.logSQL(op, sqlStr, args)

	start := time.Now()
	if _, err := r.db.Exec(ctx, sqlStr, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailTaken
		}
		r.logger.Warn("exec error", zap.String("op", op), zap.Duration("took", time.Since(start)), zap.Error(err))
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	r.logger.Info("user created", zap.Duration("took", time.Since(start)), zap.Stringer("id", u.ID))
	return u, nil
}

func (r *Repo) UserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.userWhere(ctx, "UserByEmail", sq.Eq{"email": email})
}

func (r *Repo) UserByID(ctx context.Context, id domain.UserID) (domain.User, error) {
	return r.userWhere(ctx, "UserByID", sq.Eq{"id": id})
}

// UpdateProfile перезаписывает редактируемые поля профиля и флаг онбординга.
func (r *Repo) UpdateProfile(ctx context.Context, u domain.User) (domain.User, error) {
	const op = "UpdateProfile"
	u.UpdatedAt = time.Now().UTC().Truncate(time.Microsecond)
	if u.Socials == nil {
		u.Socials = domain.StringMap{}
	}

	q := r.qb().Update("users").SetMap(map[string]any{
		"name":                 u.Name,
		"headline":             u.Headline,
		"bio":                  u.Bio,
		"location":             u.Location,
		"website":              u.Website,
		"avatar_url":           u.AvatarURL,
		"socials":              u.Socials,
		"onboarding_completed": u.OnboardingCompleted,
		"updated_at":           r.ts(u.UpdatedAt),
	}).Where(sq.Eq{"id": u.ID})
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: build: %w", op, err)
	}
	r.logSQL(op, sqlStr, args)

	n, err := r.db.Exec(ctx, sqlStr, args...)
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.UserByID(ctx, u.ID)
}

func (r *Repo) userWhere(ctx context.Context, op string, where sq.Eq) (domain.User, error) {
	q := r.qb().Select(userColumns...).From("users").Where(where)
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return domain.User{}, fmt.Errorf("%s: build: %w", op, err)
	}
	r.logSQL(op, sqlStr, args)

	start := time.Now()
	var (
		u                domain.User
		created, updated sqlTime
	)
	err = r.db.QueryRow(ctx, sqlStr, args...).Scan(
		&u.ID, &u.Name, &u.Email, &u.PassHash, &u.Headline, &u.Bio, &u.Location, &u.Website,
		&u.AvatarURL, &u.Socials, &u.OnboardingCompleted, &created, &updated,
	)
	if err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrNotFound
		}
		r.logger.Warn("scan error", zap.String("op", op), zap.Duration("took", time.Since(start)), zap.Error(err))
		return domain.User{}, fmt.Errorf("%s: %w", op, err)
	}
	u.CreatedAt, u.UpdatedAt = created.Time, updated.Time
	return u, nil
}
