// Package content реализует CRUD контентных записей: slug перед записью,
// инвалидация кеша владельца после неё.
package content

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/slug"
)

// RecordPtr: *T, реализующий domain.Record.
type RecordPtr[T any] interface {
	*T
	domain.Record
}

type Service[T any, PT RecordPtr[T]] struct {
	name  string
	repo  domain.ContentRepo[T]
	slugs *slug.Generator
	inv   *Invalidator
	log   *zap.Logger
	now   func() time.Time
}

func NewService[T any, PT RecordPtr[T]](
	name string,
	repo domain.ContentRepo[T],
	slugs *slug.Generator,
	inv *Invalidator,
	log *zap.Logger,
) *Service[T, PT] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service[T, PT]{
		name:  name,
		repo:  repo,
		slugs: slugs,
		inv:   inv,
		log:   log.With(zap.String("resource", name)),
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

func (s *Service[T, PT]) Name() string { return s.name }

// Create сохраняет новую запись владельца owner.
// Владелец, id и даты всегда выставляются здесь, не из ввода.
func (s *Service[T, PT]) Create(ctx context.Context, owner domain.UserID, rec *T) error {
	p := PT(rec)
	m := p.GetMeta()
	now := s.now()
	m.ID = uuid.New()
	m.OwnerID = owner
	m.CreatedAt, m.UpdatedAt = now, now
	normalizeMeta(m)

	generated, err := s.prepareSlug(ctx, p, uuid.Nil, true)
	if err != nil {
		return err
	}

	err = s.repo.Insert(ctx, rec)
	if err != nil && errors.Is(err, domain.ErrConflict) {
		if err = s.retrySlug(ctx, p, generated, err); err == nil {
			err = s.repo.Insert(ctx, rec)
		}
	}
	if err != nil {
		return s.finalErr("insert", err)
	}

	s.log.Info("record created", zap.Stringer("id", m.ID), zap.String("slug", m.Slug))
	s.inv.Invalidate(ctx, owner)
	return nil
}

// Update загружает запись владельца, применяет mutate и сохраняет.
// slug пересчитывается, только если заголовок сменился и slug пуст.
func (s *Service[T, PT]) Update(ctx context.Context, owner domain.UserID, id domain.RecordID, mutate func(*T)) (T, error) {
	cur, err := s.repo.ByID(ctx, id)
	if err != nil {
		return cur, err
	}
	p := PT(&cur)
	m := p.GetMeta()
	if m.OwnerID != owner {
		var zero T
		return zero, domain.ErrNotFound
	}

	oldSrc, _ := p.SlugSource()
	oldSlug := m.Slug
	keep := *m

	mutate(&cur)

	// неизменяемые поля
	m.ID, m.OwnerID, m.CreatedAt = keep.ID, keep.OwnerID, keep.CreatedAt
	m.UpdatedAt = s.now()
	normalizeMeta(m)

	generated := false
	if newSrc, ok := p.SlugSource(); ok {
		if m.Slug != oldSlug {
			// slug задан вручную
			m.Slug = slug.Make(m.Slug)
			if m.Slug != "" && m.Slug != oldSlug {
				if err := s.checkHumanSlug(ctx, m.Slug, m.ID); err != nil {
					var zero T
					return zero, err
				}
			}
		}
		if m.Slug == "" && newSrc != oldSrc {
			if m.Slug, err = s.slugs.Unique(ctx, newSrc, s.exists(m.ID)); err != nil {
				var zero T
				return zero, err
			}
			generated = true
		}
	} else {
		m.Slug = ""
	}

	err = s.repo.Update(ctx, &cur)
	if err != nil && errors.Is(err, domain.ErrConflict) {
		if err = s.retrySlug(ctx, p, generated, err); err == nil {
			err = s.repo.Update(ctx, &cur)
		}
	}
	if err != nil {
		var zero T
		return zero, s.finalErr("update", err)
	}

	s.log.Info("record updated", zap.Stringer("id", m.ID), zap.String("slug", m.Slug))
	s.inv.Invalidate(ctx, owner)
	return cur, nil
}

func (s *Service[T, PT]) Delete(ctx context.Context, owner domain.UserID, id domain.RecordID) error {
	if err := s.repo.Delete(ctx, id, owner); err != nil {
		return err
	}
	s.log.Info("record deleted", zap.Stringer("id", id))
	s.inv.Invalidate(ctx, owner)
	return nil
}

// Get ищет по id или по slug. Черновики видны только владельцу.
func (s *Service[T, PT]) Get(ctx context.Context, key string, viewer *domain.UserID) (T, error) {
	var (
		rec T
		err error
	)
	if id, perr := uuid.Parse(key); perr == nil {
		rec, err = s.repo.ByID(ctx, id)
	} else {
		rec, err = s.repo.BySlug(ctx, key)
	}
	if err != nil {
		return rec, err
	}
	m := PT(&rec).GetMeta()
	if m.Status != domain.StatusPublished && (viewer == nil || *viewer != m.OwnerID) {
		var zero T
		return zero, domain.ErrNotFound
	}
	return rec, nil
}

func (s *Service[T, PT]) List(ctx context.Context, f domain.ListFilter) ([]T, error) {
	return s.repo.List(ctx, f)
}

func (s *Service[T, PT]) Counts(ctx context.Context, owner domain.UserID) (domain.ResourceCounts, error) {
	return s.repo.CountByOwner(ctx, owner)
}

// prepareSlug выставляет slug перед первой записью.
// Возвращает true, если slug сгенерирован (а не задан человеком).
func (s *Service[T, PT]) prepareSlug(ctx context.Context, p PT, except domain.RecordID, creating bool) (bool, error) {
	m := p.GetMeta()
	src, ok := p.SlugSource()
	if !ok {
		m.Slug = ""
		return false, nil
	}
	if m.Slug != "" {
		m.Slug = slug.Make(m.Slug)
	}
	if m.Slug != "" {
		return false, s.checkHumanSlug(ctx, m.Slug, except)
	}
	if !creating {
		return false, nil
	}
	var err error
	m.Slug, err = s.slugs.Unique(ctx, src, s.exists(except))
	return true, err
}

// retrySlug: гонка «проверили, потом вставили»: пересчитываем slug один раз.
func (s *Service[T, PT]) retrySlug(ctx context.Context, p PT, generated bool, cause error) error {
	m := p.GetMeta()
	if !generated {
		return slugTaken()
	}
	src, _ := p.SlugSource()
	s.log.Warn("slug conflict, regenerating", zap.String("slug", m.Slug), zap.Error(cause))
	next, err := s.slugs.Unique(ctx, src, s.exists(m.ID))
	if err != nil {
		return err
	}
	m.Slug = next
	return nil
}

func (s *Service[T, PT]) checkHumanSlug(ctx context.Context, candidate string, except domain.RecordID) error {
	taken, err := s.repo.SlugExists(ctx, candidate, except)
	if err != nil {
		return fmt.Errorf("%s: slug lookup: %w", s.name, err)
	}
	if taken {
		return slugTaken()
	}
	return nil
}

func (s *Service[T, PT]) exists(except domain.RecordID) slug.Exists {
	return func(ctx context.Context, candidate string) (bool, error) {
		return s.repo.SlugExists(ctx, candidate, except)
	}
}

func (s *Service[T, PT]) finalErr(op string, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s %s: %w", s.name, op, err)
}

func slugTaken() error {
	return domain.FieldError("slug", "The slug has already been taken.")
}

func normalizeMeta(m *domain.Meta) {
	if m.Category == "" {
		m.Category = domain.DefaultCategory
	}
	if m.Status == "" {
		m.Status = domain.StatusDraft
	}
}
