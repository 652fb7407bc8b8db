// Package aggregate собирает кешируемые представления владельца:
// статистику дашборда и публичное портфолио.
package aggregate

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

type ContentSource[T any] interface {
	List(ctx context.Context, f domain.ListFilter) ([]T, error)
	Counts(ctx context.Context, owner domain.UserID) (domain.ResourceCounts, error)
}

type MessageCounter interface {
	CountMessages(ctx context.Context, recipient domain.UserID) (total, unread int, err error)
}

type ProfileSource interface {
	UserByID(ctx context.Context, id domain.UserID) (domain.User, error)
}

type Sources struct {
	Projects     ContentSource[domain.Project]
	Testimonials ContentSource[domain.Testimonial]
	Services     ContentSource[domain.Service]
	Skills       ContentSource[domain.Skill]
	Messages     MessageCounter
	Users        ProfileSource
}

// Cache: то, что нужно от кеша; nil допустим (всегда считаем заново).
// SetTagged пишет, только если поколение тега всё ещё gen.
type Cache interface {
	Generation(ctx context.Context, tag string) (int64, error)
	Get(ctx context.Context, key string) ([]byte, bool, error)
	SetTagged(ctx context.Context, key, tag string, gen int64, val []byte, ttl time.Duration) (bool, error)
}

type Views struct {
	src          Sources
	cache        Cache
	statsTTL     time.Duration
	portfolioTTL time.Duration
	log          *zap.Logger
	sf           singleflight.Group
	now          func() time.Time
}

func New(src Sources, cache Cache, statsTTL, portfolioTTL time.Duration, log *zap.Logger) *Views {
	if log == nil {
		log = zap.NewNop()
	}
	return &Views{
		src:          src,
		cache:        cache,
		statsTTL:     statsTTL,
		portfolioTTL: portfolioTTL,
		log:          log,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (v *Views) DashboardStats(ctx context.Context, owner domain.UserID) (domain.DashboardStats, error) {
	return readThrough(ctx, v, domain.CacheKeyDashboardStats(owner), owner, v.statsTTL, v.computeStats)
}

func (v *Views) Portfolio(ctx context.Context, owner domain.UserID) (domain.Portfolio, error) {
	return readThrough(ctx, v, domain.CacheKeyPortfolio(owner), owner, v.portfolioTTL, v.computePortfolio)
}

func (v *Views) computeStats(ctx context.Context, owner domain.UserID) (domain.DashboardStats, error) {
	var out domain.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { out.Projects, err = v.src.Projects.Counts(gctx, owner); return })
	g.Go(func() (err error) { out.Testimonials, err = v.src.Testimonials.Counts(gctx, owner); return })
	g.Go(func() (err error) { out.Services, err = v.src.Services.Counts(gctx, owner); return })
	g.Go(func() (err error) { out.Skills, err = v.src.Skills.Counts(gctx, owner); return })
	g.Go(func() (err error) {
		out.Messages, out.UnreadMessages, err = v.src.Messages.CountMessages(gctx, owner)
		return
	})

	if err := g.Wait(); err != nil {
		return domain.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	out.GeneratedAt = v.now()
	return out, nil
}

func (v *Views) computePortfolio(ctx context.Context, owner domain.UserID) (domain.Portfolio, error) {
	profile, err := v.src.Users.UserByID(ctx, owner)
	if err != nil {
		return domain.Portfolio{}, err
	}
	profile.Email = "" // публичная страница, контакт только через форму

	out := domain.Portfolio{Profile: profile}
	// nil Viewer — только опубликованное
	f := domain.ListFilter{OwnerID: &owner}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { out.Projects, err = v.src.Projects.List(gctx, f); return })
	g.Go(func() (err error) { out.Testimonials, err = v.src.Testimonials.List(gctx, f); return })
	g.Go(func() (err error) { out.Services, err = v.src.Services.List(gctx, f); return })
	g.Go(func() (err error) { out.Skills, err = v.src.Skills.List(gctx, f); return })

	if err := g.Wait(); err != nil {
		return domain.Portfolio{}, fmt.Errorf("portfolio: %w", err)
	}
	out.GeneratedAt = v.now()
	return out, nil
}

// readThrough: кеш, иначе один расчёт на ключ и поколение тега владельца.
// Поколение читается до расчёта: запрос после инвалидации не присоединится
// к расчёту, начатому до неё, а такой расчёт не перезапишет кеш.
// Без кеша или при его ошибке считаем напрямую, без объединения.
func readThrough[T any](
	ctx context.Context,
	v *Views,
	key string,
	owner domain.UserID,
	ttl time.Duration,
	compute func(context.Context, domain.UserID) (T, error),
) (T, error) {
	var zero T
	log := v.log.With(zap.String("key", key))
	if v.cache == nil {
		return compute(ctx, owner)
	}

	tag := domain.CacheTagOwner(owner)
	gen, err := v.cache.Generation(ctx, tag)
	if err != nil {
		log.Warn("cache generation failed, computing uncached", zap.Error(err))
		return compute(ctx, owner)
	}

	b, ok, err := v.cache.Get(ctx, key)
	switch {
	case err != nil:
		log.Warn("cache get failed", zap.Error(err))
	case ok:
		var cached T
		uerr := json.Unmarshal(b, &cached)
		if uerr == nil {
			log.Debug("cache hit")
			return cached, nil
		}
		log.Warn("cache entry corrupted, recomputing", zap.Error(uerr))
	}

	sfKey := key + "@" + strconv.FormatInt(gen, 10)
	res, err, shared := v.sf.Do(sfKey, func() (any, error) {
		// расчёт общий для всех ждущих: отмена одного запроса не должна ронять остальных
		cctx := context.WithoutCancel(ctx)
		val, err := compute(cctx, owner)
		if err != nil {
			return nil, err
		}
		if b, err := json.Marshal(val); err != nil {
			log.Warn("cache marshal failed", zap.Error(err))
		} else if _, err := v.cache.SetTagged(cctx, key, tag, gen, b, ttl); err != nil {
			log.Warn("cache set failed", zap.Error(err))
		}
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	log.Debug("computed", zap.Bool("shared", shared), zap.Int64("gen", gen))
	return res.(T), nil
}
