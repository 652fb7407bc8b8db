package content

import (
	"context"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

// TagInvalidator: минимальный интерфейс, который нам нужен от кеша.
type TagInvalidator interface {
	InvalidateTag(ctx context.Context, tag string) error
}

// Invalidator сбрасывает все кешированные агрегаты владельца.
// Ошибки кеша логируются и не мешают записи.
type Invalidator struct {
	cache TagInvalidator
	log   *zap.Logger
}

func NewInvalidator(cache TagInvalidator, log *zap.Logger) *Invalidator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Invalidator{cache: cache, log: log}
}

func (i *Invalidator) Invalidate(ctx context.Context, owner domain.UserID) {
	if i == nil || i.cache == nil {
		return
	}
	tag := domain.CacheTagOwner(owner)
	if err := i.cache.InvalidateTag(ctx, tag); err != nil {
		i.log.Warn("cache invalidation failed", zap.String("tag", tag), zap.Error(err))
		return
	}
	i.log.Debug("cache invalidated", zap.String("tag", tag))
}
