package redisx

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Cache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

type Config struct {
	Addr     string
	DB       int
	Password string
}

func New(cfg Config, logger *zap.Logger) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		DB:       cfg.DB,
		Password: cfg.Password,
	})
	return &Cache{rdb: rdb, logger: logger}
}

// Поколение тега растёт при каждой инвалидации. Запись под тегом проходит,
// только если поколение не сменилось с момента, когда его прочитал вычисляющий.
func genKey(tag string) string { return tag + ":gen" }

// invalidateScript: KEYS[1] тег, KEYS[2] его поколение.
// Удаляет участников и тег и увеличивает поколение одним атомарным шагом.
var invalidateScript = redis.NewScript(`
local members = redis.call('SMEMBERS', KEYS[1])
for i = 1, #members do
	redis.call('DEL', members[i])
end
redis.call('DEL', KEYS[1])
redis.call('INCR', KEYS[2])
return #members
`)

// setTaggedScript: KEYS[1] ключ, KEYS[2] тег, KEYS[3] поколение;
// ARGV[1] ожидаемое поколение, ARGV[2] значение, ARGV[3] ttl в мс.
// Тег живёт не меньше самого долгого участника.
var setTaggedScript = redis.NewScript(`
local cur = tonumber(redis.call('GET', KEYS[3]) or '0')
if cur ~= tonumber(ARGV[1]) then
	return 0
end
local ttl = tonumber(ARGV[3])
redis.call('SET', KEYS[1], ARGV[2], 'PX', ttl)
redis.call('SADD', KEYS[2], KEYS[1])
if redis.call('PTTL', KEYS[2]) < ttl then
	redis.call('PEXPIRE', KEYS[2], ttl)
end
return 1
`)

func (c *Cache) Ping(ctx context.Context) error {
	err := c.rdb.Ping(ctx).Err()
	if err != nil {
		c.logger.Warn("PING failed", zap.Error(err))
	} else {
		c.logger.Debug("PING ok")
	}
	return err
}

func (c *Cache) Close() {
	if c.rdb == nil {
		c.logger.Info("nothing to close")
		return
	}

	if err := c.rdb.Close(); err != nil {
		c.logger.Error("error while closing", zap.Error(err))
		return
	}

	c.logger.Info("closed")
}

// Get возвращает ok=false при промахе.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("GET miss", zap.String("key", key))
		return nil, false, nil
	}
	if err != nil {
		c.logger.Warn("GET failed", zap.String("key", key), zap.Error(err))
		return nil, false, err
	}
	c.logger.Debug("GET hit", zap.String("key", key), zap.Int("bytes", len(b)))
	return b, true, nil
}

// Generation возвращает текущее поколение тега; 0, если тег ещё не сбрасывался.
func (c *Cache) Generation(ctx context.Context, tag string) (int64, error) {
	n, err := c.rdb.Get(ctx, genKey(tag)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		c.logger.Warn("GET generation failed", zap.String("tag", tag), zap.Error(err))
		return 0, err
	}
	return n, nil
}

// SetTagged пишет значение под тегом, если поколение тега всё ещё gen.
// stored=false: тег успели сбросить, значение устарело и не записано.
func (c *Cache) SetTagged(ctx context.Context, key, tag string, gen int64, val []byte, ttl time.Duration) (bool, error) {
	res, err := setTaggedScript.Run(ctx, c.rdb,
		[]string{key, tag, genKey(tag)},
		gen, val, ttl.Milliseconds(),
	).Int64()
	if err != nil {
		c.logger.Warn("SET tagged failed", zap.String("key", key), zap.String("tag", tag), zap.Error(err))
		return false, err
	}
	if res == 0 {
		c.logger.Debug("SET tagged skipped, generation moved", zap.String("key", key), zap.Int64("gen", gen))
		return false, nil
	}
	c.logger.Debug("SET tagged ok", zap.String("key", key), zap.String("tag", tag), zap.Duration("ttl", ttl))
	return true, nil
}

func (c *Cache) InvalidateTag(ctx context.Context, tag string) error {
	n, err := invalidateScript.Run(ctx, c.rdb, []string{tag, genKey(tag)}).Int64()
	if err != nil {
		c.logger.Warn("invalidate tag failed", zap.String("tag", tag), zap.Error(err))
		return err
	}
	c.logger.Debug("tag invalidated", zap.String("tag", tag), zap.Int64("deleted", n))
	return nil
}

// SetNX устанавливает значение только если ключ ещё не существует.
func (c *Cache) SetNX(ctx context.Context, key string, val []byte, ttl time.Duration) (bool, error) {
	ok, err := c.rdb.SetNX(ctx, key, val, ttl).Result()
	if err != nil {
		c.logger.Warn("SETNX failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		c.logger.Debug("SETNX ok", zap.String("key", key), zap.Duration("ttl", ttl))
	} else {
		c.logger.Debug("SETNX skipped (already exists)", zap.String("key", key))
	}
	return ok, err
}

// Exists проверяет наличие ключа.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.rdb.Exists(ctx, key).Result()
	if err != nil {
		c.logger.Warn("EXISTS failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	return n == 1, nil
}
