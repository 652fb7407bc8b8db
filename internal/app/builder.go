package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Charlesbasis/portfolio-app/internal/aggregate"
	"github.com/Charlesbasis/portfolio-app/internal/auth/blacklist"
	"github.com/Charlesbasis/portfolio-app/internal/auth/password"
	"github.com/Charlesbasis/portfolio-app/internal/auth/token"
	"github.com/Charlesbasis/portfolio-app/internal/config"
	"github.com/Charlesbasis/portfolio-app/internal/content"
	"github.com/Charlesbasis/portfolio-app/internal/domain"
	redisx "github.com/Charlesbasis/portfolio-app/internal/infra/cache/redis"
	"github.com/Charlesbasis/portfolio-app/internal/infra/database"
	s3storage "github.com/Charlesbasis/portfolio-app/internal/infra/storage/s3"
	"github.com/Charlesbasis/portfolio-app/internal/slug"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web"
)

type App struct {
	config *config.Config
	server *web.Server
	log    *zap.Logger
	cache  *redisx.Cache
	repo   *database.Repo
}

func Build(ctx context.Context) (*App, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}

	root, err := newLogger(cfg.AppEnv)
	if err != nil {
		return nil, fmt.Errorf("failed init logger: %w", err)
	}
	base := root.Named("app")
	base.Info("configuration", zap.Stringer("config", cfg))

	base.Info("init database", zap.String("driver", cfg.DBDriver))
	repo, err := openDB(ctx, cfg, base.Named(cfg.DBDriver))
	if err != nil {
		return nil, fmt.Errorf("failed init %s: %w", cfg.DBDriver, err)
	}
	base.Info("database is initialized")

	base.Info("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, base.Named("redis"))
	if err := rc.Ping(ctx); err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Info("Redis is initialized")

	// S3 необязателен: без него медиа отвечают 503
	var storage domain.BlobStorage
	if cfg.MediaEnabled() {
		base.Info("init S3 storage")
		s3, err := s3storage.New(ctx, s3storage.Config{
			Endpoint:      cfg.S3Endpoint,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			UseSSL:        cfg.S3UseSSL,
			PathStyle:     cfg.S3PathStyle,
			PublicBaseURL: cfg.MediaBaseURL,
		}, base.Named("s3"))
		if err != nil {
			repo.Close()
			rc.Close()
			return nil, fmt.Errorf("failed init s3: %w", err)
		}
		if err := s3.EnsureBucket(ctx, cfg.S3Region); err != nil {
			base.Warn("bucket check failed, media may be unavailable", zap.Error(err))
		}
		storage = s3
	} else {
		base.Info("S3 is not configured, media disabled")
	}

	authDeps := web.AuthDeps{
		Hasher:    password.NewDefault(),
		Tokens:    token.New(cfg.JWTSecret, cfg.Issuer, cfg.TokenTTL),
		Blacklist: blacklist.NewStore(rc),
	}

	base.Info("init Server")
	deps := NewDeps(base, cfg, repo, rc, storage, authDeps)
	server := web.NewServer(base.Named("server"), cfg.AppPort, web.NewRouter(deps))
	base.Info("Server is initialized")

	return &App{
		config: cfg,
		server: server,
		log:    base,
		cache:  rc,
		repo:   repo,
	}, nil
}

// NewDeps связывает сервисы предметной области с хранилищами.
// Вынесено из Build, чтобы сквозные тесты собирали тот же граф.
func NewDeps(
	log *zap.Logger,
	cfg *config.Config,
	repo *database.Repo,
	cache *redisx.Cache,
	storage domain.BlobStorage,
	auth web.AuthDeps,
) web.Deps {
	contentLog := log.Named("content")
	inv := content.NewInvalidator(cache, contentLog)
	slugs := slug.NewGenerator()

	svc := web.Services{
		Projects:     content.NewService[domain.Project]("projects", repo.Projects(), slugs, inv, contentLog),
		Testimonials: content.NewService[domain.Testimonial]("testimonials", repo.Testimonials(), slugs, inv, contentLog),
		Services:     content.NewService[domain.Service]("services", repo.Services(), slugs, inv, contentLog),
		Skills:       content.NewService[domain.Skill]("skills", repo.Skills(), slugs, inv, contentLog),
	}

	views := aggregate.New(aggregate.Sources{
		Projects:     svc.Projects,
		Testimonials: svc.Testimonials,
		Services:     svc.Services,
		Skills:       svc.Skills,
		Messages:     repo,
		Users:        repo,
	}, cache, cfg.StatsTTL, cfg.PortfolioTTL, log.Named("views"))

	return web.Deps{
		Log:      log,
		Users:    repo,
		Messages: repo,
		Content:  svc,
		Views:    views,
		Inv:      inv,
		Auth:     auth,
		Limits: web.Limits{
			AuthPerMin:    cfg.AuthRatePerMin,
			ContactPerMin: cfg.ContactRatePerMin,
			MediaMaxBytes: cfg.MediaMaxBytes,
			JSONMaxBytes:  cfg.JSONMaxBytes,
		},
		Storage: storage,
		DB:      repo,
		Cache:   cache,
	}
}

func openDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*database.Repo, error) {
	if cfg.DBDriver == config.DriverSQLite {
		return database.NewSQLite(ctx, log, cfg.SQLitePath)
	}
	return database.NewPostgres(ctx, log, cfg.GetDSN())
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "prod" || env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// Run обслуживает запросы до отмены ctx, затем даёт серверу 5 секунд на остановку.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("start application", zap.String("addr", a.server.Addr()))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(a.server.Run)
	g.Go(func() error {
		<-gctx.Done()
		a.log.Info("stop application")
		stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		a.server.Close(stopCtx)
		return nil
	})
	err := g.Wait()

	a.repo.Close()
	a.cache.Close()
	_ = a.log.Sync()
	return err
}
