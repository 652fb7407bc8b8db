package web

import (
	"context"

	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/content"
	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/contact"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/dashboard"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/health"
)

// UserStore: всё, что хендлерам нужно от пользователей.
type UserStore interface {
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)
	UserByEmail(ctx context.Context, email string) (domain.User, error)
	UserByID(ctx context.Context, id domain.UserID) (domain.User, error)
	UpdateProfile(ctx context.Context, u domain.User) (domain.User, error)
}

type Services struct {
	Projects     *content.Service[domain.Project, *domain.Project]
	Testimonials *content.Service[domain.Testimonial, *domain.Testimonial]
	Services     *content.Service[domain.Service, *domain.Service]
	Skills       *content.Service[domain.Skill, *domain.Skill]
}

type AuthDeps struct {
	Hasher    domain.PasswordHasher
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}

type Limits struct {
	AuthPerMin    int
	ContactPerMin int
	MediaMaxBytes int64
	// JSONMaxBytes <= 0: DefaultJSONMaxBytes
	JSONMaxBytes int64
}

const DefaultJSONMaxBytes int64 = 1 << 20

// Deps: зависимости роутера; собираются в app.Build.
type Deps struct {
	Log      *zap.Logger
	Users    UserStore
	Messages contact.Store
	Content  Services
	Views    dashboard.Views
	Inv      *content.Invalidator
	Auth     AuthDeps
	Limits   Limits
	// Storage == nil — медиа отключены
	Storage domain.BlobStorage
	DB      health.Pinger
	Cache   health.Pinger
}
