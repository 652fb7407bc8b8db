package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/Charlesbasis/portfolio-app/internal/docs"
	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/mw"
	v1 "github.com/Charlesbasis/portfolio-app/internal/transport/web/v1"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/auth"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/contact"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/dashboard"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/health"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/media"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/profile"
	"github.com/Charlesbasis/portfolio-app/internal/transport/web/v1/resource"
)

// crud: хендлеры одного контентного ресурса
type crud interface {
	List(http.ResponseWriter, *http.Request)
	Get(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Update(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
}

// NewRouter собирает все маршруты API.
func NewRouter(d Deps) http.Handler {
	log := d.Log

	authMW := mw.AuthDeps{Tokens: d.Auth.Tokens, Blacklist: d.Auth.Blacklist, Log: log.Named("auth")}
	optional := mw.OptionalAuth(authMW)
	required := mw.RequireAuth(authMW)
	onboarded := mw.RequireOnboarded(d.Users, log.Named("onboarding"))
	authLimit := mw.NewThrottle(d.Limits.AuthPerMin)
	contactLimit := mw.NewThrottle(d.Limits.ContactPerMin)

	hh := &health.Handler{Log: log.Named("health"), DB: d.DB, Cache: d.Cache}
	if d.Storage != nil {
		hh.Storage = d.Storage
	}
	register := &auth.HandlerRegister{Log: log.Named("auth"), Users: d.Users, Hasher: d.Auth.Hasher, Tokens: d.Auth.Tokens}
	login := &auth.HandlerLogin{Log: log.Named("auth"), Users: d.Users, Hasher: d.Auth.Hasher, Tokens: d.Auth.Tokens}
	logout := &auth.HandlerLogout{Log: log.Named("auth"), Blacklist: d.Auth.Blacklist}
	me := &auth.HandlerMe{Log: log.Named("auth"), Users: d.Users}
	ph := &profile.Handler{Log: log.Named("profile"), Users: d.Users, Inv: d.Inv}
	ch := &contact.Handler{Log: log.Named("contact"), Store: d.Messages, Inv: d.Inv}
	dh := &dashboard.Handler{Log: log.Named("dashboard"), Views: d.Views}
	mh := &media.Handler{Log: log.Named("media"), Storage: d.Storage, MaxBytes: d.Limits.MediaMaxBytes}

	jsonLimit := d.Limits.JSONMaxBytes
	if jsonLimit <= 0 {
		jsonLimit = DefaultJSONMaxBytes
	}

	contentLog := log.Named("content")
	resources := map[string]crud{
		"/projects":     resource.NewProjects(d.Content.Projects, contentLog),
		"/testimonials": resource.NewTestimonials(d.Content.Testimonials, contentLog),
		"/services":     resource.NewServices(d.Content.Services, contentLog),
		"/skills":       resource.NewSkills(d.Content.Skills, contentLog),
	}

	r := chi.NewRouter()
	r.Use(mw.WithRequestID, mw.Logging(log.Named("http")), mw.Recover(log.Named("http")))
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		v1.WriteDomainError(w, r, domain.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		v1.WriteEnvelope(w, r, http.StatusMethodNotAllowed, domain.Fail("Method not allowed."))
	})

	r.Route("/v1", func(r chi.Router) {
		// медиа: multipart со своим пределом в хендлере
		r.With(required).Post("/media", mh.Upload)
		r.With(required).Delete("/media", mh.Delete)

		// остальное: JSON под общим пределом тела, сверх него 413
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequestSize(jsonLimit))

			// health
			r.Get("/healthz", hh.Liveness)
			r.Get("/readyz", hh.Readiness)

			// auth
			r.Route("/auth", func(r chi.Router) {
				r.With(authLimit.Middleware).Post("/register", register.Register)
				r.With(authLimit.Middleware).Post("/login", login.Login)
				r.With(required).Post("/logout", logout.Logout)
				r.With(required).Get("/me", me.Me)
			})

			// профиль доступен и до онбординга
			r.Group(func(r chi.Router) {
				r.Use(required)
				r.Post("/onboarding", ph.Onboarding)
				r.Get("/profile", ph.Get)
				r.Put("/profile", ph.Update)
			})

			// публичное
			r.With(contactLimit.Middleware).Post("/contact", ch.Send)
			r.Get("/portfolio/{user_id}", dh.Portfolio)

			// кабинет владельца
			r.Group(func(r chi.Router) {
				r.Use(required, onboarded)
				r.Get("/messages", ch.List)
				r.Patch("/messages/{id}/read", ch.MarkRead)
				r.Delete("/messages/{id}", ch.Delete)
				r.Get("/dashboard/stats", dh.Stats)
			})

			for path, h := range resources {
				mountResource(r, path, h, optional, required, onboarded)
			}
		})
	})

	// swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// mountResource: чтение открыто всем (черновики видит только владелец),
// запись требует токен и пройденный онбординг.
func mountResource(r chi.Router, path string, h crud, optional func(http.Handler) http.Handler, write ...func(http.Handler) http.Handler) {
	r.Route(path, func(r chi.Router) {
		r.With(optional).Get("/", h.List)
		r.With(optional).Get("/{id}", h.Get)
		r.Group(func(r chi.Router) {
			r.Use(write...)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}
