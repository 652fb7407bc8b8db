// Package resource содержит CRUD-хендлеры контентных ресурсов
// (projects, testimonials, services, skills) поверх content.Service.
package resource

import (
	"go.uber.org/zap"

	"github.com/Charlesbasis/portfolio-app/internal/content"
	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

// Handler[T, PT, C, U]: C — тело создания, U — тело частичного обновления.
type Handler[T any, PT content.RecordPtr[T], C any, U any] struct {
	Log     *zap.Logger
	Service *content.Service[T, PT]
	// Noun: для сообщений ответа ("Project created successfully")
	Noun string
	// Build собирает новую запись из валидного ввода
	Build func(C) T
	// Apply переносит заданные поля ввода в запись
	Apply func(*T, U)
}

func NewProjects(svc *content.Service[domain.Project, *domain.Project], log *zap.Logger) *Handler[domain.Project, *domain.Project, projectCreate, projectUpdate] {
	return &Handler[domain.Project, *domain.Project, projectCreate, projectUpdate]{
		Log: log, Service: svc, Noun: "Project", Build: buildProject, Apply: applyProject,
	}
}

func NewTestimonials(svc *content.Service[domain.Testimonial, *domain.Testimonial], log *zap.Logger) *Handler[domain.Testimonial, *domain.Testimonial, testimonialCreate, testimonialUpdate] {
	return &Handler[domain.Testimonial, *domain.Testimonial, testimonialCreate, testimonialUpdate]{
		Log: log, Service: svc, Noun: "Testimonial", Build: buildTestimonial, Apply: applyTestimonial,
	}
}

func NewServices(svc *content.Service[domain.Service, *domain.Service], log *zap.Logger) *Handler[domain.Service, *domain.Service, serviceCreate, serviceUpdate] {
	return &Handler[domain.Service, *domain.Service, serviceCreate, serviceUpdate]{
		Log: log, Service: svc, Noun: "Service", Build: buildService, Apply: applyService,
	}
}

func NewSkills(svc *content.Service[domain.Skill, *domain.Skill], log *zap.Logger) *Handler[domain.Skill, *domain.Skill, skillCreate, skillUpdate] {
	return &Handler[domain.Skill, *domain.Skill, skillCreate, skillUpdate]{
		Log: log, Service: svc, Noun: "Skill", Build: buildSkill, Apply: applySkill,
	}
}

func (h *Handler[T, PT, C, U]) op(action string) string {
	return h.Service.Name() + "." + action
}
