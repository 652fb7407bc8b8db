package database

import "github.com/Charlesbasis/portfolio-app/internal/domain"

// Порядок в columns, values и dest должен совпадать.

var projectsTable = table[domain.Project]{
	name:    "projects",
	columns: []string{"title", "description", "features", "technologies", "image_url", "live_url", "repo_url", "featured"},
	values: func(p *domain.Project) []any {
		return []any{p.Title, p.Description, p.Features, p.Technologies, p.ImageURL, p.LiveURL, p.RepoURL, p.Featured}
	},
	dest: func(p *domain.Project) []any {
		return []any{&p.Title, &p.Description, &p.Features, &p.Technologies, &p.ImageURL, &p.LiveURL, &p.RepoURL, &p.Featured}
	},
}

var testimonialsTable = table[domain.Testimonial]{
	name:    "testimonials",
	columns: []string{"name", "position", "company", "content", "rating", "avatar_url"},
	values: func(t *domain.Testimonial) []any {
		return []any{t.Name, t.Position, t.Company, t.Content, t.Rating, t.AvatarURL}
	},
	dest: func(t *domain.Testimonial) []any {
		return []any{&t.Name, &t.Position, &t.Company, &t.Content, &t.Rating, &t.AvatarURL}
	},
}

var servicesTable = table[domain.Service]{
	name:    "services",
	columns: []string{"title", "description", "icon", "features", "price_from"},
	values: func(s *domain.Service) []any {
		return []any{s.Title, s.Description, s.Icon, s.Features, s.PriceFrom}
	},
	dest: func(s *domain.Service) []any {
		return []any{&s.Title, &s.Description, &s.Icon, &s.Features, &s.PriceFrom}
	},
}

var skillsTable = table[domain.Skill]{
	name:    "skills",
	columns: []string{"name", "level", "icon", "years_experience"},
	values: func(s *domain.Skill) []any {
		return []any{s.Name, s.Level, s.Icon, s.YearsExperience}
	},
	dest: func(s *domain.Skill) []any {
		return []any{&s.Name, &s.Level, &s.Icon, &s.YearsExperience}
	},
}

func (r *Repo) Projects() *ContentRepo[domain.Project, *domain.Project] {
	return newContentRepo[domain.Project, *domain.Project](r, projectsTable)
}

func (r *Repo) Testimonials() *ContentRepo[domain.Testimonial, *domain.Testimonial] {
	return newContentRepo[domain.Testimonial, *domain.Testimonial](r, testimonialsTable)
}

func (r *Repo) Services() *ContentRepo[domain.Service, *domain.Service] {
	return newContentRepo[domain.Service, *domain.Service](r, servicesTable)
}

func (r *Repo) Skills() *ContentRepo[domain.Skill, *domain.Skill] {
	return newContentRepo[domain.Skill, *domain.Skill](r, skillsTable)
}
