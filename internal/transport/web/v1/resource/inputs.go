package resource

import "github.com/Charlesbasis/portfolio-app/internal/domain"

// metaInput: общие необязательные поля; id/owner/даты из тела не берутся.
type metaInput struct {
	Slug      *string `json:"slug" validate:"omitnil,max=255"`
	Category  *string `json:"category" validate:"omitnil,max=100"`
	Status    *string `json:"status" validate:"omitnil,status"`
	SortOrder *int    `json:"sort_order" validate:"omitnil,min=0"`
}

func (in metaInput) apply(m *domain.Meta) {
	if in.Slug != nil {
		m.Slug = *in.Slug
	}
	if in.Category != nil {
		m.Category = *in.Category
	}
	if in.Status != nil {
		m.Status = domain.Status(*in.Status)
	}
	if in.SortOrder != nil {
		m.SortOrder = *in.SortOrder
	}
}

func set[V any](dst *V, src *V) {
	if src != nil {
		*dst = *src
	}
}

func setList(dst *domain.StringList, src *[]string) {
	if src != nil {
		*dst = domain.StringList(*src)
	}
}

// --- projects ---

type projectCreate struct {
	metaInput
	Title        string   `json:"title" validate:"required,max=255"`
	Description  string   `json:"description" validate:"required"`
	Features     []string `json:"features" validate:"required,min=1,dive,required,max=255"`
	Technologies []string `json:"technologies" validate:"omitempty,max=50,dive,required,max=100"`
	ImageURL     string   `json:"image_url" validate:"omitempty,url,max=2048"`
	LiveURL      string   `json:"live_url" validate:"omitempty,url,max=2048"`
	RepoURL      string   `json:"repo_url" validate:"omitempty,url,max=2048"`
	Featured     bool     `json:"featured"`
}

type projectUpdate struct {
	metaInput
	Title        *string   `json:"title" validate:"omitnil,min=1,max=255"`
	Description  *string   `json:"description" validate:"omitnil,min=1"`
	Features     *[]string `json:"features" validate:"omitnil,min=1,dive,required,max=255"`
	Technologies *[]string `json:"technologies" validate:"omitnil,max=50,dive,required,max=100"`
	ImageURL     *string   `json:"image_url" validate:"omitnil,url,max=2048"`
	LiveURL      *string   `json:"live_url" validate:"omitnil,url,max=2048"`
	RepoURL      *string   `json:"repo_url" validate:"omitnil,url,max=2048"`
	Featured     *bool     `json:"featured"`
}

func buildProject(in projectCreate) domain.Project {
	p := domain.Project{
		Title:        in.Title,
		Description:  in.Description,
		Features:     in.Features,
		Technologies: in.Technologies,
		ImageURL:     in.ImageURL,
		LiveURL:      in.LiveURL,
		RepoURL:      in.RepoURL,
		Featured:     in.Featured,
	}
	in.metaInput.apply(&p.Meta)
	return p
}

func applyProject(p *domain.Project, in projectUpdate) {
	in.metaInput.apply(&p.Meta)
	set(&p.Title, in.Title)
	set(&p.Description, in.Description)
	setList(&p.Features, in.Features)
	setList(&p.Technologies, in.Technologies)
	set(&p.ImageURL, in.ImageURL)
	set(&p.LiveURL, in.LiveURL)
	set(&p.RepoURL, in.RepoURL)
	set(&p.Featured, in.Featured)
}

// --- testimonials ---

type testimonialCreate struct {
	metaInput
	Name      string `json:"name" validate:"required,max=255"`
	Position  string `json:"position" validate:"max=255"`
	Company   string `json:"company" validate:"max=255"`
	Content   string `json:"content" validate:"required"`
	Rating    *int   `json:"rating" validate:"omitnil,min=1,max=5"`
	AvatarURL string `json:"avatar_url" validate:"omitempty,url,max=2048"`
}

type testimonialUpdate struct {
	metaInput
	Name      *string `json:"name" validate:"omitnil,min=1,max=255"`
	Position  *string `json:"position" validate:"omitnil,max=255"`
	Company   *string `json:"company" validate:"omitnil,max=255"`
	Content   *string `json:"content" validate:"omitnil,min=1"`
	Rating    *int    `json:"rating" validate:"omitnil,min=1,max=5"`
	AvatarURL *string `json:"avatar_url" validate:"omitnil,url,max=2048"`
}

func buildTestimonial(in testimonialCreate) domain.Testimonial {
	t := domain.Testimonial{
		Name:      in.Name,
		Position:  in.Position,
		Company:   in.Company,
		Content:   in.Content,
		Rating:    5,
		AvatarURL: in.AvatarURL,
	}
	set(&t.Rating, in.Rating)
	in.metaInput.apply(&t.Meta)
	return t
}

func applyTestimonial(t *domain.Testimonial, in testimonialUpdate) {
	in.metaInput.apply(&t.Meta)
	set(&t.Name, in.Name)
	set(&t.Position, in.Position)
	set(&t.Company, in.Company)
	set(&t.Content, in.Content)
	set(&t.Rating, in.Rating)
	set(&t.AvatarURL, in.AvatarURL)
}

// --- services ---

type serviceCreate struct {
	metaInput
	Title       string   `json:"title" validate:"required,max=255"`
	Description string   `json:"description" validate:"required"`
	Icon        string   `json:"icon" validate:"max=100"`
	Features    []string `json:"features" validate:"required,min=1,dive,required,max=255"`
	PriceFrom   float64  `json:"price_from" validate:"min=0"`
}

type serviceUpdate struct {
	metaInput
	Title       *string   `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string   `json:"description" validate:"omitnil,min=1"`
	Icon        *string   `json:"icon" validate:"omitnil,max=100"`
	Features    *[]string `json:"features" validate:"omitnil,min=1,dive,required,max=255"`
	PriceFrom   *float64  `json:"price_from" validate:"omitnil,min=0"`
}

func buildService(in serviceCreate) domain.Service {
	s := domain.Service{
		Title:       in.Title,
		Description: in.Description,
		Icon:        in.Icon,
		Features:    in.Features,
		PriceFrom:   in.PriceFrom,
	}
	in.metaInput.apply(&s.Meta)
	return s
}

func applyService(s *domain.Service, in serviceUpdate) {
	in.metaInput.apply(&s.Meta)
	set(&s.Title, in.Title)
	set(&s.Description, in.Description)
	set(&s.Icon, in.Icon)
	setList(&s.Features, in.Features)
	set(&s.PriceFrom, in.PriceFrom)
}

// --- skills (без slug) ---

type skillCreate struct {
	metaInput
	Name            string `json:"name" validate:"required,max=255"`
	Level           *int   `json:"level" validate:"required,min=0,max=100"`
	Icon            string `json:"icon" validate:"max=100"`
	YearsExperience int    `json:"years_experience" validate:"min=0,max=80"`
}

type skillUpdate struct {
	metaInput
	Name            *string `json:"name" validate:"omitnil,min=1,max=255"`
	Level           *int    `json:"level" validate:"omitnil,min=0,max=100"`
	Icon            *string `json:"icon" validate:"omitnil,max=100"`
	YearsExperience *int    `json:"years_experience" validate:"omitnil,min=0,max=80"`
}

func buildSkill(in skillCreate) domain.Skill {
	s := domain.Skill{
		Name:            in.Name,
		Icon:            in.Icon,
		YearsExperience: in.YearsExperience,
	}
	set(&s.Level, in.Level)
	// навыки по умолчанию сразу видны в портфолио
	s.Status = domain.StatusPublished
	in.metaInput.apply(&s.Meta)
	return s
}

func applySkill(s *domain.Skill, in skillUpdate) {
	in.metaInput.apply(&s.Meta)
	set(&s.Name, in.Name)
	set(&s.Level, in.Level)
	set(&s.Icon, in.Icon)
	set(&s.YearsExperience, in.YearsExperience)
}
