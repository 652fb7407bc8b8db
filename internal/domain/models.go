package domain

import (
	"time"

	"github.com/google/uuid"
)

// Базовые идентификаторы
type UserID = uuid.UUID
type RecordID = uuid.UUID

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

const DefaultCategory = "general"

// Meta: общие поля любой контентной записи (ContentRecord).
type Meta struct {
	ID        RecordID  `json:"id"`
	OwnerID   UserID    `json:"owner_id"`
	Slug      string    `json:"slug,omitempty"`
	Category  string    `json:"category"`
	Status    Status    `json:"status"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Meta) GetMeta() *Meta { return m }

// Record: то, что нужно сервису контента от конкретной модели.
// SlugSource возвращает строку, из которой строится slug; ok=false — модель без slug.
type Record interface {
	GetMeta() *Meta
	SlugSource() (src string, ok bool)
}

type Project struct {
	Meta
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Features     StringList `json:"features"`
	Technologies StringList `json:"technologies"`
	ImageURL     string     `json:"image_url,omitempty"`
	LiveURL      string     `json:"live_url,omitempty"`
	RepoURL      string     `json:"repo_url,omitempty"`
	Featured     bool       `json:"featured"`
}

func (p *Project) SlugSource() (string, bool) { return p.Title, true }

type Testimonial struct {
	Meta
	Name      string `json:"name"`
	Position  string `json:"position,omitempty"`
	Company   string `json:"company,omitempty"`
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// у отзыва «заголовок» — имя автора
func (t *Testimonial) SlugSource() (string, bool) { return t.Name, true }

type Service struct {
	Meta
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Icon        string     `json:"icon,omitempty"`
	Features    StringList `json:"features"`
	PriceFrom   float64    `json:"price_from"`
}

func (s *Service) SlugSource() (string, bool) { return s.Title, true }

type Skill struct {
	Meta
	Name            string `json:"name"`
	Level           int    `json:"level"`
	Icon            string `json:"icon,omitempty"`
	YearsExperience int    `json:"years_experience"`
}

func (s *Skill) SlugSource() (string, bool) { return "", false }

// Пользователь (он же владелец портфолио)
type User struct {
	ID                  UserID    `json:"id"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	PassHash            string    `json:"-"` // никогда не отдаём наружу
	Headline            string    `json:"headline,omitempty"`
	Bio                 string    `json:"bio,omitempty"`
	Location            string    `json:"location,omitempty"`
	Website             string    `json:"website,omitempty"`
	AvatarURL           string    `json:"avatar_url,omitempty"`
	Socials             StringMap `json:"socials,omitempty"`
	OnboardingCompleted bool      `json:"onboarding_completed"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// Сообщение из формы обратной связи
type ContactMessage struct {
	ID          RecordID  `json:"id"`
	RecipientID UserID    `json:"recipient_id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject,omitempty"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// Агрегаты (то, что кешируется по владельцу)
type ResourceCounts struct {
	Total     int `json:"total"`
	Published int `json:"published"`
}

type DashboardStats struct {
	Projects       ResourceCounts `json:"projects"`
	Testimonials   ResourceCounts `json:"testimonials"`
	Services       ResourceCounts `json:"services"`
	Skills         ResourceCounts `json:"skills"`
	Messages       int            `json:"messages"`
	UnreadMessages int            `json:"unread_messages"`
	GeneratedAt    time.Time      `json:"generated_at"`
}

type Portfolio struct {
	Profile      User          `json:"profile"`
	Projects     []Project     `json:"projects"`
	Testimonials []Testimonial `json:"testimonials"`
	Services     []Service     `json:"services"`
	Skills       []Skill       `json:"skills"`
	GeneratedAt  time.Time     `json:"generated_at"`
}

// Загруженный медиа-объект
type Media struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}
