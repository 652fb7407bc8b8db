// Package slug строит URL-safe идентификаторы из заголовков и подбирает
// свободный вариант в рамках одной таблицы.
package slug

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gosimple "github.com/gosimple/slug"
	"github.com/google/uuid"
)

const (
	// запас под суффиксы "-N" при длине колонки 255
	maxBaseLen         = 200
	defaultMaxAttempts = 1000
)

var dashRunsRe = regexp.MustCompile(`-{2,}`)

// Make нормализует заголовок: транслитерация в ASCII, нижний регистр,
// любые серии пробелов/пунктуации -> один дефис, без дефисов по краям.
// Make(Make(s)) == Make(s).
func Make(title string) string {
	s := gosimple.Make(title)
	// gosimple оставляет "_", нам нужен только дефис
	s = strings.ReplaceAll(s, "_", "-")
	s = dashRunsRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxBaseLen {
		s = strings.TrimRight(s[:maxBaseLen], "-")
	}
	return s
}

// Exists: точечная проверка кандидата в хранилище.
type Exists func(ctx context.Context, candidate string) (bool, error)

// Generator подбирает свободный slug: base, base-1, base-2, ...
// Это лишь предварительная проверка: авторитетна уникальность в БД.
type Generator struct {
	maxAttempts int
	randSuffix  func() string
}

type Option func(*Generator)

// WithMaxAttempts ограничивает число суффиксов до перехода на случайный.
func WithMaxAttempts(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxAttempts = n
		}
	}
}

// WithRandSuffix подменяет генератор случайного суффикса (для тестов).
func WithRandSuffix(f func() string) Option {
	return func(g *Generator) { g.randSuffix = f }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		maxAttempts: defaultMaxAttempts,
		randSuffix:  func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:8] },
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Unique возвращает свободный slug для заголовка.
func (g *Generator) Unique(ctx context.Context, title string, exists Exists) (string, error) {
	return g.UniqueFrom(ctx, Make(title), exists)
}

// UniqueFrom: то же, но для уже нормализованной базы.
// Пустая база считается занятой: результат будет "-1", "-2", ...
func (g *Generator) UniqueFrom(ctx context.Context, base string, exists Exists) (string, error) {
	if base != "" {
		taken, err := exists(ctx, base)
		if err != nil {
			return "", fmt.Errorf("slug lookup %q: %w", base, err)
		}
		if !taken {
			return base, nil
		}
	}

	for i := 1; i <= g.maxAttempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		cand := base + "-" + strconv.Itoa(i)
		taken, err := exists(ctx, cand)
		if err != nil {
			return "", fmt.Errorf("slug lookup %q: %w", cand, err)
		}
		if !taken {
			return cand, nil
		}
	}

	// патологический случай: не перебираем бесконечно
	return base + "-" + g.randSuffix(), nil
}
