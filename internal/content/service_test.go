package content

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	"github.com/Charlesbasis/portfolio-app/internal/slug"
)

// memRepo: репозиторий в памяти с уникальностью slug, как в БД.
type memRepo[T any, PT RecordPtr[T]] struct {
	mu   sync.Mutex
	rows map[domain.RecordID]T
	// beforeWrite вызывается перед проверкой уникальности (имитация гонки)
	beforeWrite func(rec *T)
}

func newMemRepo[T any, PT RecordPtr[T]]() *memRepo[T, PT] {
	return &memRepo[T, PT]{rows: map[domain.RecordID]T{}}
}

func (r *memRepo[T, PT]) slugTaken(slug string, except domain.RecordID) bool {
	if slug == "" {
		return false
	}
	for id, row := range r.rows {
		if id != except && PT(&row).GetMeta().Slug == slug {
			return true
		}
	}
	return false
}

func (r *memRepo[T, PT]) put(rec *T) error {
	if r.beforeWrite != nil {
		r.beforeWrite(rec)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	m := PT(rec).GetMeta()
	if r.slugTaken(m.Slug, m.ID) {
		return errors.Join(errors.New("unique violation"), domain.ErrConflict)
	}
	r.rows[m.ID] = *rec
	return nil
}

func (r *memRepo[T, PT]) Insert(_ context.Context, rec *T) error { return r.put(rec) }

func (r *memRepo[T, PT]) Update(_ context.Context, rec *T) error {
	r.mu.Lock()
	_, ok := r.rows[PT(rec).GetMeta().ID]
	r.mu.Unlock()
	if !ok {
		return domain.ErrNotFound
	}
	return r.put(rec)
}

func (r *memRepo[T, PT]) Delete(_ context.Context, id domain.RecordID, owner domain.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok || PT(&row).GetMeta().OwnerID != owner {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *memRepo[T, PT]) ByID(_ context.Context, id domain.RecordID) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[id]
	if !ok {
		return row, domain.ErrNotFound
	}
	return row, nil
}

func (r *memRepo[T, PT]) BySlug(_ context.Context, s string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if PT(&row).GetMeta().Slug == s {
			return row, nil
		}
	}
	var zero T
	return zero, domain.ErrNotFound
}

func (r *memRepo[T, PT]) List(_ context.Context, _ domain.ListFilter) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, 0, len(r.rows))
	for _, row := range r.rows {
		out = append(out, row)
	}
	return out, nil
}

func (r *memRepo[T, PT]) SlugExists(_ context.Context, s string, except domain.RecordID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slugTaken(s, except), nil
}

func (r *memRepo[T, PT]) CountByOwner(context.Context, domain.UserID) (domain.ResourceCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return domain.ResourceCounts{Total: len(r.rows)}, nil
}

func (r *memRepo[T, PT]) slugs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, row := range r.rows {
		out = append(out, PT(&row).GetMeta().Slug)
	}
	sort.Strings(out)
	return out
}

// spyCache считает инвалидации по тегам
type spyCache struct {
	mu    sync.Mutex
	tags  []string
	fails bool
}

func (c *spyCache) InvalidateTag(_ context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags = append(c.tags, tag)
	if c.fails {
		return errors.New("redis: connection refused")
	}
	return nil
}

type projects = Service[domain.Project, *domain.Project]

func newProjects(t *testing.T) (*projects, *memRepo[domain.Project, *domain.Project], *spyCache) {
	t.Helper()
	repo := newMemRepo[domain.Project, *domain.Project]()
	cache := &spyCache{}
	svc := NewService[domain.Project, *domain.Project]("projects", repo, slug.NewGenerator(), NewInvalidator(cache, nil), nil)
	return svc, repo, cache
}

func project(title string) *domain.Project {
	return &domain.Project{Title: title, Description: "d", Features: domain.StringList{"a"}}
}

func TestCreate_SameTitleGetsSuffixes(t *testing.T) {
	svc, _, _ := newProjects(t)
	owner := uuid.New()

	var got []string
	for i := 0; i < 4; i++ {
		p := project("My Cool Project")
		require.NoError(t, svc.Create(context.Background(), owner, p))
		got = append(got, p.Slug)
	}
	assert.Equal(t, []string{"my-cool-project", "my-cool-project-1", "my-cool-project-2", "my-cool-project-3"}, got)
}

func TestCreate_SetsOwnerAndDefaults(t *testing.T) {
	svc, _, _ := newProjects(t)
	owner := uuid.New()
	p := project("X")
	p.OwnerID = uuid.New() // попытка подменить владельца
	require.NoError(t, svc.Create(context.Background(), owner, p))

	assert.Equal(t, owner, p.OwnerID)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, domain.StatusDraft, p.Status)
	assert.Equal(t, domain.DefaultCategory, p.Category)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestCreate_HumanSlugIsNormalized(t *testing.T) {
	svc, _, _ := newProjects(t)
	p := project("Anything")
	p.Slug = "Hand Made_Slug"
	require.NoError(t, svc.Create(context.Background(), uuid.New(), p))
	assert.Equal(t, "hand-made-slug", p.Slug)
}

func TestCreate_HumanSlugTakenIsValidationError(t *testing.T) {
	svc, repo, cache := newProjects(t)
	owner := uuid.New()
	require.NoError(t, svc.Create(context.Background(), owner, project("Taken")))
	cache.tags = nil

	p := project("Other")
	p.Slug = "taken"
	err := svc.Create(context.Background(), owner, p)

	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "slug")
	assert.Equal(t, []string{"taken"}, repo.slugs())
	assert.Empty(t, cache.tags, "failed write must not invalidate")
}

func TestCreate_RaceIsRetriedOnce(t *testing.T) {
	svc, repo, _ := newProjects(t)
	owner := uuid.New()

	// конкурент вставляет тот же slug между проверкой и нашей вставкой
	raced := false
	repo.beforeWrite = func(rec *domain.Project) {
		if raced {
			return
		}
		raced = true
		rival := domain.Project{Meta: domain.Meta{ID: uuid.New(), OwnerID: uuid.New(), Slug: rec.Slug}}
		repo.mu.Lock()
		repo.rows[rival.ID] = rival
		repo.mu.Unlock()
	}

	p := project("Race Me")
	require.NoError(t, svc.Create(context.Background(), owner, p))
	assert.Equal(t, "race-me-1", p.Slug)
	assert.Equal(t, []string{"race-me", "race-me-1"}, repo.slugs())
}

func TestCreate_SecondConflictSurfacesAsServerError(t *testing.T) {
	svc, repo, cache := newProjects(t)

	repo.beforeWrite = func(rec *domain.Project) {
		rival := domain.Project{Meta: domain.Meta{ID: uuid.New(), Slug: rec.Slug}}
		repo.mu.Lock()
		repo.rows[rival.ID] = rival
		repo.mu.Unlock()
	}

	err := svc.Create(context.Background(), uuid.New(), project("Always Loses"))
	require.ErrorIs(t, err, domain.ErrConflict)
	var ve *domain.ValidationError
	assert.False(t, errors.As(err, &ve))
	assert.Empty(t, cache.tags)
}

func TestCreate_ConcurrentSameTitleNeverDuplicates(t *testing.T) {
	svc, repo, _ := newProjects(t)
	owner := uuid.New()

	// оба видят свободный slug, потом оба пишут
	var (
		gate  sync.WaitGroup
		calls atomic.Int32
	)
	gate.Add(2)
	repo.beforeWrite = func(*domain.Project) {
		if calls.Add(1) <= 2 {
			gate.Done()
			gate.Wait()
		}
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = svc.Create(context.Background(), owner, project("Twin"))
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, []string{"twin", "twin-1"}, repo.slugs())
}

func TestUpdate_TitleChangeKeepsExistingSlug(t *testing.T) {
	svc, _, _ := newProjects(t)
	owner := uuid.New()
	p := project("Original")
	require.NoError(t, svc.Create(context.Background(), owner, p))

	got, err := svc.Update(context.Background(), owner, p.ID, func(r *domain.Project) {
		r.Title = "Renamed Entirely"
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Entirely", got.Title)
	assert.Equal(t, "original", got.Slug)
}

func TestUpdate_EmptySlugRegeneratedOnTitleChange(t *testing.T) {
	svc, repo, _ := newProjects(t)
	owner := uuid.New()

	require.NoError(t, svc.Create(context.Background(), owner, project("New Name")))

	legacy := domain.Project{Meta: domain.Meta{ID: uuid.New(), OwnerID: owner, Status: domain.StatusDraft}, Title: "Old"}
	repo.rows[legacy.ID] = legacy

	got, err := svc.Update(context.Background(), owner, legacy.ID, func(r *domain.Project) { r.Title = "New Name" })
	require.NoError(t, err)
	assert.Equal(t, "new-name-1", got.Slug)
}

func TestUpdate_EmptySlugKeptWhenTitleUnchanged(t *testing.T) {
	svc, repo, _ := newProjects(t)
	owner := uuid.New()
	legacy := domain.Project{Meta: domain.Meta{ID: uuid.New(), OwnerID: owner}, Title: "Same"}
	repo.rows[legacy.ID] = legacy

	got, err := svc.Update(context.Background(), owner, legacy.ID, func(r *domain.Project) { r.Description = "changed" })
	require.NoError(t, err)
	assert.Empty(t, got.Slug)
}

func TestUpdate_ImmutableFieldsAndOwnerScope(t *testing.T) {
	svc, _, _ := newProjects(t)
	owner := uuid.New()
	p := project("Mine")
	require.NoError(t, svc.Create(context.Background(), owner, p))

	_, err := svc.Update(context.Background(), uuid.New(), p.ID, func(r *domain.Project) { r.Title = "stolen" })
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Update(context.Background(), owner, p.ID, func(r *domain.Project) {
		r.OwnerID = uuid.New()
		r.ID = uuid.New()
	})
	require.NoError(t, err)
	assert.Equal(t, owner, got.OwnerID)
	assert.Equal(t, p.ID, got.ID)
}

func TestUpdate_HumanSlugChangeChecked(t *testing.T) {
	svc, _, _ := newProjects(t)
	owner := uuid.New()
	a, b := project("A"), project("B")
	require.NoError(t, svc.Create(context.Background(), owner, a))
	require.NoError(t, svc.Create(context.Background(), owner, b))

	_, err := svc.Update(context.Background(), owner, b.ID, func(r *domain.Project) { r.Slug = "a" })
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)

	got, err := svc.Update(context.Background(), owner, b.ID, func(r *domain.Project) { r.Slug = "Brand New" })
	require.NoError(t, err)
	assert.Equal(t, "brand-new", got.Slug)
}

func TestWrites_InvalidateOwnerScope(t *testing.T) {
	svc, _, cache := newProjects(t)
	owner := uuid.New()
	tag := domain.CacheTagOwner(owner)

	p := project("Cache Me")
	require.NoError(t, svc.Create(context.Background(), owner, p))
	_, err := svc.Update(context.Background(), owner, p.ID, func(r *domain.Project) { r.Featured = true })
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), owner, p.ID))

	assert.Equal(t, []string{tag, tag, tag}, cache.tags)
}

func TestWrites_CacheFailureDoesNotFailWrite(t *testing.T) {
	svc, repo, cache := newProjects(t)
	cache.fails = true

	p := project("Still Saved")
	require.NoError(t, svc.Create(context.Background(), uuid.New(), p))
	assert.Equal(t, []string{"still-saved"}, repo.slugs())
	assert.Len(t, cache.tags, 1)
}

func TestGet_ByIDOrSlugAndDraftVisibility(t *testing.T) {
	svc, _, _ := newProjects(t)
	owner := uuid.New()
	p := project("Hidden Draft")
	require.NoError(t, svc.Create(context.Background(), owner, p))

	_, err := svc.Get(context.Background(), "hidden-draft", nil)
	require.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Get(context.Background(), "hidden-draft", &owner)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = svc.Update(context.Background(), owner, p.ID, func(r *domain.Project) { r.Status = domain.StatusPublished })
	require.NoError(t, err)
	got, err = svc.Get(context.Background(), p.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, "hidden-draft", got.Slug)
}

func TestSkill_HasNoSlug(t *testing.T) {
	repo := newMemRepo[domain.Skill, *domain.Skill]()
	svc := NewService[domain.Skill, *domain.Skill]("skills", repo, slug.NewGenerator(), nil, nil)
	owner := uuid.New()

	for i := 0; i < 2; i++ {
		s := &domain.Skill{Name: "Go", Level: 90}
		s.Slug = "ignored"
		require.NoError(t, svc.Create(context.Background(), owner, s))
		assert.Empty(t, s.Slug)
	}
}
