package aggregate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
	redisx "github.com/Charlesbasis/portfolio-app/internal/infra/cache/redis"
)

type fakeSource[T any] struct {
	items  []T
	counts domain.ResourceCounts
	calls  atomic.Int32
	gate   chan struct{} // если задан, Counts ждёт закрытия
	err    error
}

func (f *fakeSource[T]) List(ctx context.Context, _ domain.ListFilter) ([]T, error) {
	return f.items, f.err
}

func (f *fakeSource[T]) Counts(ctx context.Context, _ domain.UserID) (domain.ResourceCounts, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	return f.counts, f.err
}

type fakeMessages struct{ total, unread int }

func (f fakeMessages) CountMessages(context.Context, domain.UserID) (int, int, error) {
	return f.total, f.unread, nil
}

type fakeUsers map[domain.UserID]domain.User

func (f fakeUsers) UserByID(_ context.Context, id domain.UserID) (domain.User, error) {
	u, ok := f[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

type fixture struct {
	projects *fakeSource[domain.Project]
	mr       *miniredis.Miniredis
	cache    *redisx.Cache
	views    *Views
	owner    domain.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	owner := uuid.New()
	mr := miniredis.RunT(t)
	cache := redisx.New(redisx.Config{Addr: mr.Addr()}, zaptest.NewLogger(t))
	t.Cleanup(cache.Close)

	projects := &fakeSource[domain.Project]{
		items:  []domain.Project{{Title: "Shown"}},
		counts: domain.ResourceCounts{Total: 3, Published: 1},
	}
	src := Sources{
		Projects:     projects,
		Testimonials: &fakeSource[domain.Testimonial]{counts: domain.ResourceCounts{Total: 1}},
		Services:     &fakeSource[domain.Service]{},
		Skills:       &fakeSource[domain.Skill]{items: []domain.Skill{{Name: "Go"}}},
		Messages:     fakeMessages{total: 4, unread: 2},
		Users:        fakeUsers{owner: {ID: owner, Name: "Ann", Email: "ann@example.com"}},
	}
	return &fixture{
		projects: projects,
		mr:       mr,
		cache:    cache,
		views:    New(src, cache, 10*time.Minute, time.Hour, zaptest.NewLogger(t)),
		owner:    owner,
	}
}

func TestDashboardStatsReadThrough(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	st, err := f.views.DashboardStats(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceCounts{Total: 3, Published: 1}, st.Projects)
	assert.Equal(t, 4, st.Messages)
	assert.Equal(t, 2, st.UnreadMessages)
	assert.Equal(t, int32(1), f.projects.calls.Load())

	key := domain.CacheKeyDashboardStats(f.owner)
	assert.True(t, f.mr.Exists(key))
	assert.Equal(t, 10*time.Minute, f.mr.TTL(key))

	// повторное чтение из кеша
	_, err = f.views.DashboardStats(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, int32(1), f.projects.calls.Load())

	// после инвалидации владельца считаем заново и видим свежие данные
	require.NoError(t, f.cache.InvalidateTag(ctx, domain.CacheTagOwner(f.owner)))
	f.projects.counts = domain.ResourceCounts{Total: 4, Published: 2}
	st, err = f.views.DashboardStats(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 4, st.Projects.Total)
	assert.Equal(t, int32(2), f.projects.calls.Load())
}

func TestPortfolioIsPublicAndTagged(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.views.Portfolio(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, "Ann", p.Profile.Name)
	assert.Empty(t, p.Profile.Email)
	require.Len(t, p.Projects, 1)
	assert.Equal(t, "Go", p.Skills[0].Name)

	members, err := f.mr.Members(domain.CacheTagOwner(f.owner))
	require.NoError(t, err)
	assert.Contains(t, members, domain.CacheKeyPortfolio(f.owner))
	assert.Equal(t, time.Hour, f.mr.TTL(domain.CacheKeyPortfolio(f.owner)))

	_, err = f.views.Portfolio(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCacheOutageStillServes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mr.Close()

	st, err := f.views.DashboardStats(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Projects.Total)
}

func TestSourceErrorIsReturnedAndNotCached(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.projects.err = errors.New("db down")

	_, err := f.views.DashboardStats(ctx, f.owner)
	require.Error(t, err)
	assert.False(t, f.mr.Exists(domain.CacheKeyDashboardStats(f.owner)))
}

func TestConcurrentMissesComputeOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.projects.gate = make(chan struct{})

	const n = 10
	var wg sync.WaitGroup
	results := make([]domain.DashboardStats, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			st, err := f.views.DashboardStats(ctx, f.owner)
			assert.NoError(t, err)
			results[i] = st
		}(i)
	}

	// все запросы успевают встать в очередь за первым расчётом
	require.Eventually(t, func() bool { return f.projects.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	close(f.projects.gate)
	wg.Wait()

	assert.Equal(t, int32(1), f.projects.calls.Load())
	for _, r := range results {
		assert.Equal(t, 3, r.Projects.Total)
	}
}

// slowProjects: первый Counts запоминает значение и ждёт hold,
// как долгий расчёт, во время которого приходит запись.
type slowProjects struct {
	mu      sync.Mutex
	total   int
	calls   atomic.Int32
	entered chan struct{}
	hold    chan struct{}
}

func (s *slowProjects) List(context.Context, domain.ListFilter) ([]domain.Project, error) {
	return nil, nil
}

func (s *slowProjects) Counts(context.Context, domain.UserID) (domain.ResourceCounts, error) {
	s.mu.Lock()
	total := s.total
	s.mu.Unlock()
	if s.calls.Add(1) == 1 {
		close(s.entered)
		<-s.hold
	}
	return domain.ResourceCounts{Total: total}, nil
}

func (s *slowProjects) set(total int) {
	s.mu.Lock()
	s.total = total
	s.mu.Unlock()
}

func TestReadAfterWriteDuringInFlightCompute(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	src := &slowProjects{total: 1, entered: make(chan struct{}), hold: make(chan struct{})}
	f.views.src.Projects = src

	early := make(chan domain.DashboardStats, 1)
	go func() {
		st, err := f.views.DashboardStats(ctx, f.owner)
		assert.NoError(t, err)
		early <- st
	}()
	<-src.entered

	// запись и инвалидация, пока ранний расчёт висит на старых данных
	src.set(2)
	require.NoError(t, f.cache.InvalidateTag(ctx, domain.CacheTagOwner(f.owner)))

	st, err := f.views.DashboardStats(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Projects.Total, "read after write")

	close(src.hold)
	assert.Equal(t, 1, (<-early).Projects.Total)

	// опоздавший расчёт не перезаписал кеш
	st, err = f.views.DashboardStats(ctx, f.owner)
	require.NoError(t, err)
	assert.Equal(t, 2, st.Projects.Total, "cached after stale compute finished")
	assert.Equal(t, int32(2), src.calls.Load())
}
