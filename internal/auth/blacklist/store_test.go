package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	redisx "github.com/Charlesbasis/portfolio-app/internal/infra/cache/redis"
)

func TestRevokeLivesUntilTokenExpiry(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := redisx.New(redisx.Config{Addr: mr.Addr()}, zaptest.NewLogger(t))
	defer cache.Close()

	fixed := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewStore(cache)
	s.now = func() time.Time { return fixed }

	revoked, err := s.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "abc", fixed.Add(30*time.Minute)))
	revoked, err = s.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.Equal(t, 30*time.Minute, mr.TTL("jti:abc"))

	mr.FastForward(31 * time.Minute)
	revoked, err = s.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevokeExpiredTokenStillRecorded(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	cache := redisx.New(redisx.Config{Addr: mr.Addr()}, zaptest.NewLogger(t))
	defer cache.Close()

	s := NewStore(cache)
	require.NoError(t, s.Revoke(ctx, "old", time.Now().Add(-time.Hour)))
	assert.Equal(t, time.Minute, mr.TTL("jti:old"))
}
