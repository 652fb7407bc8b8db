package token

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Charlesbasis/portfolio-app/internal/domain"
)

func TestIssueParse(t *testing.T) {
	ctx := context.Background()
	m := New("secret", "portfolio", time.Hour)
	uid := uuid.New()

	raw, issued, err := m.Issue(ctx, uid, "ann@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, issued.JTI)

	parsed, err := m.Parse(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, uid, parsed.UserID)
	assert.Equal(t, "ann@example.com", parsed.Email)
	assert.Equal(t, issued.JTI, parsed.JTI)
	assert.WithinDuration(t, issued.ExpiresAt, parsed.ExpiresAt, time.Second)
}

func TestParseRejects(t *testing.T) {
	ctx := context.Background()
	m := New("secret", "portfolio", time.Hour)
	raw, _, err := m.Issue(ctx, uuid.New(), "a@b.c")
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := New("other", "portfolio", time.Hour).Parse(ctx, raw)
		assert.ErrorIs(t, err, domain.ErrUnauth)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		_, err := New("secret", "someone-else", time.Hour).Parse(ctx, raw)
		assert.ErrorIs(t, err, domain.ErrUnauth)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.Parse(ctx, "not.a.jwt")
		assert.ErrorIs(t, err, domain.ErrUnauth)
	})

	t.Run("expired", func(t *testing.T) {
		late := New("secret", "portfolio", time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Parse(ctx, raw)
		assert.ErrorIs(t, err, domain.ErrUnauth)
		assert.True(t, IsExpired(err))
	})
}
