package slug

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"My Cool Project", "my-cool-project"},
		{"  Hello,   World!  ", "hello-world"},
		{"snake_case_title", "snake-case-title"},
		{"Crème Brûlée", "creme-brulee"},
		{"--already--dashed--", "already-dashed"},
		{"Go 1.24 release", "go-1-24-release"},
		{"", ""},
		{"!!!", ""},
		{"___", ""},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Make(tc.in))
		})
	}
}

func TestMake_Idempotent(t *testing.T) {
	titles := []string{
		"My Cool Project", "Crème Brûlée", "Привет мир", "a_b-c d", "x!!y??z",
		"Ünïcödé & Friends", strings.Repeat("long title ", 40), "-1", "",
	}
	for _, title := range titles {
		once := Make(title)
		assert.Equal(t, once, Make(once), "title %q", title)
	}
}

func TestMake_LongTitleIsCapped(t *testing.T) {
	s := Make(strings.Repeat("abc ", 200))
	assert.LessOrEqual(t, len(s), maxBaseLen)
	assert.False(t, strings.HasSuffix(s, "-"))
}

// set: имитация таблицы со slug'ами
type set map[string]bool

func (s set) exists(_ context.Context, c string) (bool, error) { return s[c], nil }

func TestUnique_SequenceForSameTitle(t *testing.T) {
	g := NewGenerator()
	taken := set{}
	var got []string
	for i := 0; i < 5; i++ {
		s, err := g.Unique(context.Background(), "My Cool Project", taken.exists)
		require.NoError(t, err)
		taken[s] = true
		got = append(got, s)
	}
	assert.Equal(t, []string{
		"my-cool-project",
		"my-cool-project-1",
		"my-cool-project-2",
		"my-cool-project-3",
		"my-cool-project-4",
	}, got)
}

func TestUnique_EmptyBaseTerminates(t *testing.T) {
	g := NewGenerator()
	taken := set{}
	var got []string
	for i := 0; i < 3; i++ {
		s, err := g.Unique(context.Background(), "?!", taken.exists)
		require.NoError(t, err)
		taken[s] = true
		got = append(got, s)
	}
	assert.Equal(t, []string{"-1", "-2", "-3"}, got)
}

func TestUnique_CeilingFallsBackToRandomSuffix(t *testing.T) {
	g := NewGenerator(WithMaxAttempts(3), WithRandSuffix(func() string { return "deadbeef" }))
	calls := 0
	always := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}
	s, err := g.Unique(context.Background(), "Busy", always)
	require.NoError(t, err)
	assert.Equal(t, "busy-deadbeef", s)
	assert.Equal(t, 4, calls) // base + 3 суффикса
}

func TestUnique_LookupErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	g := NewGenerator()
	_, err := g.Unique(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
}

func TestUnique_RespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGenerator()
	_, err := g.Unique(ctx, "x", func(context.Context, string) (bool, error) { return true, nil })
	require.ErrorIs(t, err, context.Canceled)
}

func TestUnique_SkipsGaps(t *testing.T) {
	g := NewGenerator()
	taken := set{"post": true, "post-1": true, "post-3": true}
	s, err := g.Unique(context.Background(), "Post", taken.exists)
	require.NoError(t, err)
	assert.Equal(t, "post-2", s)
}

func ExampleMake() {
	fmt.Println(Make("My Cool Project"))
	// Output: my-cool-project
}
