package password

import (
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cheap = &argon2id.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

func TestHashVerify(t *testing.T) {
	h := New(cheap)

	enc, err := h.Hash("Secr3t!pass")
	require.NoError(t, err)
	assert.Contains(t, enc, "$argon2id$")

	ok, err := h.Verify("Secr3t!pass", enc)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong", enc)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Verify("x", "not-a-hash")
	assert.Error(t, err)
}

func TestHashWithoutParams(t *testing.T) {
	var h *Hasher
	_, err := h.Hash("x")
	assert.Error(t, err)
}
