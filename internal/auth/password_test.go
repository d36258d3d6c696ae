package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/auth"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := auth.NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	digest, err := h.Hash(ctx, "pw")
	require.NoError(t, err)
	assert.NotEqual(t, "pw", digest)

	ok, err := h.Verify(ctx, digest, "pw")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(ctx, digest, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_SaltedDigests(t *testing.T) {
	h := auth.NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()

	a, err := h.Hash(ctx, "same")
	require.NoError(t, err)
	b, err := h.Hash(ctx, "same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	cost, err := bcrypt.Cost([]byte(a))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordHasher_CancelledContext(t *testing.T) {
	h := auth.NewPasswordHasher(bcrypt.MinCost, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPasswordHasher_MalformedDigest(t *testing.T) {
	h := auth.NewPasswordHasher(bcrypt.MinCost, 1)
	ok, err := h.Verify(context.Background(), "not-a-digest", "pw")
	assert.False(t, ok)
	assert.Error(t, err)
}
