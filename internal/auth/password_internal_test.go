package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_BoundedConcurrency(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)

	// Occupy the only worker slot.
	require.NoError(t, h.sem.Acquire(context.Background(), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := h.Hash(ctx, "pw")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	ok, err := h.Verify(ctx, "$2a$04$invalid", "pw")
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	h.sem.Release(1)

	digest, err := h.Hash(context.Background(), "pw")
	require.NoError(t, err)
	ok, err = h.Verify(context.Background(), digest, "pw")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasher_SlotFreedAfterCompletion(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 2)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := h.Hash(ctx, "pw")
		require.NoError(t, err)
	}
	// All slots are released once calls return.
	assert.True(t, h.sem.TryAcquire(2))
	h.sem.Release(2)
}

func TestPasswordHasher_VerifyRejectsBytesPastLimit(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, 1)
	ctx := context.Background()
	password := strings.Repeat("a", MaxPasswordBytes)

	digest, err := h.Hash(ctx, password)
	require.NoError(t, err)

	ok, err := h.Verify(ctx, digest, password+"EXTRA")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = h.Verify(ctx, digest, password)
	require.NoError(t, err)
	assert.True(t, ok)
}
